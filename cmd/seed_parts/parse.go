package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// seedSpace espacio de nombres de los IDs: la misma pieza genera siempre el mismo UUID.
var seedSpace = uuid.MustParse("2b0f1d9e-7c4a-4e55-8f3b-91a6c2d4e871")

type partRow struct {
	ID               string
	Name             string
	Manufacturer     string
	Model            string
	ManufacturerCode string
	UnitPrice        decimal.Decimal
	Stock            int
}

// Encabezados aceptados (sin acentos, en minúscula) por columna.
var headerAliases = map[string][]string{
	"name":              {"name", "nome", "nombre", "peca", "pieza", "descricao"},
	"manufacturer":      {"manufacturer", "fabricante", "marca"},
	"model":             {"model", "modelo"},
	"manufacturer_code": {"manufacturer_code", "codigo", "codigo fabricante", "code", "ref", "referencia"},
	"unit_price":        {"unit_price", "preco", "precio", "price", "valor", "valor unitario"},
	"stock_quantity":    {"stock_quantity", "estoque", "stock", "quantidade", "cantidad", "qtd"},
}

// parseParts decodifica el CSV y devuelve las filas válidas y una descripción de las omitidas.
func parseParts(raw []byte) ([]partRow, []string, error) {
	text, err := toUTF8(raw)
	if err != nil {
		return nil, nil, err
	}
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = detectDelimiter(text)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("encabezado: %w", err)
	}
	cols := mapColumns(header)
	if _, ok := cols["name"]; !ok {
		return nil, nil, fmt.Errorf("falta la columna de nombre en %v", header)
	}

	var (
		rows    []partRow
		skipped []string
		seen    = make(map[string]bool)
	)
	line := 1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, nil, fmt.Errorf("línea %d: %w", line, err)
		}
		row, reason := buildRow(rec, cols)
		if reason != "" {
			skipped = append(skipped, fmt.Sprintf("línea %d: %s", line, reason))
			continue
		}
		if seen[row.ID] {
			skipped = append(skipped, fmt.Sprintf("línea %d: pieza repetida (%s)", line, row.Name))
			continue
		}
		seen[row.ID] = true
		rows = append(rows, row)
	}
	return rows, skipped, nil
}

func buildRow(rec []string, cols map[string]int) (partRow, string) {
	get := func(col string) string {
		i, ok := cols[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	row := partRow{
		Name:             get("name"),
		Manufacturer:     get("manufacturer"),
		Model:            get("model"),
		ManufacturerCode: get("manufacturer_code"),
	}
	if row.Name == "" {
		return row, "sin nombre"
	}
	price, err := parsePrice(get("unit_price"))
	if err != nil || price.IsNegative() {
		return row, fmt.Sprintf("precio inválido %q", get("unit_price"))
	}
	row.UnitPrice = price
	if s := get("stock_quantity"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return row, fmt.Sprintf("stock inválido %q", s)
		}
		row.Stock = n
	}
	key := strings.ToLower(row.Name + "|" + row.Manufacturer + "|" + row.Model + "|" + row.ManufacturerCode)
	row.ID = uuid.NewSHA1(seedSpace, []byte(key)).String()
	return row, ""
}

// parsePrice acepta "1.234,56", "1234,56", "1234.56" y "R$ 12,00".
func parsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	return decimal.NewFromString(s)
}

// toUTF8 deja el texto como está si ya es UTF-8; si no, lo decodifica como ISO-8859-1.
func toUTF8(raw []byte) (string, error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	out, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), raw)
	if err != nil {
		return "", fmt.Errorf("decodificar ISO-8859-1: %w", err)
	}
	return string(out), nil
}

func detectDelimiter(text string) rune {
	first, _, _ := strings.Cut(text, "\n")
	if strings.Count(first, ";") > strings.Count(first, ",") {
		return ';'
	}
	return ','
}

func mapColumns(header []string) map[string]int {
	cols := make(map[string]int)
	for i, h := range header {
		key := normalizeHeader(h)
		for col, aliases := range headerAliases {
			if _, done := cols[col]; done {
				continue
			}
			for _, a := range aliases {
				if key == a {
					cols[col] = i
				}
			}
		}
	}
	return cols
}

// normalizeHeader minúsculas y sin acentos: "Preço" → "preco".
func normalizeHeader(h string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(strings.TrimSpace(h)))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(h))
	}
	return out
}

func writeSQL(w io.Writer, rows []partRow) error {
	var b strings.Builder
	b.WriteString("-- Piezas importadas desde la planilla (cmd/seed_parts)\n")
	b.WriteString("-- Los IDs son deterministas: volver a ejecutar el script no duplica piezas.\n\n")
	if len(rows) == 0 {
		b.WriteString("-- sin filas\n")
		_, err := io.WriteString(w, b.String())
		return err
	}
	b.WriteString("INSERT INTO parts (id, name, manufacturer, model, manufacturer_code, unit_price, stock_quantity) VALUES\n")
	for i, r := range rows {
		fmt.Fprintf(&b, "  ('%s', '%s', '%s', '%s', '%s', %s, %d)",
			r.ID, escapeSQL(r.Name), escapeSQL(r.Manufacturer), escapeSQL(r.Model),
			escapeSQL(r.ManufacturerCode), r.UnitPrice.StringFixed(2), r.Stock)
		if i < len(rows)-1 {
			b.WriteString(",\n")
		} else {
			b.WriteString("\n")
		}
	}
	b.WriteString("ON CONFLICT (id) DO NOTHING;\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
