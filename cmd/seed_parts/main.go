// seed_parts genera un script SQL para poblar la tabla parts a partir del CSV exportado
// de la planilla de piezas (ISO-8859-1 o UTF-8, separado por ';' o ',').
//
// Uso: go run ./cmd/seed_parts [ruta/piezas.csv] [salida.sql]
// Por defecto lee piezas.csv y escribe en la salida estándar.
package main

import (
	"fmt"
	"io"
	"os"
)

func main() {
	csvPath := "piezas.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	raw, err := os.ReadFile(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}

	rows, skipped, err := parseParts(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	var out io.Writer = os.Stdout
	if len(os.Args) > 2 {
		f, err := os.Create(os.Args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	if err := writeSQL(out, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	for _, s := range skipped {
		fmt.Fprintf(os.Stderr, "omitida: %s\n", s)
	}
	fmt.Fprintf(os.Stderr, "Generado: %d piezas, %d filas omitidas\n", len(rows), len(skipped))
}
