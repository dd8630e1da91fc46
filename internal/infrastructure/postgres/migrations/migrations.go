// Package migrations contiene el esquema de la base embebido en el binario (goose).
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
