// migrate aplica el esquema embebido con goose.
//
// Uso: go run ./cmd/migrate [up|status]
package main

import (
	"os"

	"github.com/jhoicas/assistencia-api/internal/infrastructure/postgres"
	"github.com/jhoicas/assistencia-api/internal/infrastructure/postgres/migrations"
	"github.com/jhoicas/assistencia-api/pkg/config"
	"github.com/jhoicas/assistencia-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "migrate"})

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	dsn := cfg.DB.ConnectionString()

	switch cmd {
	case "up":
		if err := postgres.Migrate(dsn, migrations.FS); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	case "status":
		if err := postgres.MigrationStatus(dsn, migrations.FS); err != nil {
			log.Fatal().Err(err).Msg("estado de migraciones")
		}
	default:
		log.Fatal().Str("cmd", cmd).Msg("comando desconocido (up | status)")
	}
}
