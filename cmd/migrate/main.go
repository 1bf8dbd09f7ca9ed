// migrate aplica o revierte el esquema de la base.
//
// Uso: go run ./cmd/migrate up|down|version
package main

import (
	"fmt"
	"os"

	"github.com/jhoicas/Donaciones-api/internal/infrastructure/migrations"
	"github.com/jhoicas/Donaciones-api/pkg/config"
	"github.com/jhoicas/Donaciones-api/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: migrate up|down|version")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "migrate"})

	m, err := migrations.New(cfg.DB.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar migraciones")
	}
	defer func() { _ = m.Close() }()

	switch os.Args[1] {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "version":
		v, dirty, verr := m.Version()
		if verr == nil {
			log.Info().Uint("version", v).Bool("dirty", dirty).Msg("versión del esquema")
		}
		err = verr
	default:
		log.Fatal().Str("cmd", os.Args[1]).Msg("comando desconocido")
	}
	if err != nil {
		log.Fatal().Err(err).Str("cmd", os.Args[1]).Msg("migración fallida")
	}
}
