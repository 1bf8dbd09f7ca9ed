// Package migrations aplica el esquema de la base con golang-migrate. Los archivos SQL van embebidos en el binario.
package migrations

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog/log"
)

//go:embed sql/*.sql
var files embed.FS

// Migrator envuelve *migrate.Migrate sobre los SQL embebidos.
type Migrator struct {
	m *migrate.Migrate
}

// New construye el migrador. dsn acepta postgres:// o postgresql://; se traduce al esquema pgx5://.
func New(dsn string) (*Migrator, error) {
	src, err := iofs.New(files, "sql")
	if err != nil {
		return nil, fmt.Errorf("abrir migraciones embebidas: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, driverURL(dsn))
	if err != nil {
		return nil, fmt.Errorf("inicializar migrate: %w", err)
	}
	return &Migrator{m: m}, nil
}

// Up aplica todas las migraciones pendientes. Sin cambios no es error.
func (g *Migrator) Up() error {
	if err := g.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	g.logVersion("up")
	return nil
}

// Down revierte todas las migraciones.
func (g *Migrator) Down() error {
	if err := g.m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down: %w", err)
	}
	g.logVersion("down")
	return nil
}

// Version versión aplicada y si quedó sucia.
func (g *Migrator) Version() (uint, bool, error) {
	v, dirty, err := g.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

// Close libera la fuente y la conexión.
func (g *Migrator) Close() error {
	srcErr, dbErr := g.m.Close()
	return errors.Join(srcErr, dbErr)
}

func (g *Migrator) logVersion(op string) {
	v, dirty, err := g.Version()
	if err != nil {
		log.Warn().Err(err).Str("op", op).Msg("no se pudo leer la versión del esquema")
		return
	}
	log.Info().Str("op", op).Uint("version", v).Bool("dirty", dirty).Msg("migraciones aplicadas")
}

func driverURL(dsn string) string {
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(dsn, prefix) {
			return "pgx5://" + strings.TrimPrefix(dsn, prefix)
		}
	}
	return dsn
}
