// seed carga catálogo de unidades, unidades receptoras o donantes desde un CSV.
// Las hojas de cálculo suelen exportar en ISO-8859-1; con -latin1 se decodifica a UTF-8.
//
// Uso:
//
//	go run ./cmd/seed -kind catalog -file unidades.csv      (item_name;item_category;unidades separadas por |;índice por defecto)
//	go run ./cmd/seed -kind recipients -file unidades_receptoras.csv   (name;contact)
//	go run ./cmd/seed -kind donors -file donantes.csv       (name;contact)
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Donaciones-api/internal/application/dto"
	"github.com/jhoicas/Donaciones-api/internal/application/inventory"
	"github.com/jhoicas/Donaciones-api/internal/domain"
	"github.com/jhoicas/Donaciones-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Donaciones-api/pkg/config"
	"github.com/jhoicas/Donaciones-api/pkg/logger"
)

func main() {
	kind := flag.String("kind", "catalog", "catalog | recipients | donors")
	file := flag.String("file", "", "ruta del CSV")
	latin1 := flag.Bool("latin1", false, "el archivo viene en ISO-8859-1")
	sep := flag.String("sep", ";", "separador de columnas")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "falta -file")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir CSV")
	}
	defer f.Close()

	rows, err := readRows(f, *latin1, *sep)
	if err != nil {
		log.Fatal().Err(err).Msg("leer CSV")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	repos := postgres.NewRepos(pool)
	opts := inventory.Options{}

	var loaded, skipped int
	switch *kind {
	case "catalog":
		reqs, err := catalogRequests(rows)
		if err != nil {
			log.Fatal().Err(err).Msg("catálogo")
		}
		uc := inventory.NewCatalogUseCase(repos, opts)
		for _, req := range reqs {
			if _, err := uc.Upsert(ctx, req); err != nil {
				log.Warn().Err(err).Str("item", req.ItemName).Msg("fila omitida")
				skipped++
				continue
			}
			loaded++
		}
	case "recipients", "donors":
		uc := inventory.NewPartyUseCase(repos, opts)
		create := uc.CreateDonor
		if *kind == "recipients" {
			create = uc.CreateRecipient
		}
		for _, req := range partyRequests(rows) {
			if _, err := create(ctx, req); err != nil {
				if !errors.Is(err, domain.ErrDuplicate) {
					log.Warn().Err(err).Str("name", req.Name).Msg("fila omitida")
				}
				skipped++
				continue
			}
			loaded++
		}
	default:
		log.Fatal().Str("kind", *kind).Msg("tipo desconocido")
	}

	log.Info().Str("kind", *kind).Int("cargadas", loaded).Int("omitidas", skipped).Msg("seed terminado")
}

// readRows lee todas las filas, descarta vacías y una cabecera que empiece por "item_name" o "name".
func readRows(r io.Reader, latin1 bool, sep string) ([][]string, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	if sep != "" {
		cr.Comma = []rune(sep)[0]
	}
	all, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	out := make([][]string, 0, len(all))
	for i, row := range all {
		if len(row) == 0 || strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}
		first := strings.ToLower(strings.TrimSpace(row[0]))
		if i == 0 && (first == "item_name" || first == "name") {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func catalogRequests(rows [][]string) ([]dto.UpsertCatalogItemRequest, error) {
	out := make([]dto.UpsertCatalogItemRequest, 0, len(rows))
	for n, row := range rows {
		if len(row) < 3 {
			return nil, fmt.Errorf("fila %d: se esperan al menos 3 columnas", n+1)
		}
		req := dto.UpsertCatalogItemRequest{
			ItemName:     strings.TrimSpace(row[0]),
			ItemCategory: strings.TrimSpace(row[1]),
			Units:        strings.Split(row[2], "|"),
		}
		if len(row) > 3 && strings.TrimSpace(row[3]) != "" {
			idx, err := strconv.Atoi(strings.TrimSpace(row[3]))
			if err != nil {
				return nil, fmt.Errorf("fila %d: índice por defecto %q", n+1, row[3])
			}
			req.DefaultUnit = idx
		}
		out = append(out, req)
	}
	return out, nil
}

func partyRequests(rows [][]string) []dto.CreatePartyRequest {
	out := make([]dto.CreatePartyRequest, 0, len(rows))
	for _, row := range rows {
		req := dto.CreatePartyRequest{Name: strings.TrimSpace(row[0])}
		if len(row) > 1 {
			req.Contact = strings.TrimSpace(row[1])
		}
		out = append(out, req)
	}
	return out
}
