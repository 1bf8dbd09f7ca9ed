package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Donaciones-api/internal/application/inventory"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL (read committed).
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// El Rollback diferido es no-op si ya hubo Commit.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.Repos) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NewRepos arma el juego de repositorios sobre un pool o una tx.
func NewRepos(q Querier) inventory.Repos {
	return inventory.Repos{
		Stock:         NewStockRepository(q),
		Logs:          NewInventoryLogRepository(q),
		Serials:       NewSerialCounterRepository(q),
		Donations:     NewDonationRepository(q),
		Disbursements: NewDisbursementRepository(q),
		Recipients:    NewRecipientRepository(q),
		Donors:        NewDonorRepository(q),
		Catalog:       NewCatalogRepository(q),
	}
}
