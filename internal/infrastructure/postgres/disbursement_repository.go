package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Donaciones-api/internal/domain"
	"github.com/jhoicas/Donaciones-api/internal/domain/entity"
	"github.com/jhoicas/Donaciones-api/internal/domain/repository"
)

var _ repository.DisbursementRepository = (*DisbursementRepo)(nil)

// DisbursementRepo lotes y líneas de entrega.
type DisbursementRepo struct {
	q Querier
}

// NewDisbursementRepository construye el adaptador. Pasar pool o tx.
func NewDisbursementRepository(q Querier) *DisbursementRepo {
	return &DisbursementRepo{q: q}
}

// Create inserta el lote. Un consecutivo repetido se devuelve como ErrConflict (reintentable).
func (r *DisbursementRepo) Create(ctx context.Context, b *entity.DisbursementBatch) error {
	query := `
		INSERT INTO disbursement_batches (id, serial_number, recipient_id, recipient_name, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, b.ID, b.SerialNumber, b.RecipientID, b.RecipientName, b.CreatedAt, b.CreatedBy)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: consecutivo %s ya existe", domain.ErrConflict, b.SerialNumber)
		}
		return fmt.Errorf("insert disbursement batch: %w", err)
	}
	return nil
}

// CreateItem inserta una línea al final del lote.
func (r *DisbursementRepo) CreateItem(ctx context.Context, it *entity.DisbursementLineItem) error {
	query := `
		INSERT INTO disbursement_line_items (id, batch_id, position, item_name, item_category, item_unit, quantity)
		VALUES ($1, $2, (SELECT COALESCE(MAX(position), 0) + 1 FROM disbursement_line_items WHERE batch_id = $2),
			$3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, it.ID, it.BatchID, it.Key.Name, it.Key.Category, it.Unit, it.Quantity)
	if err != nil {
		return fmt.Errorf("insert disbursement line item: %w", err)
	}
	return nil
}

// GetByID devuelve el lote con sus líneas.
func (r *DisbursementRepo) GetByID(ctx context.Context, id string) (*entity.DisbursementBatch, error) {
	if !validID(id) {
		return nil, nil
	}
	query := `
		SELECT id, serial_number, recipient_id, recipient_name, created_at, created_by
		FROM disbursement_batches WHERE id = $1`
	var b entity.DisbursementBatch
	err := r.q.QueryRow(ctx, query, id).Scan(&b.ID, &b.SerialNumber, &b.RecipientID, &b.RecipientName, &b.CreatedAt, &b.CreatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get disbursement batch: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, batch_id, item_name, item_category, item_unit, quantity
		FROM disbursement_line_items WHERE batch_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("list disbursement line items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.DisbursementLineItem
		if err := rows.Scan(&it.ID, &it.BatchID, &it.Key.Name, &it.Key.Category, &it.Unit, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan disbursement line item: %w", err)
		}
		b.Items = append(b.Items, &it)
	}
	return &b, rows.Err()
}

// DeleteItems borra las líneas del lote.
func (r *DisbursementRepo) DeleteItems(ctx context.Context, batchID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM disbursement_line_items WHERE batch_id = $1`, batchID); err != nil {
		return fmt.Errorf("delete disbursement line items: %w", err)
	}
	return nil
}

// Delete borra el lote.
func (r *DisbursementRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM disbursement_batches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete disbursement batch: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: entrega %s", domain.ErrNotFound, id)
	}
	return nil
}

// List lotes sin líneas, consecutivo más alto primero.
func (r *DisbursementRepo) List(ctx context.Context, limit, offset int) ([]*entity.DisbursementBatch, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM disbursement_batches`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count disbursement batches: %w", err)
	}
	query := `
		SELECT id, serial_number, recipient_id, recipient_name, created_at, created_by
		FROM disbursement_batches
		ORDER BY length(serial_number) DESC, serial_number DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list disbursement batches: %w", err)
	}
	defer rows.Close()
	var list []*entity.DisbursementBatch
	for rows.Next() {
		var b entity.DisbursementBatch
		if err := rows.Scan(&b.ID, &b.SerialNumber, &b.RecipientID, &b.RecipientName, &b.CreatedAt, &b.CreatedBy); err != nil {
			return nil, 0, fmt.Errorf("scan disbursement batch: %w", err)
		}
		list = append(list, &b)
	}
	return list, total, rows.Err()
}

// MaxSerial consecutivo más alto persistido.
func (r *DisbursementRepo) MaxSerial(ctx context.Context) (string, error) {
	var serial string
	err := r.q.QueryRow(ctx,
		`SELECT serial_number FROM disbursement_batches ORDER BY length(serial_number) DESC, serial_number DESC LIMIT 1`,
	).Scan(&serial)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("max disbursement serial: %w", err)
	}
	return serial, nil
}
