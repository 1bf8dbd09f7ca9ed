package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Donaciones-api/internal/domain"
	"github.com/jhoicas/Donaciones-api/internal/domain/entity"
	"github.com/jhoicas/Donaciones-api/internal/domain/repository"
)

var _ repository.DonationRepository = (*DonationRepo)(nil)

const donationItemColumns = `id, batch_id, item_name, item_category, item_unit, quantity, expiry_date, is_handled, handled_at, notes`

// DonationRepo lotes y líneas de donación.
type DonationRepo struct {
	q Querier
}

// NewDonationRepository construye el adaptador. Pasar pool o tx.
func NewDonationRepository(q Querier) *DonationRepo {
	return &DonationRepo{q: q}
}

// Create inserta el lote. Un consecutivo repetido se devuelve como ErrConflict (reintentable).
func (r *DonationRepo) Create(ctx context.Context, b *entity.DonationBatch) error {
	query := `
		INSERT INTO donation_batches (id, serial_number, donor_id, donor_name, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, b.ID, b.SerialNumber, b.DonorID, b.DonorName, b.CreatedAt, b.CreatedBy)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: consecutivo %s ya existe", domain.ErrConflict, b.SerialNumber)
		}
		return fmt.Errorf("insert donation batch: %w", err)
	}
	return nil
}

// CreateItem inserta una línea al final del lote.
func (r *DonationRepo) CreateItem(ctx context.Context, it *entity.DonationLineItem) error {
	query := `
		INSERT INTO donation_line_items (id, batch_id, position, item_name, item_category, item_unit, quantity,
			expiry_date, is_handled, handled_at, notes)
		VALUES ($1, $2, (SELECT COALESCE(MAX(position), 0) + 1 FROM donation_line_items WHERE batch_id = $2),
			$3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.BatchID, it.Key.Name, it.Key.Category, it.Unit, it.Quantity,
		it.ExpiryDate, it.IsHandled, it.HandledAt, it.Notes,
	)
	if err != nil {
		return fmt.Errorf("insert donation line item: %w", err)
	}
	return nil
}

func scanDonationItem(row pgx.Row) (*entity.DonationLineItem, error) {
	var it entity.DonationLineItem
	err := row.Scan(&it.ID, &it.BatchID, &it.Key.Name, &it.Key.Category, &it.Unit, &it.Quantity,
		&it.ExpiryDate, &it.IsHandled, &it.HandledAt, &it.Notes)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// GetByID devuelve el lote con sus líneas en orden de captura.
func (r *DonationRepo) GetByID(ctx context.Context, id string) (*entity.DonationBatch, error) {
	if !validID(id) {
		return nil, nil
	}
	query := `
		SELECT id, serial_number, donor_id, donor_name, created_at, created_by
		FROM donation_batches WHERE id = $1`
	var b entity.DonationBatch
	err := r.q.QueryRow(ctx, query, id).Scan(&b.ID, &b.SerialNumber, &b.DonorID, &b.DonorName, &b.CreatedAt, &b.CreatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get donation batch: %w", err)
	}

	rows, err := r.q.Query(ctx,
		`SELECT `+donationItemColumns+` FROM donation_line_items WHERE batch_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("list donation line items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		it, err := scanDonationItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan donation line item: %w", err)
		}
		b.Items = append(b.Items, it)
	}
	return &b, rows.Err()
}

// GetItemForUpdate bloquea la línea (recepción y anulación la toman antes que el stock).
func (r *DonationRepo) GetItemForUpdate(ctx context.Context, itemID string) (*entity.DonationLineItem, error) {
	if !validID(itemID) {
		return nil, nil
	}
	it, err := scanDonationItem(r.q.QueryRow(ctx,
		`SELECT `+donationItemColumns+` FROM donation_line_items WHERE id = $1 FOR UPDATE`, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get donation line item: %w", err)
	}
	return it, nil
}

// MarkItemHandled marca la línea como recibida.
func (r *DonationRepo) MarkItemHandled(ctx context.Context, itemID string, at time.Time) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE donation_line_items SET is_handled = true, handled_at = $2 WHERE id = $1 AND NOT is_handled`, itemID, at)
	if err != nil {
		return fmt.Errorf("mark donation item handled: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: la línea %s ya fue recibida", domain.ErrConflict, itemID)
	}
	return nil
}

// DeleteItems borra las líneas del lote.
func (r *DonationRepo) DeleteItems(ctx context.Context, batchID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM donation_line_items WHERE batch_id = $1`, batchID); err != nil {
		return fmt.Errorf("delete donation line items: %w", err)
	}
	return nil
}

// Delete borra el lote.
func (r *DonationRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM donation_batches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete donation batch: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: donación %s", domain.ErrNotFound, id)
	}
	return nil
}

// List lotes sin líneas, consecutivo más alto primero.
func (r *DonationRepo) List(ctx context.Context, limit, offset int) ([]*entity.DonationBatch, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM donation_batches`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count donation batches: %w", err)
	}
	query := `
		SELECT id, serial_number, donor_id, donor_name, created_at, created_by
		FROM donation_batches
		ORDER BY length(serial_number) DESC, serial_number DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list donation batches: %w", err)
	}
	defer rows.Close()
	var list []*entity.DonationBatch
	for rows.Next() {
		var b entity.DonationBatch
		if err := rows.Scan(&b.ID, &b.SerialNumber, &b.DonorID, &b.DonorName, &b.CreatedAt, &b.CreatedBy); err != nil {
			return nil, 0, fmt.Errorf("scan donation batch: %w", err)
		}
		list = append(list, &b)
	}
	return list, total, rows.Err()
}

// MaxSerial consecutivo más alto persistido, ordenado por longitud y luego valor.
func (r *DonationRepo) MaxSerial(ctx context.Context) (string, error) {
	var serial string
	err := r.q.QueryRow(ctx,
		`SELECT serial_number FROM donation_batches ORDER BY length(serial_number) DESC, serial_number DESC LIMIT 1`,
	).Scan(&serial)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("max donation serial: %w", err)
	}
	return serial, nil
}

// SoonestExpiryByKey mínimo vencimiento por llave entre líneas con fecha.
func (r *DonationRepo) SoonestExpiryByKey(ctx context.Context) ([]repository.ExpiryGroup, error) {
	query := `
		SELECT item_name, item_category, MIN(expiry_date)
		FROM donation_line_items
		WHERE expiry_date IS NOT NULL
		GROUP BY item_name, item_category
		ORDER BY item_name, item_category`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("soonest expiry: %w", err)
	}
	defer rows.Close()
	var out []repository.ExpiryGroup
	for rows.Next() {
		var g repository.ExpiryGroup
		if err := rows.Scan(&g.Key.Name, &g.Key.Category, &g.Soonest); err != nil {
			return nil, fmt.Errorf("scan soonest expiry: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// ListExpiringLines líneas con vencimiento de las llaves dadas, con el consecutivo de su lote.
func (r *DonationRepo) ListExpiringLines(ctx context.Context, keys []entity.ItemKey) ([]repository.ExpiringLine, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	names, cats := keyArrays(keys)
	query := `
		SELECT li.item_name, li.item_category, b.serial_number, li.quantity, li.expiry_date
		FROM donation_line_items li
		JOIN donation_batches b ON b.id = li.batch_id
		WHERE li.expiry_date IS NOT NULL
		  AND (li.item_name, li.item_category) IN (SELECT * FROM unnest($1::text[], $2::text[]))
		ORDER BY li.expiry_date, b.serial_number, li.position`
	rows, err := r.q.Query(ctx, query, names, cats)
	if err != nil {
		return nil, fmt.Errorf("list expiring lines: %w", err)
	}
	defer rows.Close()
	var out []repository.ExpiringLine
	for rows.Next() {
		var l repository.ExpiringLine
		if err := rows.Scan(&l.Key.Name, &l.Key.Category, &l.SerialNumber, &l.Quantity, &l.ExpiryDate); err != nil {
			return nil, fmt.Errorf("scan expiring line: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
