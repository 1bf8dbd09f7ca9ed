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

var (
	_ repository.RecipientRepository = (*RecipientRepo)(nil)
	_ repository.DonorRepository     = (*DonorRepo)(nil)
)

// partyTable acceso común a recipient_units y donors (mismas columnas).
type partyTable struct {
	q     Querier
	table string
}

func (t partyTable) create(ctx context.Context, id, name, contact string, createdAt time.Time) error {
	query := fmt.Sprintf(`INSERT INTO %s (id, name, contact, created_at) VALUES ($1, $2, $3, $4)`, t.table)
	if _, err := t.q.Exec(ctx, query, id, name, contact, createdAt); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %q", domain.ErrDuplicate, name)
		}
		return fmt.Errorf("insert %s: %w", t.table, err)
	}
	return nil
}

func (t partyTable) getOne(ctx context.Context, where string, arg any, dest ...any) (bool, error) {
	query := fmt.Sprintf(`SELECT id, name, contact, created_at FROM %s WHERE %s`, t.table, where)
	if err := t.q.QueryRow(ctx, query, arg).Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("get %s: %w", t.table, err)
	}
	return true, nil
}

func (t partyTable) list(ctx context.Context, limit, offset int, scan func(pgx.Rows) error) error {
	query := fmt.Sprintf(`SELECT id, name, contact, created_at FROM %s ORDER BY name LIMIT $1 OFFSET $2`, t.table)
	rows, err := t.q.Query(ctx, query, limit, offset)
	if err != nil {
		return fmt.Errorf("list %s: %w", t.table, err)
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("scan %s: %w", t.table, err)
		}
	}
	return rows.Err()
}

// RecipientRepo unidades receptoras.
type RecipientRepo struct{ t partyTable }

// NewRecipientRepository construye el adaptador. Pasar pool o tx.
func NewRecipientRepository(q Querier) *RecipientRepo {
	return &RecipientRepo{t: partyTable{q: q, table: "recipient_units"}}
}

// Create inserta la unidad; ErrDuplicate si el nombre existe.
func (r *RecipientRepo) Create(ctx context.Context, u *entity.RecipientUnit) error {
	return r.t.create(ctx, u.ID, u.Name, u.Contact, u.CreatedAt)
}

// GetByID obtiene una unidad por id.
func (r *RecipientRepo) GetByID(ctx context.Context, id string) (*entity.RecipientUnit, error) {
	if !validID(id) {
		return nil, nil
	}
	var u entity.RecipientUnit
	ok, err := r.t.getOne(ctx, "id = $1", id, &u.ID, &u.Name, &u.Contact, &u.CreatedAt)
	if err != nil || !ok {
		return nil, err
	}
	return &u, nil
}

// GetByName obtiene una unidad por nombre exacto.
func (r *RecipientRepo) GetByName(ctx context.Context, name string) (*entity.RecipientUnit, error) {
	var u entity.RecipientUnit
	ok, err := r.t.getOne(ctx, "name = $1", name, &u.ID, &u.Name, &u.Contact, &u.CreatedAt)
	if err != nil || !ok {
		return nil, err
	}
	return &u, nil
}

// List lista unidades por nombre.
func (r *RecipientRepo) List(ctx context.Context, limit, offset int) ([]*entity.RecipientUnit, error) {
	var list []*entity.RecipientUnit
	err := r.t.list(ctx, limit, offset, func(rows pgx.Rows) error {
		var u entity.RecipientUnit
		if err := rows.Scan(&u.ID, &u.Name, &u.Contact, &u.CreatedAt); err != nil {
			return err
		}
		list = append(list, &u)
		return nil
	})
	return list, err
}

// DonorRepo donantes.
type DonorRepo struct{ t partyTable }

// NewDonorRepository construye el adaptador. Pasar pool o tx.
func NewDonorRepository(q Querier) *DonorRepo {
	return &DonorRepo{t: partyTable{q: q, table: "donors"}}
}

// Create inserta el donante; ErrDuplicate si el nombre existe.
func (r *DonorRepo) Create(ctx context.Context, d *entity.Donor) error {
	return r.t.create(ctx, d.ID, d.Name, d.Contact, d.CreatedAt)
}

// GetByID obtiene un donante por id.
func (r *DonorRepo) GetByID(ctx context.Context, id string) (*entity.Donor, error) {
	if !validID(id) {
		return nil, nil
	}
	var d entity.Donor
	ok, err := r.t.getOne(ctx, "id = $1", id, &d.ID, &d.Name, &d.Contact, &d.CreatedAt)
	if err != nil || !ok {
		return nil, err
	}
	return &d, nil
}

// GetByName obtiene un donante por nombre exacto.
func (r *DonorRepo) GetByName(ctx context.Context, name string) (*entity.Donor, error) {
	var d entity.Donor
	ok, err := r.t.getOne(ctx, "name = $1", name, &d.ID, &d.Name, &d.Contact, &d.CreatedAt)
	if err != nil || !ok {
		return nil, err
	}
	return &d, nil
}

// List lista donantes por nombre.
func (r *DonorRepo) List(ctx context.Context, limit, offset int) ([]*entity.Donor, error) {
	var list []*entity.Donor
	err := r.t.list(ctx, limit, offset, func(rows pgx.Rows) error {
		var d entity.Donor
		if err := rows.Scan(&d.ID, &d.Name, &d.Contact, &d.CreatedAt); err != nil {
			return err
		}
		list = append(list, &d)
		return nil
	})
	return list, err
}
