package postgres

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Donaciones-api/internal/domain/entity"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return hasCode(err, "23505")
}

// isCheckViolation verifica si un error es una violación de CHECK (23514), p. ej. total_stock >= 0.
func isCheckViolation(err error) bool {
	return hasCode(err, "23514")
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return strings.Contains(err.Error(), code)
}

// validID evita mandar a la BD ids que no son UUID (la columna los rechazaría con 22P02).
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// likePattern arma un patrón ILIKE de subcadena escapando comodines.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// keyArrays separa llaves en dos arreglos paralelos para unnest($1::text[], $2::text[]).
func keyArrays(keys []entity.ItemKey) ([]string, []string) {
	names := make([]string, 0, len(keys))
	cats := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, k.Name)
		cats = append(cats, k.Category)
	}
	return names, cats
}
