package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los casos de uso los envuelven con fmt.Errorf("%w: ...") para agregar detalle;
// la capa HTTP los clasifica con errors.Is.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// IsRetryable indica si el error admite reintento por parte del caller (solo conflictos de consecutivo).
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict)
}
