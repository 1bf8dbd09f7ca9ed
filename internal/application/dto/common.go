package dto

// PageRequest limit/offset leídos del query string. Los valores fuera de rango los acota
// el caso de uso (por defecto 20, máximo 100).
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// PageResponse página efectivamente aplicada y total de filas que cumplen el filtro.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// Códigos de ErrorResponse.Code.
const (
	CodeValidation        = "VALIDATION"
	CodeNotFound          = "NOT_FOUND"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeDuplicate         = "DUPLICATE"
	CodeConflict          = "CONFLICT"
	CodeForbidden         = "FORBIDDEN"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeInternal          = "INTERNAL"
	CodeInvalidBody       = "INVALID_BODY"
	CodeHTTP              = "HTTP_ERROR"
)

// ErrorResponse cuerpo de toda respuesta de error: código estable para el cliente y mensaje
// legible (en los 500 el mensaje es genérico).
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
