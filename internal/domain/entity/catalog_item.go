package entity

import "time"

// CatalogItem define las unidades permitidas de un artículo: lista ordenada más el índice
// de la unidad por defecto.
type CatalogItem struct {
	Key         ItemKey
	Units       []string
	DefaultUnit int
	UpdatedAt   time.Time
}

// Default devuelve la unidad por defecto o "" si el índice no es válido.
func (c *CatalogItem) Default() string {
	if c == nil || c.DefaultUnit < 0 || c.DefaultUnit >= len(c.Units) {
		return ""
	}
	return c.Units[c.DefaultUnit]
}
