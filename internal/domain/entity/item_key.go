package entity

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ItemKey es la llave natural (nombre, categoría) de un artículo donado.
// Todas las búsquedas de stock se hacen con este valor, nunca con pares de strings sueltos.
type ItemKey struct {
	Name     string
	Category string
}

// NewItemKey recorta espacios y normaliza a NFC para que "Café" escrito con o sin
// carácter combinado resuelva al mismo registro.
func NewItemKey(name, category string) ItemKey {
	return ItemKey{
		Name:     norm.NFC.String(strings.TrimSpace(name)),
		Category: norm.NFC.String(strings.TrimSpace(category)),
	}
}

// Valid indica si ambos componentes de la llave están presentes.
func (k ItemKey) Valid() bool {
	return k.Name != "" && k.Category != ""
}

// String formatea la llave como "nombre/categoría" (usado en mensajes de error).
func (k ItemKey) String() string {
	return k.Name + "/" + k.Category
}

// Less ordena llaves por nombre y luego categoría; se usa para tomar bloqueos en orden fijo.
func (k ItemKey) Less(other ItemKey) bool {
	if k.Name != other.Name {
		return k.Name < other.Name
	}
	return k.Category < other.Category
}
