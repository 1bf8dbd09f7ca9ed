package inventory

import (
	"errors"
	"strings"
)

var (
	errEmptyUnits     = errors.New("la lista de unidades está vacía")
	errDuplicateUnit  = errors.New("unidad repetida")
	errDefaultOutside = errors.New("unidad por defecto fuera de rango")
)

// NormalizeUnits recorta etiquetas, descarta vacías y valida unicidad y el índice por defecto.
// El índice se reubica si se descartaron etiquetas vacías antes de él.
func NormalizeUnits(units []string, defaultIdx int) ([]string, int, error) {
	if defaultIdx < 0 || defaultIdx >= len(units) {
		return nil, 0, errDefaultOutside
	}
	out := make([]string, 0, len(units))
	seen := make(map[string]struct{}, len(units))
	newDefault := -1
	for i, u := range units {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			return nil, 0, errDuplicateUnit
		}
		seen[u] = struct{}{}
		if i == defaultIdx {
			newDefault = len(out)
		}
		out = append(out, u)
	}
	if len(out) == 0 {
		return nil, 0, errEmptyUnits
	}
	if newDefault < 0 {
		return nil, 0, errDefaultOutside
	}
	return out, newDefault, nil
}
