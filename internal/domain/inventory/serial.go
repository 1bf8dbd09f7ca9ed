package inventory

import (
	"fmt"
	"strconv"
	"strings"
)

// SerialWidth dígitos mínimos del consecutivo (A00001).
const SerialWidth = 5

// FormatSerial arma el consecutivo {prefijo}{n con ceros a la izquierda}.
// Valores con más de SerialWidth dígitos no se truncan.
func FormatSerial(prefix string, n int64) string {
	return fmt.Sprintf("%s%0*d", prefix, SerialWidth, n)
}

// ParseSerial extrae la parte numérica de un consecutivo con el prefijo dado.
func ParseSerial(prefix, serial string) (int64, bool) {
	if !strings.HasPrefix(serial, prefix) {
		return 0, false
	}
	digits := serial[len(prefix):]
	if digits == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
