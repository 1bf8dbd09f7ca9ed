package inventory

import "time"

// DateLayout formato de fechas de vencimiento en la API (día calendario).
const DateLayout = "2006-01-02"

// CalendarDay devuelve la fecha local de t en loc como medianoche UTC.
// Las comparaciones de vencimiento se hacen siempre entre valores producidos por esta función.
func CalendarDay(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay interpreta "YYYY-MM-DD" como día calendario.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return CalendarDay(t, time.UTC), nil
}

// SameDay compara dos instantes por su fecha en UTC.
func SameDay(a, b time.Time) bool {
	return CalendarDay(a, time.UTC).Equal(CalendarDay(b, time.UTC))
}
