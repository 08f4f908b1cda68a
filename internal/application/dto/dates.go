package dto

import (
	"strings"
	"time"
)

// DateLayout formato de fecha simple aceptado por la API (el frontend envía yyyy-MM-dd).
const DateLayout = "2006-01-02"

// ParseDate acepta RFC 3339 o YYYY-MM-DD. Todas las fechas se normalizan a UTC.
// Con endOfDay=true una fecha sin hora cubre el día completo (23:59:59.999999999),
// para que un rango [from, to] sea inclusivo.
func ParseDate(s string, endOfDay bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t.UTC(), nil
}
