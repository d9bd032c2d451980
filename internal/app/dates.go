// Package app implements the primary ports, wiring the functional core
// to persistence and the upstream services.
package app

import (
	"time"

	"github.com/example/meterdesk/internal/faults"
)

// dateLayout is the wire format for all cycle and assignment dates.
const dateLayout = "2006-01-02"

// parseDate parses a YYYY-MM-DD date, naming the field in the error.
func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, faults.Validationf("%s must be a YYYY-MM-DD date, got %q", field, value)
	}
	return t, nil
}
