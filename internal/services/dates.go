package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/isdelr/socialsync-api/internal/common"
)

// Accepted client date layouts: full timestamps, HTML datetime-local values
// and plain dates.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate parses a client supplied date. Values without a zone are read
// as UTC. The result is UTC and truncated to whole seconds so stored values
// sort and compare consistently.
func ParseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC().Truncate(time.Second), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %s must be a date", common.ErrValidation, field)
}
