package pagescmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-pagebuilder/internal/pages"
)

// clearTimestamp is the wire value that clears a scheduled time, matching
// an explicit JSON null from admin clients.
const clearTimestamp = "null"

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimestamp turns a date-like wire string into the tri-state schedule
// field: empty leaves the field unchanged, "null" clears it, anything else
// must parse as a timestamp.
func parseTimestamp(value string) (pages.Optional[time.Time], error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return pages.Optional[time.Time]{}, nil
	}
	if strings.EqualFold(trimmed, clearTimestamp) {
		return pages.Null[time.Time](), nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return pages.Assign(parsed.UTC()), nil
		}
	}
	return pages.Optional[time.Time]{}, fmt.Errorf("invalid timestamp %q", value)
}
