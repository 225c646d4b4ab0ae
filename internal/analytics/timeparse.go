package analytics

import (
	"strings"
	"time"
)

// incidentTimeFormats lists the timestamp layouts seen in upstream data, in
// the order they are tried. Scraped articles and imports are inconsistent:
// some carry full RFC 3339 stamps, some bare dates, some space-separated
// datetimes.
var incidentTimeFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02 Jan 2006 15:04",
	"02 Jan 2006",
}

// ParseIncidentTime leniently parses an upstream timestamp string. The
// second return value reports success; callers skip the record (never error)
// when it is false. This is the single parsing point for all time-dependent
// computations so failure behaviour stays uniform.
func ParseIncidentTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	// Normalise a bare trailing Z on non-RFC3339 layouts ("2026-01-02 15:04:05Z").
	trimmed := strings.TrimSuffix(s, "Z")

	for _, layout := range incidentTimeFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
		if trimmed != s {
			if t, err := time.Parse(layout, trimmed); err == nil {
				return t.UTC(), true
			}
		}
	}
	return time.Time{}, false
}
