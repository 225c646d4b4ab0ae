package analytics

import (
	"time"

	"github.com/firwatch/firwatch/internal/db"
)

// fixtureStore is an in-memory Store for engine tests. It preserves the
// order incidents were added in, matching the insertion-order guarantee of
// the real store.
type fixtureStore struct {
	incidents []db.Incident
	err       error
}

func (s *fixtureStore) Incidents() ([]db.Incident, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.incidents, nil
}

func (s *fixtureStore) IncidentsSince(t time.Time) ([]db.Incident, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []db.Incident
	for _, in := range s.incidents {
		if ts, ok := ParseIncidentTime(in.CreatedAt); ok && !ts.Before(t) {
			out = append(out, in)
		}
	}
	return out, nil
}

// testNow is the fixed clock all engine tests run against.
var testNow = time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC)

func newTestEngine(store Store) *Engine {
	e := NewEngine(store)
	e.now = func() time.Time { return testNow }
	return e
}

func f64(v float64) *float64 { return &v }

// incidentAt builds a spatially valid incident recorded daysAgo days before
// the test clock.
func incidentAt(lat, lon float64, location, crimeType, severity string, daysAgo int) db.Incident {
	return db.Incident{
		Latitude:      f64(lat),
		Longitude:     f64(lon),
		Location:      location,
		CrimeType:     crimeType,
		SeverityLevel: severity,
		CreatedAt:     testNow.AddDate(0, 0, -daysAgo).Format(time.RFC3339),
	}
}
