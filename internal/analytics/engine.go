// Package analytics implements the crime analytics engine: hotspot
// detection, time-pattern mining, point risk scoring, trend analysis and
// patrol prioritisation. Every operation fetches a fresh snapshot from the
// injected store, runs a pure computation over it and returns a
// serialisable result; nothing is cached between calls.
package analytics

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/firwatch/firwatch/internal/db"
)

// Store is the read-only collaborator the engine pulls incident snapshots
// from. internal/db satisfies it; tests use an in-memory fixture. Both
// methods must return records in a stable order across fetches (insertion
// order) so label tie-breaking stays deterministic.
type Store interface {
	Incidents() ([]db.Incident, error)
	IncidentsSince(t time.Time) ([]db.Incident, error)
}

// ErrStoreUnavailable wraps any failure to fetch a snapshot from the store.
// The engine never retries; callers decide the retry policy.
var ErrStoreUnavailable = errors.New("incident store unavailable")

// Engine runs analytical queries over incident snapshots. It holds no
// mutable state, so a single Engine is safe for concurrent use.
type Engine struct {
	store Store

	// now is the clock used for recency and trend windows; tests override it.
	now func() time.Time
}

func NewEngine(store Store) *Engine {
	return &Engine{
		store: store,
		now:   time.Now,
	}
}

// snapshot fetches the full record set for one computation.
func (e *Engine) snapshot() ([]db.Incident, error) {
	incidents, err := e.store.Incidents()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return incidents, nil
}

// severityWeights assigns the fixed numeric weight per severity label used
// by risk scoring. Unknown labels score as Low.
var severityWeights = map[string]float64{
	"Critical": 40,
	"High":     25,
	"Medium":   15,
	"Low":      5,
}

func severityWeight(level string) float64 {
	if w, ok := severityWeights[level]; ok {
		return w
	}
	return severityWeights["Low"]
}

// hasCoordinates reports whether an incident can take part in spatial
// computations: both coordinates present and finite.
func hasCoordinates(in db.Incident) bool {
	return in.Latitude != nil && in.Longitude != nil &&
		isFinite(*in.Latitude) && isFinite(*in.Longitude)
}

// crimeTypeOf returns the incident's category label, bucketing records with
// no label into the catch-all.
func crimeTypeOf(in db.Incident) string {
	if in.CrimeType == "" {
		return "other"
	}
	return in.CrimeType
}

// occurrenceTime resolves the timestamp used for time-of-day patterns:
// the reported incident date, falling back to the record's creation stamp.
func occurrenceTime(in db.Incident) (time.Time, bool) {
	if t, ok := ParseIncidentTime(in.IncidentDate); ok {
		return t, true
	}
	return ParseIncidentTime(in.CreatedAt)
}

// recordTime resolves the timestamp used for recency and trend windows:
// the record's creation stamp, falling back to the reported incident date.
func recordTime(in db.Incident) (time.Time, bool) {
	if t, ok := ParseIncidentTime(in.CreatedAt); ok {
		return t, true
	}
	return ParseIncidentTime(in.IncidentDate)
}

// round1 rounds to one decimal place for report output.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
