package analytics

import "fmt"

const (
	// DefaultPatrolOfficers is the number of patrol units suggested when the
	// caller does not specify one.
	DefaultPatrolOfficers = 5

	// patrolMinCrimes is the detector threshold for patrol planning. Lower
	// than the default detector threshold: a cell worth patrolling is worth
	// flagging before it fully qualifies as a hotspot.
	patrolMinCrimes = 2
)

// PatrolSuggestion assigns one patrol unit to a hotspot, ranked by priority.
type PatrolSuggestion struct {
	Priority   int     `json:"priority"`
	Location   string  `json:"location"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	RiskScore  int     `json:"risk_score"`
	CrimeCount int     `json:"crime_count"`
	Reason     string  `json:"reason"`
}

// SuggestPatrols distributes officerCount patrol units over the top
// hotspots in risk order. Priority is the 1-based rank.
func (e *Engine) SuggestPatrols(officerCount int) ([]PatrolSuggestion, error) {
	if officerCount <= 0 {
		return nil, fmt.Errorf("officer count must be positive, got %d", officerCount)
	}

	hotspots, err := e.DetectHotspots(patrolMinCrimes)
	if err != nil {
		return nil, err
	}
	if len(hotspots) == 0 {
		return []PatrolSuggestion{}, nil
	}

	n := officerCount
	if n > len(hotspots) {
		n = len(hotspots)
	}

	suggestions := make([]PatrolSuggestion, 0, n)
	for i := 0; i < n; i++ {
		h := hotspots[i]
		suggestions = append(suggestions, PatrolSuggestion{
			Priority:   i + 1,
			Location:   h.Location,
			Latitude:   h.Latitude,
			Longitude:  h.Longitude,
			RiskScore:  h.RiskScore,
			CrimeCount: h.CrimeCount,
			Reason: fmt.Sprintf("High-risk area with %d crimes, %d critical",
				h.CrimeCount, h.CriticalCrimes),
		})
	}

	return suggestions, nil
}
