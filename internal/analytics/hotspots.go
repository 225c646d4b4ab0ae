package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/firwatch/firwatch/internal/db"
)

const (
	// DefaultHotspotMinCrimes is the detector threshold used when the caller
	// does not specify one.
	DefaultHotspotMinCrimes = 3

	// hotspotGridScale buckets coordinates to 1/20 degree, roughly a 2.5 km
	// cell. Two records in the same cell cluster together regardless of
	// their exact sub-cell distance; speed over geometric precision.
	hotspotGridScale = 20

	// hotspotDisplayRadiusKm is the fixed radius reported for map display.
	hotspotDisplayRadiusKm = 1.5

	maxHotspots = 10
)

// Hotspot is one detected high-crime zone: a grid cell whose member count
// met the threshold, reported with its member centroid (not the cell
// centre) and a composite risk score.
type Hotspot struct {
	Location       string  `json:"location"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	CrimeCount     int     `json:"crime_count"`
	CriticalCrimes int     `json:"critical_crimes"`
	HighCrimes     int     `json:"high_crimes"`
	RiskScore      int     `json:"risk_score"`
	RadiusKm       float64 `json:"radius_km"`
}

type hotspotBucket struct {
	members  []db.Incident
	count    int
	critical int
	high     int
	latSum   float64
	lonSum   float64
}

// DetectHotspots clusters spatially valid incidents on a fixed 1/20-degree
// grid and returns at most the top 10 cells with at least minCrimes
// members, ranked by descending risk score. Ties keep discovery order.
func (e *Engine) DetectHotspots(minCrimes int) ([]Hotspot, error) {
	if minCrimes <= 0 {
		return nil, fmt.Errorf("min_crimes must be positive, got %d", minCrimes)
	}

	incidents, err := e.snapshot()
	if err != nil {
		return nil, err
	}
	if len(incidents) < minCrimes {
		return []Hotspot{}, nil
	}

	buckets := make(map[string]*hotspotBucket)
	var order []string // first-discovery order, for deterministic ranking of ties

	for _, in := range incidents {
		if !hasCoordinates(in) {
			continue
		}
		lat, lon := *in.Latitude, *in.Longitude
		key := gridKey(lat, lon)

		b, ok := buckets[key]
		if !ok {
			b = &hotspotBucket{}
			buckets[key] = b
			order = append(order, key)
		}
		b.members = append(b.members, in)
		b.count++
		b.latSum += lat
		b.lonSum += lon
		switch in.SeverityLevel {
		case "Critical":
			b.critical++
		case "High":
			b.high++
		}
	}

	result := []Hotspot{}
	for _, key := range order {
		b := buckets[key]
		if b.count < minCrimes {
			continue
		}

		riskScore := b.count*10 + b.critical*30 + b.high*15
		if riskScore > 100 {
			riskScore = 100
		}

		result = append(result, Hotspot{
			Location:       mostFrequentLocation(b.members),
			Latitude:       b.latSum / float64(b.count),
			Longitude:      b.lonSum / float64(b.count),
			CrimeCount:     b.count,
			CriticalCrimes: b.critical,
			HighCrimes:     b.high,
			RiskScore:      riskScore,
			RadiusKm:       hotspotDisplayRadiusKm,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].RiskScore > result[j].RiskScore
	})
	if len(result) > maxHotspots {
		result = result[:maxHotspots]
	}

	return result, nil
}

// gridKey snaps both coordinates independently to the nearest 1/20-degree
// increment. The grid is always two decimal places so %.2f is exact.
func gridKey(lat, lon float64) string {
	latKey := math.Round(lat*hotspotGridScale) / hotspotGridScale
	lonKey := math.Round(lon*hotspotGridScale) / hotspotGridScale
	return fmt.Sprintf("%.2f,%.2f", latKey, lonKey)
}

// mostFrequentLocation picks the display label for a cluster: the most
// common location label among members, first-encountered winning ties.
// Depends on members arriving in snapshot order.
func mostFrequentLocation(members []db.Incident) string {
	counts := make(map[string]int)
	for _, m := range members {
		counts[locationLabel(m)]++
	}

	best, bestCount := "Unknown", 0
	for _, m := range members {
		l := locationLabel(m)
		if counts[l] > bestCount {
			best, bestCount = l, counts[l]
		}
	}
	return best
}

func locationLabel(in db.Incident) string {
	if in.Location == "" {
		return "Unknown"
	}
	return in.Location
}
