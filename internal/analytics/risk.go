package analytics

import (
	"fmt"
	"math"

	"github.com/firwatch/firwatch/internal/db"
)

// DefaultRiskRadiusKm is the search radius used when the caller does not
// specify one.
const DefaultRiskRadiusKm = 2.0

// Recency multipliers: incidents in the last week count 1.5x, in the last
// month 1.2x. Records without a parseable timestamp keep weight 1.0 and are
// never counted as recent.
const (
	recentDays          = 7
	recentWeight        = 1.5
	monthDays           = 30
	monthWeight         = 1.2
	riskLevelCritical   = 70
	riskLevelHigh       = 50
	riskLevelMedium     = 30
)

// RiskAssessment is the point-query result. RiskLevel "Safe" is a distinct
// terminal state for zero nearby records, not a synonym for "Low".
type RiskAssessment struct {
	RiskScore      float64  `json:"risk_score"`
	RiskLevel      string   `json:"risk_level"`
	NearbyCrimes   int      `json:"nearby_crimes"`
	RecentCrimes   int      `json:"recent_crimes"`
	CriticalCrimes int      `json:"critical_crimes"`
	Factors        []string `json:"factors"`
}

// ScoreRisk evaluates the live risk at a query point by summing, over every
// spatially valid incident within radiusKm, the product of a linear distance
// falloff, the severity weight and a recency multiplier. The sum is capped
// at 100.
func (e *Engine) ScoreRisk(lat, lon, radiusKm float64) (*RiskAssessment, error) {
	if !isFinite(lat) || !isFinite(lon) {
		return nil, fmt.Errorf("query point must be finite, got (%v, %v)", lat, lon)
	}
	if lat < -90 || lat > 90 {
		return nil, fmt.Errorf("latitude out of range: %v", lat)
	}
	if lon < -180 || lon > 180 {
		return nil, fmt.Errorf("longitude out of range: %v", lon)
	}
	if !isFinite(radiusKm) || radiusKm <= 0 {
		return nil, fmt.Errorf("radius_km must be positive, got %v", radiusKm)
	}

	incidents, err := e.snapshot()
	if err != nil {
		return nil, err
	}
	now := e.now()

	type nearbyIncident struct {
		distance float64
		record   db.Incident
	}

	var nearby []nearbyIncident
	for _, in := range incidents {
		if !hasCoordinates(in) {
			continue
		}
		d := DistanceKm(lat, lon, *in.Latitude, *in.Longitude)
		if d <= radiusKm {
			nearby = append(nearby, nearbyIncident{distance: d, record: in})
		}
	}

	if len(nearby) == 0 {
		return &RiskAssessment{
			RiskScore:    0,
			RiskLevel:    "Safe",
			NearbyCrimes: 0,
			Factors:      []string{},
		}, nil
	}

	var riskScore float64
	recentCount := 0
	criticalCount := 0

	for _, n := range nearby {
		distanceWeight := math.Max(0, (radiusKm-n.distance)/radiusKm)

		recencyWeight := 1.0
		if t, ok := recordTime(n.record); ok {
			daysAgo := int(now.Sub(t).Hours() / 24)
			if daysAgo <= recentDays {
				recentCount++
				recencyWeight = recentWeight
			} else if daysAgo <= monthDays {
				recencyWeight = monthWeight
			}
		}

		if n.record.SeverityLevel == "Critical" {
			criticalCount++
		}

		riskScore += severityWeight(n.record.SeverityLevel) * distanceWeight * recencyWeight
	}

	if riskScore > 100 {
		riskScore = 100
	}

	var riskLevel string
	switch {
	case riskScore >= riskLevelCritical:
		riskLevel = "Critical"
	case riskScore >= riskLevelHigh:
		riskLevel = "High"
	case riskScore >= riskLevelMedium:
		riskLevel = "Medium"
	default:
		riskLevel = "Low"
	}

	// Factor order is fixed: recent, critical, then the always-present total.
	factors := []string{}
	if recentCount > 0 {
		factors = append(factors, fmt.Sprintf("%d crime(s) in last 7 days", recentCount))
	}
	if criticalCount > 0 {
		factors = append(factors, fmt.Sprintf("%d critical incident(s)", criticalCount))
	}
	factors = append(factors, fmt.Sprintf("%d total crimes within %gkm", len(nearby), radiusKm))

	return &RiskAssessment{
		RiskScore:      round1(riskScore),
		RiskLevel:      riskLevel,
		NearbyCrimes:   len(nearby),
		RecentCrimes:   recentCount,
		CriticalCrimes: criticalCount,
		Factors:        factors,
	}, nil
}
