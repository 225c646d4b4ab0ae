package analytics

import (
	"fmt"
	"math"
	"testing"

	"github.com/firwatch/firwatch/internal/db"
	"github.com/google/go-cmp/cmp"
)

func TestDetectHotspots_SingleCluster(t *testing.T) {
	// Three co-located records form one hotspot; the fourth sits in a
	// different grid cell and stays below the threshold.
	store := &fixtureStore{incidents: []db.Incident{
		incidentAt(19.10, 72.87, "Powai", "Theft", "Critical", 1),
		incidentAt(19.10, 72.87, "Powai", "Assault", "High", 2),
		incidentAt(19.10, 72.87, "Powai", "Theft", "Low", 3),
		incidentAt(19.50, 73.50, "Kalyan", "Theft", "Low", 1),
	}}
	e := newTestEngine(store)

	hotspots, err := e.DetectHotspots(3)
	if err != nil {
		t.Fatalf("DetectHotspots failed: %v", err)
	}
	if len(hotspots) != 1 {
		t.Fatalf("expected exactly one hotspot, got %d", len(hotspots))
	}

	want := Hotspot{
		Location:       "Powai",
		Latitude:       19.10,
		Longitude:      72.87,
		CrimeCount:     3,
		CriticalCrimes: 1,
		HighCrimes:     1,
		// 3*10 + 1*30 + 1*15
		RiskScore: 75,
		RadiusKm:  1.5,
	}
	if diff := cmp.Diff(want, hotspots[0], approxFloats()); diff != "" {
		t.Errorf("hotspot mismatch (-want +got):\n%s", diff)
	}
}

func approxFloats() cmp.Option {
	return cmp.Comparer(func(a, b float64) bool {
		return math.Abs(a-b) < 1e-9
	})
}

func TestDetectHotspots_CentroidIsMemberMean(t *testing.T) {
	// Members spread within one 0.05-degree cell; the centroid is the
	// arithmetic mean, not the cell centre.
	store := &fixtureStore{incidents: []db.Incident{
		incidentAt(19.101, 72.871, "Powai", "Theft", "Low", 1),
		incidentAt(19.102, 72.872, "Powai", "Theft", "Low", 1),
		incidentAt(19.103, 72.873, "Powai", "Theft", "Low", 1),
	}}
	e := newTestEngine(store)

	hotspots, err := e.DetectHotspots(3)
	if err != nil {
		t.Fatalf("DetectHotspots failed: %v", err)
	}
	if len(hotspots) != 1 {
		t.Fatalf("expected one hotspot, got %d", len(hotspots))
	}
	if math.Abs(hotspots[0].Latitude-19.102) > 1e-9 {
		t.Errorf("centroid latitude = %v, want 19.102", hotspots[0].Latitude)
	}
	if math.Abs(hotspots[0].Longitude-72.872) > 1e-9 {
		t.Errorf("centroid longitude = %v, want 72.872", hotspots[0].Longitude)
	}
}

func TestDetectHotspots_ThresholdAboveRecordCount(t *testing.T) {
	store := &fixtureStore{incidents: []db.Incident{
		incidentAt(19.10, 72.87, "Powai", "Theft", "Low", 1),
		incidentAt(19.10, 72.87, "Powai", "Theft", "Low", 1),
	}}
	e := newTestEngine(store)

	hotspots, err := e.DetectHotspots(5)
	if err != nil {
		t.Fatalf("DetectHotspots failed: %v", err)
	}
	if len(hotspots) != 0 {
		t.Errorf("expected no hotspots, got %d", len(hotspots))
	}
}

func TestDetectHotspots_EmptyStore(t *testing.T) {
	e := newTestEngine(&fixtureStore{})
	hotspots, err := e.DetectHotspots(3)
	if err != nil {
		t.Fatalf("DetectHotspots failed: %v", err)
	}
	if hotspots == nil || len(hotspots) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", hotspots)
	}
}

func TestDetectHotspots_CapAndOrdering(t *testing.T) {
	// Twelve separate grid cells, cluster i holding 3+i records. Only the
	// top ten may come back, sorted by non-increasing risk score.
	var incidents []db.Incident
	for i := 0; i < 12; i++ {
		lat := 19.0 + float64(i)*0.2
		for j := 0; j < 3+i; j++ {
			incidents = append(incidents, incidentAt(lat, 72.8, fmt.Sprintf("Zone %d", i), "Theft", "Low", 1))
		}
	}
	e := newTestEngine(&fixtureStore{incidents: incidents})

	hotspots, err := e.DetectHotspots(3)
	if err != nil {
		t.Fatalf("DetectHotspots failed: %v", err)
	}
	if len(hotspots) != 10 {
		t.Fatalf("expected 10 hotspots, got %d", len(hotspots))
	}
	for i := 1; i < len(hotspots); i++ {
		if hotspots[i].RiskScore > hotspots[i-1].RiskScore {
			t.Errorf("hotspots not sorted: index %d has score %d after %d",
				i, hotspots[i].RiskScore, hotspots[i-1].RiskScore)
		}
	}
	// The two smallest clusters (3 and 4 members) fall off the end.
	if hotspots[len(hotspots)-1].CrimeCount != 5 {
		t.Errorf("smallest surviving cluster has %d crimes, want 5", hotspots[len(hotspots)-1].CrimeCount)
	}
}

func TestDetectHotspots_MissingCoordinatesExcluded(t *testing.T) {
	noCoords := db.Incident{
		Location:      "Somewhere",
		CrimeType:     "Theft",
		SeverityLevel: "Critical",
		CreatedAt:     testNow.Format("2006-01-02T15:04:05Z07:00"),
	}
	store := &fixtureStore{incidents: []db.Incident{
		noCoords,
		incidentAt(19.10, 72.87, "Powai", "Theft", "Low", 1),
		incidentAt(19.10, 72.87, "Powai", "Theft", "Low", 1),
		incidentAt(19.10, 72.87, "Powai", "Theft", "Low", 1),
	}}
	e := newTestEngine(store)

	hotspots, err := e.DetectHotspots(3)
	if err != nil {
		t.Fatalf("DetectHotspots failed: %v", err)
	}
	if len(hotspots) != 1 {
		t.Fatalf("expected one hotspot, got %d", len(hotspots))
	}
	if hotspots[0].CrimeCount != 3 || hotspots[0].CriticalCrimes != 0 {
		t.Errorf("coordinate-less record leaked into cluster: %+v", hotspots[0])
	}
}

func TestDetectHotspots_LabelTieBreak(t *testing.T) {
	// Two labels with equal frequency: the first encountered in snapshot
	// order wins.
	store := &fixtureStore{incidents: []db.Incident{
		incidentAt(19.10, 72.87, "Powai", "Theft", "Low", 1),
		incidentAt(19.10, 72.87, "Hiranandani", "Theft", "Low", 1),
		incidentAt(19.10, 72.87, "Powai", "Theft", "Low", 1),
		incidentAt(19.10, 72.87, "Hiranandani", "Theft", "Low", 1),
	}}
	e := newTestEngine(store)

	hotspots, err := e.DetectHotspots(3)
	if err != nil {
		t.Fatalf("DetectHotspots failed: %v", err)
	}
	if len(hotspots) != 1 {
		t.Fatalf("expected one hotspot, got %d", len(hotspots))
	}
	if hotspots[0].Location != "Powai" {
		t.Errorf("label tie should break to first-encountered, got %q", hotspots[0].Location)
	}
}

func TestDetectHotspots_InvalidThreshold(t *testing.T) {
	e := newTestEngine(&fixtureStore{})
	if _, err := e.DetectHotspots(0); err == nil {
		t.Error("expected error for min_crimes=0")
	}
	if _, err := e.DetectHotspots(-3); err == nil {
		t.Error("expected error for negative min_crimes")
	}
}

func TestDetectHotspots_RiskScoreCap(t *testing.T) {
	var incidents []db.Incident
	for i := 0; i < 15; i++ {
		incidents = append(incidents, incidentAt(19.10, 72.87, "Powai", "Murder", "Critical", 1))
	}
	e := newTestEngine(&fixtureStore{incidents: incidents})

	hotspots, err := e.DetectHotspots(3)
	if err != nil {
		t.Fatalf("DetectHotspots failed: %v", err)
	}
	if len(hotspots) != 1 || hotspots[0].RiskScore != 100 {
		t.Errorf("risk score must cap at 100, got %+v", hotspots)
	}
}
