package analytics

import (
	"testing"

	"github.com/firwatch/firwatch/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeTrends_Decreasing(t *testing.T) {
	// Ten records yesterday, two today, over a two-day window:
	// change = ((2-10)/10)*100 = -80.0.
	var incidents []db.Incident
	for i := 0; i < 10; i++ {
		incidents = append(incidents, incidentAt(19.10, 72.87, "Powai", "Theft", "Low", 1))
	}
	for i := 0; i < 2; i++ {
		incidents = append(incidents, incidentAt(19.10, 72.87, "Powai", "Theft", "Low", 0))
	}
	e := newTestEngine(&fixtureStore{incidents: incidents})

	report, err := e.AnalyzeTrends(2)
	require.NoError(t, err)

	assert.Equal(t, "decreasing", report.Trend)
	assert.Equal(t, -80.0, report.ChangePercent)
	assert.Equal(t, 12, report.TotalCrimes)
	assert.Equal(t, 6.0, report.AveragePerDay)
	require.Len(t, report.DailyCounts, 2)
	assert.Equal(t, 10, report.DailyCounts[0].Count)
	assert.Equal(t, 2, report.DailyCounts[1].Count)
}

func TestAnalyzeTrends_Increasing(t *testing.T) {
	var incidents []db.Incident
	for i := 0; i < 2; i++ {
		incidents = append(incidents, incidentAt(19.10, 72.87, "Powai", "Theft", "Low", 3))
	}
	for i := 0; i < 8; i++ {
		incidents = append(incidents, incidentAt(19.10, 72.87, "Powai", "Theft", "Low", 1))
	}
	e := newTestEngine(&fixtureStore{incidents: incidents})

	report, err := e.AnalyzeTrends(7)
	require.NoError(t, err)

	assert.Equal(t, "increasing", report.Trend)
	assert.Equal(t, 300.0, report.ChangePercent)
}

func TestAnalyzeTrends_SingleDayIsStable(t *testing.T) {
	var incidents []db.Incident
	for i := 0; i < 5; i++ {
		incidents = append(incidents, incidentAt(19.10, 72.87, "Powai", "Theft", "Low", 0))
	}
	e := newTestEngine(&fixtureStore{incidents: incidents})

	report, err := e.AnalyzeTrends(30)
	require.NoError(t, err)

	assert.Equal(t, "stable", report.Trend)
	assert.Equal(t, 0.0, report.ChangePercent)
	assert.Equal(t, 5, report.TotalCrimes)
}

func TestAnalyzeTrends_NoData(t *testing.T) {
	e := newTestEngine(&fixtureStore{})

	report, err := e.AnalyzeTrends(30)
	require.NoError(t, err)

	assert.Equal(t, "stable", report.Trend)
	assert.Equal(t, 0.0, report.ChangePercent)
	assert.Equal(t, 0, report.TotalCrimes)
	assert.Equal(t, 0.0, report.AveragePerDay)
	assert.Equal(t, 0.0, report.MedianPerDay)
	assert.Equal(t, 0.0, report.StdDevPerDay)
	assert.Empty(t, report.DailyCounts)
}

func TestAnalyzeTrends_WindowExcludesOldRecords(t *testing.T) {
	store := &fixtureStore{incidents: []db.Incident{
		incidentAt(19.10, 72.87, "Powai", "Theft", "Low", 40), // outside window
		incidentAt(19.10, 72.87, "Powai", "Theft", "Low", 5),
	}}
	e := newTestEngine(store)

	report, err := e.AnalyzeTrends(30)
	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalCrimes)
}

func TestAnalyzeTrends_TypeBreakdown(t *testing.T) {
	store := &fixtureStore{incidents: []db.Incident{
		incidentAt(19.10, 72.87, "Powai", "Theft", "Low", 0),
		incidentAt(19.10, 72.87, "Powai", "Theft", "Low", 0),
		incidentAt(19.10, 72.87, "Powai", "Assault", "High", 0),
	}}
	e := newTestEngine(store)

	report, err := e.AnalyzeTrends(7)
	require.NoError(t, err)

	day := testNow.Format("2006-01-02")
	assert.Equal(t, 2, report.TypesByDay[day]["Theft"])
	assert.Equal(t, 1, report.TypesByDay[day]["Assault"])
}

func TestAnalyzeTrends_InvalidWindow(t *testing.T) {
	e := newTestEngine(&fixtureStore{})
	_, err := e.AnalyzeTrends(0)
	assert.Error(t, err)
	_, err = e.AnalyzeTrends(-7)
	assert.Error(t, err)
}
