package analytics

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// DefaultTrendWindowDays is the trend window used when the caller does not
// specify one.
const DefaultTrendWindowDays = 30

type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// TrendReport classifies incident volume over a trailing window. The
// direction comes from comparing the first and second half of the days that
// actually have data; AveragePerDay divides by the requested window length,
// not the number of days with data.
type TrendReport struct {
	DailyCounts   []DailyCount              `json:"daily_counts"`
	TotalCrimes   int                       `json:"total_crimes"`
	Trend         string                    `json:"trend"`
	ChangePercent float64                   `json:"change_percent"`
	AveragePerDay float64                   `json:"average_per_day"`
	MedianPerDay  float64                   `json:"median_per_day"`
	StdDevPerDay  float64                   `json:"stddev_per_day"`
	TypesByDay    map[string]map[string]int `json:"types_by_day"`
}

// AnalyzeTrends buckets the incidents recorded in the last `days` days by
// calendar day and reports whether volume is rising or falling. Fewer than
// two distinct days of data is reported as "stable".
func (e *Engine) AnalyzeTrends(days int) (*TrendReport, error) {
	if days <= 0 {
		return nil, fmt.Errorf("days must be positive, got %d", days)
	}

	now := e.now()
	cutoff := now.AddDate(0, 0, -days)

	incidents, err := e.store.IncidentsSince(cutoff)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	dailyCounts := make(map[string]int)
	typesByDay := make(map[string]map[string]int)
	total := 0

	for _, in := range incidents {
		t, ok := recordTime(in)
		if !ok {
			continue
		}
		// The store bounds the window server-side where it can; re-check
		// here so in-memory stores without filtering behave identically.
		if t.Before(cutoff) || t.After(now) {
			continue
		}

		dateKey := t.Format("2006-01-02")
		dailyCounts[dateKey]++
		if typesByDay[dateKey] == nil {
			typesByDay[dateKey] = make(map[string]int)
		}
		typesByDay[dateKey][crimeTypeOf(in)]++
		total++
	}

	dates := make([]string, 0, len(dailyCounts))
	for d := range dailyCounts {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	trend := "stable"
	changePercent := 0.0
	if len(dates) >= 2 {
		mid := len(dates) / 2
		firstHalf, secondHalf := 0, 0
		for _, d := range dates[:mid] {
			firstHalf += dailyCounts[d]
		}
		for _, d := range dates[mid:] {
			secondHalf += dailyCounts[d]
		}

		if secondHalf > firstHalf {
			trend = "increasing"
		} else {
			trend = "decreasing"
		}
		denom := firstHalf
		if denom < 1 {
			denom = 1
		}
		changePercent = float64(secondHalf-firstHalf) / float64(denom) * 100
	}

	daily := make([]DailyCount, 0, len(dates))
	counts := make([]float64, 0, len(dates))
	for _, d := range dates {
		daily = append(daily, DailyCount{Date: d, Count: dailyCounts[d]})
		counts = append(counts, float64(dailyCounts[d]))
	}

	median, stddev := dailyStats(counts)

	windowDays := days
	if windowDays < 1 {
		windowDays = 1
	}

	return &TrendReport{
		DailyCounts:   daily,
		TotalCrimes:   total,
		Trend:         trend,
		ChangePercent: round1(changePercent),
		AveragePerDay: round1(float64(total) / float64(windowDays)),
		MedianPerDay:  median,
		StdDevPerDay:  stddev,
		TypesByDay:    typesByDay,
	}, nil
}

// dailyStats summarises the per-day counts of the days that have data.
// Returns zeros when there is not enough data for the statistic.
func dailyStats(counts []float64) (median, stddev float64) {
	if len(counts) == 0 {
		return 0, 0
	}

	sorted := make([]float64, len(counts))
	copy(sorted, counts)
	sort.Float64s(sorted)
	median = stat.Quantile(0.5, stat.Empirical, sorted, nil)

	if len(counts) >= 2 {
		stddev = round1(stat.StdDev(counts, nil))
	}
	return round1(median), stddev
}
