package analytics

// weekdayOrder is the canonical display order for daily distributions and
// the tie-break order for the peak day.
var weekdayOrder = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// highRiskHourFraction marks an hour as high-risk when its count exceeds
// this fraction of the peak hour's count.
const highRiskHourFraction = 0.6

type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// TimePatterns reports when incidents cluster in time. Hourly always holds
// all 24 hours and Daily all 7 weekdays, zero-filled, so chart consumers
// never have to backfill gaps.
type TimePatterns struct {
	Hourly        []HourCount            `json:"hourly"`
	Daily         []DayCount             `json:"daily"`
	PeakHour      int                    `json:"peak_hour"`
	PeakHourCount int                    `json:"peak_hour_count"`
	PeakDay       string                 `json:"peak_day"`
	PeakDayCount  int                    `json:"peak_day_count"`
	HighRiskHours []int                  `json:"high_risk_hours"`
	TypesByHour   map[int]map[string]int `json:"types_by_hour"`
}

// AnalyzeTimePatterns computes hour-of-day and day-of-week distributions
// plus a per-hour crime-type breakdown. Records without a parseable
// timestamp are skipped, never errored; the incident date is preferred over
// the creation stamp.
func (e *Engine) AnalyzeTimePatterns() (*TimePatterns, error) {
	incidents, err := e.snapshot()
	if err != nil {
		return nil, err
	}

	var hourly [24]int
	daily := make(map[string]int)
	typesByHour := make(map[int]map[string]int)

	for _, in := range incidents {
		t, ok := occurrenceTime(in)
		if !ok {
			continue
		}

		hour := t.Hour()
		day := t.Weekday().String()

		hourly[hour]++
		daily[day]++
		if typesByHour[hour] == nil {
			typesByHour[hour] = make(map[string]int)
		}
		typesByHour[hour][crimeTypeOf(in)]++
	}

	// Peaks are found with a single in-order scan so ties always break
	// towards the earlier hour / weekday.
	peakHour, peakHourCount := 0, 0
	for h := 0; h < 24; h++ {
		if hourly[h] > peakHourCount {
			peakHour, peakHourCount = h, hourly[h]
		}
	}

	peakDay, peakDayCount := "Unknown", 0
	for _, d := range weekdayOrder {
		if daily[d] > peakDayCount {
			peakDay, peakDayCount = d, daily[d]
		}
	}

	hourlyData := make([]HourCount, 24)
	for h := 0; h < 24; h++ {
		hourlyData[h] = HourCount{Hour: h, Count: hourly[h]}
	}

	dailyData := make([]DayCount, len(weekdayOrder))
	for i, d := range weekdayOrder {
		dailyData[i] = DayCount{Day: d, Count: daily[d]}
	}

	highRisk := []int{}
	threshold := float64(peakHourCount) * highRiskHourFraction
	for h := 0; h < 24; h++ {
		if float64(hourly[h]) > threshold {
			highRisk = append(highRisk, h)
		}
	}

	return &TimePatterns{
		Hourly:        hourlyData,
		Daily:         dailyData,
		PeakHour:      peakHour,
		PeakHourCount: peakHourCount,
		PeakDay:       peakDay,
		PeakDayCount:  peakDayCount,
		HighRiskHours: highRisk,
		TypesByHour:   typesByHour,
	}, nil
}
