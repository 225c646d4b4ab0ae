package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// chartHourly renders a bar chart (HTML) of incident counts per hour of day.
// This is a debugging-only endpoint (no auth) to eyeball the temporal shape of
// the data without the web UI.
func (s *Server) chartHourly(w http.ResponseWriter, r *http.Request) {
	patterns, err := s.engine.AnalyzeTimePatterns()
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		s.writeEngineError(w, err)
		return
	}

	hours := make([]string, 0, len(patterns.Hourly))
	data := make([]opts.BarData, 0, len(patterns.Hourly))
	for _, hc := range patterns.Hourly {
		hours = append(hours, fmt.Sprintf("%02d:00", hc.Hour))
		data = append(data, opts.BarData{Value: hc.Count})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Incidents by Hour", Theme: "dark", Width: "1100px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Incidents by Hour of Day",
			Subtitle: fmt.Sprintf("peak hour=%02d:00 count=%d", patterns.PeakHour, patterns.PeakHourCount),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(hours)
	bar.AddSeries("incidents", data)

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		w.Header().Set("Content-Type", "application/json")
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// chartHotspots renders a scatter plot (HTML) of detected hotspots, colored by
// risk score.
func (s *Server) chartHotspots(w http.ResponseWriter, r *http.Request) {
	minCrimes := s.cfg.GetHotspotMinCrimes()
	hotspots, err := s.engine.DetectHotspots(minCrimes)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		s.writeEngineError(w, err)
		return
	}

	data := make([]opts.ScatterData, 0, len(hotspots))
	maxScore := 0
	for _, h := range hotspots {
		if h.RiskScore > maxScore {
			maxScore = h.RiskScore
		}
		data = append(data, opts.ScatterData{
			Name:  h.Location,
			Value: []interface{}{h.Longitude, h.Latitude, h.RiskScore},
		})
	}
	if maxScore == 0 {
		maxScore = 1
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Crime Hotspots", Theme: "dark", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Crime Hotspots",
			Subtitle: fmt.Sprintf("min_crimes=%d hotspots=%d", minCrimes, len(hotspots)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Longitude", NameLocation: "middle", NameGap: 25, Scale: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Latitude", NameLocation: "middle", NameGap: 30, Scale: opts.Bool(true)}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxScore),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: []string{"#26828e", "#35b779", "#b5de2b", "#fde725", "#fd9a44", "#d7191c"}},
		}),
	)
	scatter.AddSeries("hotspots", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 14}))

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		w.Header().Set("Content-Type", "application/json")
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
