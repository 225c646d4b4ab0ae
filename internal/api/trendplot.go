package api

import (
	"fmt"
	"net/http"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// plotTrends renders the daily-count series of the trend report as a PNG line
// plot. Useful for quick eyeballing and for embedding in reports without the
// web UI.
func (s *Server) plotTrends(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Content-Type", "application/json")
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	days := s.cfg.GetTrendWindowDays()
	if d := r.URL.Query().Get("days"); d != "" {
		parsed, err := strconv.Atoi(d)
		if err != nil || parsed < 1 {
			w.Header().Set("Content-Type", "application/json")
			s.writeJSONError(w, http.StatusBadRequest, "Invalid 'days' parameter")
			return
		}
		days = parsed
	}

	report, err := s.engine.AnalyzeTrends(days)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		s.writeEngineError(w, err)
		return
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Crime Trend - last %d days (%s)", days, report.Trend)
	p.X.Label.Text = "Day"
	p.Y.Label.Text = "Incidents"

	pts := make(plotter.XYs, len(report.DailyCounts))
	labels := make([]string, len(report.DailyCounts))
	for i, dc := range report.DailyCounts {
		pts[i] = plotter.XY{X: float64(i), Y: float64(dc.Count)}
		labels[i] = dc.Date
	}

	if len(pts) > 0 {
		line, err := plotter.NewLine(pts)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to build plot: %v", err))
			return
		}
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add("daily incidents", line)
		p.Legend.Top = true

		p.NominalX(labels...)
		p.X.Tick.Label.Rotation = 0.8
		p.X.Tick.Label.XAlign = -1
		p.X.Tick.Label.YAlign = -0.5
	}

	wt, err := p.WriterTo(10*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render plot: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if _, err := wt.WriteTo(w); err != nil {
		// Headers already sent; nothing useful left to report to the client.
		return
	}
}
