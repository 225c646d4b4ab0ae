package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/firwatch/firwatch/internal/analytics"
	"github.com/firwatch/firwatch/internal/config"
	"github.com/firwatch/firwatch/internal/db"
	"github.com/firwatch/firwatch/internal/monitoring"
)

// ANSI escape codes for cyan and reset
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

type Server struct {
	db     *db.DB
	engine *analytics.Engine
	cfg    *config.Config
}

func NewServer(database *db.DB, engine *analytics.Engine, cfg *config.Config) *Server {
	if cfg == nil {
		cfg = config.Empty()
	}
	return &Server{
		db:     database,
		engine: engine,
		cfg:    cfg,
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/incidents", s.handleIncidents)
	mux.HandleFunc("/api/stats", s.showStats)
	mux.HandleFunc("/api/hotspots", s.showHotspots)
	mux.HandleFunc("/api/time-patterns", s.showTimePatterns)
	mux.HandleFunc("/api/risk", s.showRisk)
	mux.HandleFunc("/api/trends", s.showTrends)
	mux.HandleFunc("/api/trends/plot", s.plotTrends)
	mux.HandleFunc("/api/patrols", s.showPatrols)
	mux.HandleFunc("/debug/charts/hourly", s.chartHourly)
	mux.HandleFunc("/debug/charts/hotspots", s.chartHotspots)
	return mux
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// writeEngineError maps analytics failures onto HTTP statuses: an unreachable
// store is 503 so callers can retry; anything else from the engine is a bad
// request (the engine only fails on invalid input or store errors).
func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	if errors.Is(err, analytics.ErrStoreUnavailable) {
		s.writeJSONError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	s.writeJSONError(w, http.StatusBadRequest, err.Error())
}

func (s *Server) showHotspots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	minCrimes := s.cfg.GetHotspotMinCrimes()
	if m := r.URL.Query().Get("min_crimes"); m != "" {
		parsed, err := strconv.Atoi(m)
		if err != nil || parsed < 1 {
			s.writeJSONError(w, http.StatusBadRequest, "Invalid 'min_crimes' parameter")
			return
		}
		minCrimes = parsed
	}

	hotspots, err := s.engine.DetectHotspots(minCrimes)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	if err := json.NewEncoder(w).Encode(hotspots); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write hotspots")
		return
	}
}

func (s *Server) showTimePatterns(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	patterns, err := s.engine.AnalyzeTimePatterns()
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	if err := json.NewEncoder(w).Encode(patterns); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write time patterns")
		return
	}
}

func (s *Server) showRisk(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	lat, err := parseFloatParam(r, "lat")
	if err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "Invalid or missing 'lat' parameter")
		return
	}
	lon, err := parseFloatParam(r, "lon")
	if err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "Invalid or missing 'lon' parameter")
		return
	}

	radius := s.cfg.GetRiskRadiusKm()
	if rk := r.URL.Query().Get("radius_km"); rk != "" {
		parsed, err := strconv.ParseFloat(rk, 64)
		if err != nil || math.IsNaN(parsed) || parsed <= 0 {
			s.writeJSONError(w, http.StatusBadRequest, "Invalid 'radius_km' parameter")
			return
		}
		radius = parsed
	}

	assessment, err := s.engine.ScoreRisk(lat, lon, radius)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	if err := json.NewEncoder(w).Encode(assessment); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write risk assessment")
		return
	}
}

func (s *Server) showTrends(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	days := s.cfg.GetTrendWindowDays()
	if d := r.URL.Query().Get("days"); d != "" {
		parsed, err := strconv.Atoi(d)
		if err != nil || parsed < 1 {
			s.writeJSONError(w, http.StatusBadRequest, "Invalid 'days' parameter")
			return
		}
		days = parsed
	}

	report, err := s.engine.AnalyzeTrends(days)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	if err := json.NewEncoder(w).Encode(report); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write trend report")
		return
	}
}

func (s *Server) showPatrols(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	officers := s.cfg.GetPatrolOfficers()
	if o := r.URL.Query().Get("officers"); o != "" {
		parsed, err := strconv.Atoi(o)
		if err != nil || parsed < 1 {
			s.writeJSONError(w, http.StatusBadRequest, "Invalid 'officers' parameter")
			return
		}
		officers = parsed
	}

	suggestions, err := s.engine.SuggestPatrols(officers)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	if err := json.NewEncoder(w).Encode(suggestions); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write patrol suggestions")
		return
	}
}

func (s *Server) handleIncidents(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodGet:
		s.listIncidents(w, r)
	case http.MethodPost:
		s.createIncident(w, r)
	default:
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) listIncidents(w http.ResponseWriter, r *http.Request) {
	var (
		incidents []db.Incident
		err       error
	)
	if since := r.URL.Query().Get("since"); since != "" {
		cutoff, parseErr := time.Parse(time.RFC3339, since)
		if parseErr != nil {
			s.writeJSONError(w, http.StatusBadRequest, "Invalid 'since' parameter, want RFC 3339")
			return
		}
		incidents, err = s.db.IncidentsSince(cutoff)
	} else {
		incidents, err = s.db.Incidents()
	}
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError,
			fmt.Sprintf("Failed to retrieve incidents: %v", err))
		return
	}

	if incidents == nil {
		incidents = []db.Incident{}
	}
	if err := json.NewEncoder(w).Encode(incidents); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write incidents")
		return
	}
}

func (s *Server) createIncident(w http.ResponseWriter, r *http.Request) {
	var incident db.Incident
	if err := json.NewDecoder(r.Body).Decode(&incident); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "Invalid incident JSON")
		return
	}

	if incident.Latitude != nil && (math.IsNaN(*incident.Latitude) || *incident.Latitude < -90 || *incident.Latitude > 90) {
		s.writeJSONError(w, http.StatusBadRequest, "Latitude out of range")
		return
	}
	if incident.Longitude != nil && (math.IsNaN(*incident.Longitude) || *incident.Longitude < -180 || *incident.Longitude > 180) {
		s.writeJSONError(w, http.StatusBadRequest, "Longitude out of range")
		return
	}

	if err := s.db.CreateIncident(&incident); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError,
			fmt.Sprintf("Failed to create incident: %v", err))
		return
	}
	monitoring.Debugf("created incident %s (%s)", incident.ID, incident.CrimeType)

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(incident); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write incident")
		return
	}
}

type statsResponse struct {
	TotalIncidents int             `json:"total_incidents"`
	ByCrimeType    []db.LabelCount `json:"by_crime_type"`
	BySeverity     []db.LabelCount `json:"by_severity"`
}

func (s *Server) showStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	total, err := s.db.CountIncidents()
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError,
			fmt.Sprintf("Failed to count incidents: %v", err))
		return
	}
	byType, err := s.db.CrimeTypeCounts()
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError,
			fmt.Sprintf("Failed to group by crime type: %v", err))
		return
	}
	bySeverity, err := s.db.SeverityCounts()
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError,
			fmt.Sprintf("Failed to group by severity: %v", err))
		return
	}

	if byType == nil {
		byType = []db.LabelCount{}
	}
	if bySeverity == nil {
		bySeverity = []db.LabelCount{}
	}

	stats := statsResponse{
		TotalIncidents: total,
		ByCrimeType:    byType,
		BySeverity:     bySeverity,
	}
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write stats")
		return
	}
}

func parseFloatParam(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, fmt.Errorf("missing %q", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	return v, nil
}
