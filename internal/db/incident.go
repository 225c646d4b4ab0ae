package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Incident is one geotagged crime record. Upstream sources (scrapers,
// imports, the seeder) are noisy: coordinates may be absent and
// incident_date arrives in whatever format the source used, so both are
// stored as-is and interpreted leniently by the analytics layer.
type Incident struct {
	ID            string   `json:"id"`
	FIRNumber     string   `json:"fir_number"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	CrimeType     string   `json:"crime_type"`
	CrimeCategory string   `json:"crime_category"`
	SeverityLevel string   `json:"severity_level"`
	Status        string   `json:"status"`
	Location      string   `json:"location"`
	PoliceStation string   `json:"police_station"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	IncidentDate  string   `json:"incident_date"`
	CreatedAt     string   `json:"created_at"`
}

const incidentColumns = `id, fir_number, title, description, crime_type, crime_category,
		severity_level, status, location, police_station, latitude, longitude,
		incident_date, created_at`

// CreateIncident inserts a new incident. A missing ID is assigned a fresh
// UUID and a missing CreatedAt is stamped with the current UTC time, so
// importers can supply either.
func (db *DB) CreateIncident(incident *Incident) error {
	if incident.ID == "" {
		incident.ID = uuid.New().String()
	}
	if incident.CreatedAt == "" {
		incident.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	_, err := db.Exec(
		`INSERT INTO incidents (`+incidentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		incident.ID,
		incident.FIRNumber,
		incident.Title,
		incident.Description,
		incident.CrimeType,
		incident.CrimeCategory,
		incident.SeverityLevel,
		incident.Status,
		incident.Location,
		incident.PoliceStation,
		incident.Latitude,
		incident.Longitude,
		incident.IncidentDate,
		incident.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create incident: %w", err)
	}
	return nil
}

// Incidents returns every incident in insertion (rowid) order. The analytics
// layer depends on this ordering being stable across fetches: hotspot label
// tie-breaking is first-encountered-wins.
func (db *DB) Incidents() ([]Incident, error) {
	return db.queryIncidents(`SELECT ` + incidentColumns + ` FROM incidents ORDER BY rowid ASC`)
}

// IncidentsSince returns incidents whose created_at is at or after t, in
// insertion order. created_at is stored as RFC 3339 UTC so the comparison
// works lexically.
func (db *DB) IncidentsSince(t time.Time) ([]Incident, error) {
	return db.queryIncidents(
		`SELECT `+incidentColumns+` FROM incidents WHERE created_at >= ? ORDER BY rowid ASC`,
		t.UTC().Format(time.RFC3339),
	)
}

func (db *DB) queryIncidents(query string, args ...interface{}) ([]Incident, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query incidents: %w", err)
	}
	defer rows.Close()

	var incidents []Incident
	for rows.Next() {
		var in Incident
		if err := rows.Scan(
			&in.ID,
			&in.FIRNumber,
			&in.Title,
			&in.Description,
			&in.CrimeType,
			&in.CrimeCategory,
			&in.SeverityLevel,
			&in.Status,
			&in.Location,
			&in.PoliceStation,
			&in.Latitude,
			&in.Longitude,
			&in.IncidentDate,
			&in.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan incident: %w", err)
		}
		incidents = append(incidents, in)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return incidents, nil
}

// CountIncidents returns the total number of stored incidents.
func (db *DB) CountIncidents() (int, error) {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM incidents`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count incidents: %w", err)
	}
	return count, nil
}

// LabelCount is a (label, count) pair from a grouped aggregate.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// CrimeTypeCounts returns incident counts grouped by crime type, most
// frequent first.
func (db *DB) CrimeTypeCounts() ([]LabelCount, error) {
	return db.queryLabelCounts(`SELECT crime_type, COUNT(*) FROM incidents GROUP BY crime_type ORDER BY COUNT(*) DESC, crime_type ASC`)
}

// SeverityCounts returns incident counts grouped by severity level, most
// frequent first.
func (db *DB) SeverityCounts() ([]LabelCount, error) {
	return db.queryLabelCounts(`SELECT severity_level, COUNT(*) FROM incidents GROUP BY severity_level ORDER BY COUNT(*) DESC, severity_level ASC`)
}

func (db *DB) queryLabelCounts(query string) ([]LabelCount, error) {
	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query counts: %w", err)
	}
	defer rows.Close()

	var counts []LabelCount
	for rows.Next() {
		var lc LabelCount
		if err := rows.Scan(&lc.Label, &lc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts = append(counts, lc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}
