package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/firwatch/firwatch/internal/analytics"
)

// Config represents the optional JSON configuration file. Every field is a
// pointer so that omitted fields fall back to the Get* defaults; partial
// configs are safe.
type Config struct {
	// Server params
	Listen *string `json:"listen,omitempty"`
	DBPath *string `json:"db_path,omitempty"`

	// Analysis params
	HotspotMinCrimes *int     `json:"hotspot_min_crimes,omitempty"`
	RiskRadiusKm     *float64 `json:"risk_radius_km,omitempty"`
	TrendWindowDays  *int     `json:"trend_window_days,omitempty"`
	PatrolOfficers   *int     `json:"patrol_officers,omitempty"`
}

// Empty returns a Config with all fields set to nil. Use Load to read actual
// values from a file.
func Empty() *Config {
	return &Config{}
}

// Load reads a Config from a JSON file. The file must have a .json extension
// and be under the max file size.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Empty()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are usable.
func (c *Config) Validate() error {
	if c.HotspotMinCrimes != nil && *c.HotspotMinCrimes < 1 {
		return fmt.Errorf("hotspot_min_crimes must be at least 1, got %d", *c.HotspotMinCrimes)
	}
	if c.RiskRadiusKm != nil && *c.RiskRadiusKm <= 0 {
		return fmt.Errorf("risk_radius_km must be positive, got %f", *c.RiskRadiusKm)
	}
	if c.TrendWindowDays != nil && *c.TrendWindowDays < 1 {
		return fmt.Errorf("trend_window_days must be at least 1, got %d", *c.TrendWindowDays)
	}
	if c.PatrolOfficers != nil && *c.PatrolOfficers < 1 {
		return fmt.Errorf("patrol_officers must be at least 1, got %d", *c.PatrolOfficers)
	}
	return nil
}

// GetListen returns the listen address or the default.
func (c *Config) GetListen() string {
	if c.Listen == nil || *c.Listen == "" {
		return ":8080"
	}
	return *c.Listen
}

// GetDBPath returns the database path or the default.
func (c *Config) GetDBPath() string {
	if c.DBPath == nil || *c.DBPath == "" {
		return "firwatch.db"
	}
	return *c.DBPath
}

// GetHotspotMinCrimes returns the hotspot_min_crimes value or the default.
func (c *Config) GetHotspotMinCrimes() int {
	if c.HotspotMinCrimes == nil {
		return analytics.DefaultHotspotMinCrimes
	}
	return *c.HotspotMinCrimes
}

// GetRiskRadiusKm returns the risk_radius_km value or the default.
func (c *Config) GetRiskRadiusKm() float64 {
	if c.RiskRadiusKm == nil {
		return analytics.DefaultRiskRadiusKm
	}
	return *c.RiskRadiusKm
}

// GetTrendWindowDays returns the trend_window_days value or the default.
func (c *Config) GetTrendWindowDays() int {
	if c.TrendWindowDays == nil {
		return analytics.DefaultTrendWindowDays
	}
	return *c.TrendWindowDays
}

// GetPatrolOfficers returns the patrol_officers value or the default.
func (c *Config) GetPatrolOfficers() int {
	if c.PatrolOfficers == nil {
		return analytics.DefaultPatrolOfficers
	}
	return *c.PatrolOfficers
}
