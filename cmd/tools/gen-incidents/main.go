// Command gen-incidents seeds a database with synthetic Mumbai FIR records
// for local development and demos.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"time"

	"github.com/firwatch/firwatch/internal/db"
)

// policeStations maps Mumbai police stations to their GPS coordinates.
// Incidents are scattered around these with a small jitter.
var policeStations = map[string][2]float64{
	"Andheri":    {19.1183, 72.8355},
	"Bandra":     {19.0612, 72.8392},
	"Borivali":   {19.2333, 72.8567},
	"Chembur":    {19.0511, 72.9087},
	"Dahisar":    {19.2524, 72.8446},
	"Ghatkopar":  {19.0815, 72.9087},
	"Jogeshwari": {19.1447, 72.8446},
	"Kandivali":  {19.2083, 72.8333},
	"Malwani":    {19.2333, 72.8000},
	"Mulund":     {19.1750, 72.9583},
	"Oshiwara":   {19.1333, 72.8250},
	"Powai":      {19.1244, 72.9064},
	"Vakola":     {19.0850, 72.8250},
}

// crimeWeights gives the relative frequency of each crime type in the
// synthetic mix. Petty property crime dominates, as it does in the real
// district numbers.
var crimeWeights = []struct {
	crimeType string
	weight    float64
}{
	{"Theft", 0.40},
	{"Chain Snatching", 0.15},
	{"Burglary", 0.12},
	{"Assault", 0.10},
	{"Fraud", 0.08},
	{"Cybercrime", 0.08},
	{"Rape", 0.03},
	{"Murder", 0.02},
	{"Robbery", 0.02},
}

var categoryByType = map[string]string{
	"Theft":           "Property",
	"Chain Snatching": "Property",
	"Burglary":        "Property",
	"Robbery":         "Violent",
	"Assault":         "Violent",
	"Rape":            "Violent",
	"Murder":          "Violent",
	"Fraud":           "Financial",
	"Cybercrime":      "Cyber",
}

var severityByType = map[string]string{
	"Theft":           "Low",
	"Chain Snatching": "Medium",
	"Burglary":        "Medium",
	"Fraud":           "Medium",
	"Cybercrime":      "Medium",
	"Assault":         "High",
	"Robbery":         "High",
	"Rape":            "Critical",
	"Murder":          "Critical",
}

var statuses = []string{"Under Investigation", "Chargesheet Filed", "Closed"}

func weightedCrimeType(rng *rand.Rand) string {
	total := 0.0
	for _, cw := range crimeWeights {
		total += cw.weight
	}
	r := rng.Float64() * total
	for _, cw := range crimeWeights {
		r -= cw.weight
		if r < 0 {
			return cw.crimeType
		}
	}
	return crimeWeights[0].crimeType
}

// stationNames returns the station list in a fixed order so a seeded RNG
// produces the same dataset on every run.
func stationNames() []string {
	names := make([]string, 0, len(policeStations))
	for name := range policeStations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func generateIncident(rng *rand.Rand, stations []string, now time.Time) *db.Incident {
	station := stations[rng.Intn(len(stations))]
	base := policeStations[station]

	// GPS jitter around the station
	lat := base[0] + (rng.Float64()*2-1)*0.002
	lon := base[1] + (rng.Float64()*2-1)*0.003

	daysBack := rng.Intn(31)
	incidentTime := now.AddDate(0, 0, -daysBack).Add(-time.Duration(rng.Intn(24)) * time.Hour)

	crimeType := weightedCrimeType(rng)

	return &db.Incident{
		FIRNumber:     fmt.Sprintf("%03d/%d", 100+rng.Intn(900), now.Year()),
		Title:         fmt.Sprintf("%s in %s", crimeType, station),
		Description:   fmt.Sprintf("%s reported in %s jurisdiction", crimeType, station),
		CrimeType:     crimeType,
		CrimeCategory: categoryByType[crimeType],
		SeverityLevel: severityByType[crimeType],
		Status:        statuses[rng.Intn(len(statuses))],
		Location:      station,
		PoliceStation: station + " PS",
		Latitude:      &lat,
		Longitude:     &lon,
		IncidentDate:  incidentTime.UTC().Format("2006-01-02 15:04:05"),
		CreatedAt:     incidentTime.UTC().Format(time.RFC3339),
	}
}

func main() {
	dbPath := flag.String("db", "firwatch.db", "path to the SQLite database")
	count := flag.Int("n", 500, "number of incidents to generate")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	reset := flag.Bool("reset", false, "delete existing incidents first")
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	store, err := db.NewDB(*dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer store.Close()

	if *reset {
		if _, err := store.Exec(`DELETE FROM incidents`); err != nil {
			log.Fatalf("failed to clear incidents: %v", err)
		}
		log.Printf("cleared existing incidents")
	}

	stations := stationNames()
	now := time.Now()
	for i := 0; i < *count; i++ {
		incident := generateIncident(rng, stations, now)
		if err := store.CreateIncident(incident); err != nil {
			log.Fatalf("failed to insert incident %d: %v", i, err)
		}
		if (i+1)%100 == 0 {
			log.Printf("%d/%d incidents", i+1, *count)
		}
	}

	stats, err := store.CrimeTypeCounts()
	if err != nil {
		log.Fatalf("failed to read distribution: %v", err)
	}
	log.Printf("✓ Seeded %d incidents into %s (seed %d)", *count, *dbPath, *seed)
	for _, s := range stats {
		log.Printf("  %-16s %d", s.Label, s.Count)
	}
}
