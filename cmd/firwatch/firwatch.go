package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	"github.com/firwatch/firwatch/internal/analytics"
	"github.com/firwatch/firwatch/internal/api"
	"github.com/firwatch/firwatch/internal/config"
	"github.com/firwatch/firwatch/internal/db"
	"github.com/firwatch/firwatch/internal/version"
)

var (
	listen      = flag.String("listen", "", "Listen address (overrides config)")
	dbPath      = flag.String("db", "", "Path to the SQLite database (overrides config)")
	configPath  = flag.String("config", "", "Path to a JSON config file")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println("firwatch " + version.String())
		return
	}

	cfg := config.Empty()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	database := cfg.GetDBPath()
	if *dbPath != "" {
		database = *dbPath
	}
	addr := cfg.GetListen()
	if *listen != "" {
		addr = *listen
	}

	// Subcommand dispatch: `firwatch migrate <action>` manages the schema
	// and exits without starting the server.
	if flag.Arg(0) == "migrate" {
		db.RunMigrateCommand(flag.Args()[1:], database)
		return
	}

	store, err := db.NewDB(database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	migrations, err := db.MigrationsFS()
	if err != nil {
		log.Fatalf("Failed to load embedded migrations: %v", err)
	}
	if err := store.CheckMigrations(migrations); err != nil {
		log.Fatalf("Schema check failed: %v", err)
	}

	engine := analytics.NewEngine(store)

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// HTTP server goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()

		mux := api.NewServer(store, engine, cfg).ServeMux()
		store.AttachAdminRoutes(mux)

		server := &http.Server{
			Addr:    addr,
			Handler: api.LoggingMiddleware(mux),
		}

		go func() {
			log.Printf("listening on %s (db %s)", addr, database)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
			if err := server.Close(); err != nil {
				log.Printf("HTTP server force close error: %v", err)
			}
		}

		log.Printf("HTTP server routine stopped")
	}()

	wg.Wait()
	log.Printf("Graceful shutdown complete")
}
