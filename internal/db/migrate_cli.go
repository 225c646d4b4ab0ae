package db

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
)

// RunMigrateCommand handles the 'migrate' subcommand dispatching.
func RunMigrateCommand(args []string, dbPath string) {
	if len(args) < 1 {
		PrintMigrateHelp()
		os.Exit(1)
	}

	action := args[0]

	migrations, err := MigrationsFS()
	if err != nil {
		log.Fatalf("Failed to load embedded migrations: %v", err)
	}

	// Open without schema initialisation: migrations manage the schema.
	database, err := OpenDB(dbPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	switch action {
	case "up":
		log.Printf("Running migrations...")
		if err := database.MigrateUp(migrations); err != nil {
			log.Fatalf("Migration up failed: %v", err)
		}
		log.Println("✓ All migrations applied successfully")
		printVersion(database, migrations)

	case "down":
		log.Printf("Rolling back one migration...")
		if err := database.MigrateDown(migrations); err != nil {
			log.Fatalf("Migration down failed: %v", err)
		}
		log.Println("✓ Rolled back one migration")
		printVersion(database, migrations)

	case "status":
		version, dirty, err := database.MigrateVersion(migrations)
		if err != nil {
			log.Fatalf("Failed to get migration version: %v", err)
		}
		latest, err := LatestMigrationVersion(migrations)
		if err != nil {
			log.Fatalf("Failed to get latest migration version: %v", err)
		}
		log.Printf("Current version: %d (dirty: %v)", version, dirty)
		log.Printf("Latest version:  %d", latest)
		if version < latest {
			log.Printf("Outstanding migrations: %d", latest-version)
		}

	case "version":
		if len(args) < 2 {
			log.Fatal("Usage: firwatch migrate version <version_number>")
		}
		version := parseVersionArg(args[1])
		if err := database.MigrateTo(migrations, uint(version)); err != nil {
			log.Fatalf("Migration to version %d failed: %v", version, err)
		}
		log.Printf("✓ Migrated to version %d", version)

	case "force":
		if len(args) < 2 {
			log.Fatal("Usage: firwatch migrate force <version_number>")
		}
		version := parseVersionArg(args[1])
		if err := database.MigrateForce(migrations, version); err != nil {
			log.Fatalf("Force migration failed: %v", err)
		}
		log.Printf("✓ Forced version to %d", version)

	case "help":
		PrintMigrateHelp()

	default:
		fmt.Printf("Unknown migrate action: %s\n\n", action)
		PrintMigrateHelp()
		os.Exit(1)
	}
}

func printVersion(database *DB, migrations fs.FS) {
	version, dirty, _ := database.MigrateVersion(migrations)
	log.Printf("Current version: %d (dirty: %v)", version, dirty)
}

func parseVersionArg(arg string) int {
	version, err := strconv.Atoi(arg)
	if err != nil || version < 0 {
		log.Fatalf("Invalid version number: %s", arg)
	}
	return version
}

// PrintMigrateHelp prints usage for the migrate subcommand.
func PrintMigrateHelp() {
	fmt.Println(`Usage: firwatch migrate <action>

Actions:
  up                  Apply all pending migrations
  down                Roll back the most recent migration
  status              Show current and latest schema versions
  version <n>         Migrate up or down to version n
  force <n>           Force the recorded version to n (dirty-state recovery)
  help                Show this help`)
}
