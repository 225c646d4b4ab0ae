package db

import (
	"embed"
	"io/fs"
)

//go:embed migrations
var embeddedMigrations embed.FS

// MigrationsFS returns the embedded migrations as a filesystem rooted at the
// migration files themselves.
func MigrationsFS() (fs.FS, error) {
	return fs.Sub(embeddedMigrations, "migrations")
}
