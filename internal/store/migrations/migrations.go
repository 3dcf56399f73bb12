// Package migrations holds the schema for the auth and management databases.
// Each service applies its own set at startup.
package migrations

import "github.com/uptrace/bun/migrate"

// Auth is the migration set for the authentication database.
var Auth = migrate.NewMigrations()

// Management is the migration set for the management database.
var Management = migrate.NewMigrations()

// Analytics is the migration set for the analytics database used by the
// event consumer.
var Analytics = migrate.NewMigrations()
