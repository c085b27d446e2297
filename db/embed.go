// Package db embeds the goose SQL migrations so binaries and tests can apply
// them without a checkout on disk.
package db

import "embed"

// MigrationsDir is the directory of Migrations holding the SQL files.
const MigrationsDir = "migrations"

//go:embed migrations/*.sql
var Migrations embed.FS
