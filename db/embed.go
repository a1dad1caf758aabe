// Package db ships the goose migrations inside the binary.
package db

import "embed"

// Migrations holds every versioned SQL file under migrations/.
//
//go:embed migrations/*.sql
var Migrations embed.FS
