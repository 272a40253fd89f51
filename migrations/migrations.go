package migrations

import "embed"

// Rule-library schema migrations, embedded so the binary carries its own
// schema and needs no files next to it.
//
//go:embed sqlite/*.sql
var SqliteMigrations embed.FS

//go:embed postgres/*.sql
var PostgresMigrations embed.FS
