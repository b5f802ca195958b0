// Package migrations embeds the schema migration files shared by the
// startup auto-migration and the manual cmd/migrate runner.
package migrations

import "embed"

// Dir is the directory within Files containing the migration scripts.
const Dir = "sql"

//go:embed sql/*.sql
var Files embed.FS
