// Package migrations embeds the SQL schema migrations applied by the
// SQLite metadata store on open.
package migrations

import "embed"

// FS holds the migration files, ordered by their numeric prefix.
//
//go:embed *.sql
var FS embed.FS
