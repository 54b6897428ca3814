// Package migrations embeds the schema of the SQL storage backend.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
