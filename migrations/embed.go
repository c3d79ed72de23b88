// Package migrations embeds the SQL migration files so the binary can run
// them standalone.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
