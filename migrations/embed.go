// AngelaMos | 2026
// embed.go

// Package migrations embeds the goose SQL migrations so the binary can
// apply them without a filesystem path.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
