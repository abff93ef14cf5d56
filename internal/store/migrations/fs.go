// Package migrations holds the embedded schema migrations applied at open.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
