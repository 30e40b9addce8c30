// Package migrations embeds the SQL schema migrations for the session store.
package migrations

import "embed"

// FS holds the *.up.sql migration files applied at startup.
//
//go:embed *.sql
var FS embed.FS
