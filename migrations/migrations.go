// Package migrations embeds the SQL schema of both services so binaries can
// migrate without shipping the .sql files alongside them.
package migrations

import "embed"

//go:embed accounts/*.sql transactions/*.sql
var FS embed.FS

const (
	Accounts     = "accounts"
	Transactions = "transactions"
)
