// cmd/promptsql/main.go
package main

import (
	cmd "github.com/mwiater/promptsql/internal/commands"
)

// Set via -ldflags "-X main.version=... -X main.commit=... -X main.date=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// main starts the promptsql CLI application by delegating to the
// cobra root command defined in the promptsql package.
func main() {
	cmd.SetVersionInfo(version, commit, date)
	cmd.Execute()
}
