// Package main is the entry point for the voicetasks CLI.
package main

import (
	"context"
	"os"

	"voicetasks/internal/commands"
)

// version will be set at build time
var version = "dev"

func main() {
	code := commands.Execute(context.Background(), commands.Options{Version: version}, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}
