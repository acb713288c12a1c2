// Package main provides the entry point for the pawprint CLI.
package main

import (
	"github.com/pawprint/pawprint/internal/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
