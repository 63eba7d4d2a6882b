// Package main provides the repo-standards CLI.
package main

import (
	"os"

	"github.com/oddessentials/repo-standards/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
