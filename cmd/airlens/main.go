// Package main is the entry point for the airlens CLI.
package main

import (
	"os"

	"github.com/airlens-labs/airlens/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
