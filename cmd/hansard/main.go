// Package main is the entry point for the hansard CLI.
package main

import (
	"os"

	"github.com/jmylchreest/hansard/cmd/hansard/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
