package main

import (
	"os"

	"github.com/wonny/dcalab/cmd/dcalab/commands"
)

// main is the entry point for the dcalab CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/dcalab [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
