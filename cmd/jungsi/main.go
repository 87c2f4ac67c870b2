package main

import (
	"os"

	"github.com/wonny/jungsi/backend/cmd/jungsi/commands"
)

// main is the entry point for the jungsi CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/jungsi [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
