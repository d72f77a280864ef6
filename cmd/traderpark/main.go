package main

import (
	"os"

	"github.com/hidvid/traderpark/backend/cmd/traderpark/commands"
)

// main is the entry point for the TraderPark CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/traderpark [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
