package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "traderpark",
	Short: "TraderPark - 키움증권 REST API 백엔드",
	Long: `TraderPark Backend CLI

키움증권 REST API를 감싸는 조회용 BFF.
일별 잔고수익률(ka01690)과 일봉 차트(ka10081)를 제공합니다.

Usage:
  go run ./cmd/traderpark [command]

Examples:
  go run ./cmd/traderpark api
  go run ./cmd/traderpark balance --date 20250102
  go run ./cmd/traderpark chart 005930
  go run ./cmd/traderpark token`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug 로그 출력")
}
