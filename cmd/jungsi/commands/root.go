package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "jungsi",
	Short: "정시 환산점수 · 합격예측 엔진",
	Long: `Jungsi Unified CLI

수능 성적을 대학별 환산점수로 변환하고 누적백분위, 유불리,
지원위험도를 산출하는 정시 합격예측 백엔드.

Usage:
  go run ./cmd/jungsi [command]

Examples:
  go run ./cmd/jungsi api
  go run ./cmd/jungsi calc --member 1234
  go run ./cmd/jungsi crawl
  go run ./cmd/jungsi test-db`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
