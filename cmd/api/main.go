package main

import (
	"fmt"
	"os"

	"github.com/infinite-track/hris-backend-go/internal/config"
	"github.com/infinite-track/hris-backend-go/internal/pkg/logger"
	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "infinite-track",
	Short:   "Infinite Track HR backend",
	Long:    `Attendance, leave approval and user management API.`,
	Version: version,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

// loadConfig reads configuration and initialises the logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.App.Env, cfg.App.LogLevel)
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
