// Command agrictl runs maintenance tasks against the AgriConnect database.
package main

import (
	"fmt"
	"os"

	"agriconnect/internal/config"
	"agriconnect/internal/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	log *zap.Logger

	// connect opens the configured database. Tests swap it for an in-memory one.
	connect = func() (*config.Config, *gorm.DB, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, nil, err
		}
		db, err := config.ConnectDatabase(cfg)
		if err != nil {
			return nil, nil, err
		}
		return cfg, db, nil
	}
)

var rootCmd = &cobra.Command{
	Use:   "agrictl",
	Short: "AgriConnect maintenance commands",
	Long: `Maintenance commands for the AgriConnect backend.

Database settings are read from the same .env and environment
variables as the API server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if log != nil {
			return nil
		}
		var err error
		log, err = logger.New(os.Getenv("APP_MODE") != "prod")
		return err
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(farmerIDCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
