package main

import (
	"fmt"
	"time"

	"agriconnect/internal/adapters/persistence/models"
	"agriconnect/internal/config"
	"agriconnect/internal/core/services"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	seedFile string
	idYear   int
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	RunE:  runMigrate,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create user accounts",
	Long: `Create user accounts that do not exist yet.

With --file, accounts are read from a YAML document:

  users:
    - name: Asha
      email: asha@example.com
      phone: "9000000001"
      password: secret1
      role: farmer
      region: Kerala

Without --file, one demo account per role is created.`,
	RunE: runSeed,
}

var farmerIDCmd = &cobra.Command{
	Use:   "farmer-id",
	Short: "Show the farmer identifier the next signup would receive",
	RunE:  runFarmerID,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "YAML file with users to create")
	farmerIDCmd.Flags().IntVar(&idYear, "year", 0, "Calendar year (default: current)")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	_, db, err := connect()
	if err != nil {
		return err
	}
	if err := models.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	log.Info("database migration completed")
	fmt.Fprintln(cmd.OutOrStdout(), "migrated")
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	users := config.DemoUsers()
	if seedFile != "" {
		var err error
		if users, err = config.LoadSeedFile(seedFile); err != nil {
			return err
		}
	}

	cfg, db, err := connect()
	if err != nil {
		return err
	}
	if err := models.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	created, err := services.NewAuthService(db, cfg, log).Seed(cmd.Context(), users)
	if err != nil {
		return err
	}
	log.Info("seeded users", zap.Int("created", created), zap.String("file", seedFile))
	fmt.Fprintf(cmd.OutOrStdout(), "created %d of %d users\n", created, len(users))
	return nil
}

func runFarmerID(cmd *cobra.Command, args []string) error {
	year := idYear
	if year == 0 {
		year = time.Now().Year()
	}

	cfg, db, err := connect()
	if err != nil {
		return err
	}

	id, err := services.NewAuthService(db, cfg, log).NextFarmerID(cmd.Context(), year)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), id)
	return nil
}
