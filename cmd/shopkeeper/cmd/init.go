package cmd

import (
	"fmt"
	"os"

	"github.com/rustyeddy/shopkeeper/config"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new business from a scenario",
	Long: `Initialize a fresh business database from the scenario config,
seeding accounts, products, vendors and recurring obligations.

Examples:
  shopkeeper init
  shopkeeper init --config my-shop.yaml --db my-shop.sqlite`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var writeConfigPath string

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVar(&writeConfigPath, "write-config", "", "also write the scenario to this file for later editing")
}

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(dbPath); err == nil {
		return fmt.Errorf("db %s already exists, refusing to reseed", dbPath)
	}

	cfg, err := loadScenario()
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := config.Seed(cmd.Context(), store, cfg); err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	if writeConfigPath != "" {
		if err := cfg.SaveToFile(writeConfigPath); err != nil {
			return err
		}
	}

	fmt.Printf("Business initialized at %s, open for business %s\n", dbPath, cfg.StartDate)
	return nil
}
