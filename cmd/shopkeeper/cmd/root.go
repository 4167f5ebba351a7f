package cmd

import (
	"fmt"

	"github.com/rustyeddy/shopkeeper/config"
	"github.com/rustyeddy/shopkeeper/ledger"
	"github.com/rustyeddy/shopkeeper/sim"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "shopkeeper",
	Short: "A small-business finance simulator with double-entry books",
	Long: `Shopkeeper simulates running a small retail business day by day.

It provides tools for:
  - Advancing the simulated clock through the daily pipeline
  - Placing vendor purchase orders with tiered pricing
  - Tracking cash, payables, loans and inventory on real double-entry books
  - Launching marketing campaigns and taking out loans
  - Reviewing sales history and financial position

Complete documentation is available at https://github.com/rustyeddy/shopkeeper`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

var (
	dbPath     string
	configPath string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "./shopkeeper.sqlite", "path to SQLite business DB")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "scenario config file (default: built-in scenario)")
}

func loadScenario() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(configPath)
}

func openStore() (*ledger.SQLite, error) {
	store, err := ledger.NewSQLite(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return store, nil
}

func openEngine() (*ledger.SQLite, *sim.Engine, error) {
	cfg, err := loadScenario()
	if err != nil {
		return nil, nil, err
	}
	store, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	opts, err := config.EngineOptions(cfg)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return store, sim.NewEngine(store, opts...), nil
}
