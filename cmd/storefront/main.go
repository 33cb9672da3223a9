package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/storefront/config"

	// Register the schema migrations.
	_ "github.com/shashiranjanraj/storefront/database/migrations"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	configPath string
	envPath    string
)

var rootCmd = &cobra.Command{
	Use:          "storefront",
	Short:        "Storefront: multi-vendor catalog and checkout service",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.LoadFrom(configPath, envPath)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/app.json", "JSON config file")
	rootCmd.PersistentFlags().StringVar(&envPath, "env", ".env", "dotenv file")

	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	// Database
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	// Catalog
	rootCmd.AddCommand(catalogImportCmd)
	rootCmd.AddCommand(catalogExportCmd)

	// Accounts
	rootCmd.AddCommand(userCreateCmd)
	rootCmd.AddCommand(userTokenCmd)
}
