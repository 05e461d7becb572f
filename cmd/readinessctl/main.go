// Command readinessctl runs operator tasks against the readiness database.
package main

import (
	"fmt"
	"os"

	"roleready/internal/app"
	"roleready/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "readinessctl",
	Short:         "Operator tooling for the readiness service",
	Long:          "readinessctl applies migrations, seeds the catalog and recalculates readiness for a user without going through the HTTP API.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openContainer builds the container without the startup migrations and
// seeders so each subcommand controls what runs.
func openContainer() (*app.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.Database.RunMigrations = false
	cfg.Database.RunSeeders = false

	c, err := app.NewContainer(cfg)
	if err != nil {
		return nil, fmt.Errorf("init container: %w", err)
	}
	return c, nil
}
