package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jordan/jobtrack/internal/config"
	"github.com/jordan/jobtrack/internal/store"
)

var initdbConfigPath string

var initdbCmd = &cobra.Command{
	Use:   "initdb",
	Short: "Create or migrate the database schema",
	RunE:  runInitdb,
}

func init() {
	initdbCmd.Flags().StringVar(&initdbConfigPath, "config", "", "Path to JSON config file")
	rootCmd.AddCommand(initdbCmd)
}

func runInitdb(cmd *cobra.Command, _ []string) error {
	cfg := &config.Config{}
	if initdbConfigPath != "" {
		loaded, err := config.LoadConfig(initdbConfigPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg.FromEnv()
	merged := cfg.MergeWithDefaults(config.Defaults())

	st, err := store.Open(merged.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer st.Close()

	if err := st.Migrate(context.Background()); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Printf("Database ready at %s\n", merged.DBPath)
	return nil
}
