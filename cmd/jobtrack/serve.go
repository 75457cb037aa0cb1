package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jordan/jobtrack/internal/config"
	"github.com/jordan/jobtrack/internal/server"
)

var (
	serveConfigPath string
	servePort       int
	serveEnforce    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for ingesting, scoring and tracking job postings.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to JSON config file")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().BoolVar(&serveEnforce, "enforce-transitions", false, "Reject status updates that skip lifecycle stages")
	rootCmd.AddCommand(serveCmd)
}

func loadConfig() (config.Config, error) {
	cfg := &config.Config{}
	if serveConfigPath != "" {
		loaded, err := config.LoadConfig(serveConfigPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	cfg.FromEnv()
	merged := cfg.MergeWithDefaults(config.Defaults())

	if servePort != 0 {
		merged.Port = servePort
	}
	if serveEnforce {
		merged.EnforceTransitions = true
	}

	if err := merged.Validate(); err != nil {
		return config.Config{}, err
	}
	return merged, nil
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		Port:               cfg.Port,
		DBPath:             cfg.DBPath,
		DocsDir:            cfg.DocsDir,
		BaseResume:         cfg.BaseResume,
		ProfilePath:        cfg.Profile,
		EnforceTransitions: cfg.EnforceTransitions,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
