package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plenggn/TalentMatch/internal/config"
	"github.com/plenggn/TalentMatch/internal/server"
)

var (
	servePort       string
	serveConfigPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the matching, drafting, chat, and extraction endpoints plus applicant and job CRUD.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (overrides PORT)")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to JSON config file")
	rootCmd.AddCommand(serveCmd)
}

// loadConfig merges, in order of precedence: flags, environment, config
// file, built-in defaults.
func loadConfig() (config.Config, error) {
	cfg := config.FromEnv()

	if serveConfigPath != "" {
		fileCfg, err := config.LoadFile(serveConfigPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
	}
	cfg = cfg.MergeWithDefaults(config.Defaults())

	if servePort != "" {
		cfg.Port = servePort
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
