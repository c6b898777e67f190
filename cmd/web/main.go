package main

import (
	"context"
	"fmt"
	"os"

	"github.com/de-tools/finops-agent/pkg/server"
	"github.com/de-tools/finops-agent/pkg/services/config"
	"github.com/de-tools/finops-agent/pkg/services/registry"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	envPath string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the FinAI web server",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to an optional YAML configuration file")
	rootCmd.Flags().StringVar(&envPath, "env-file", ".env", "Path to a .env file loaded before the environment")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(envPath); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Log.Level)
	ctx := logger.WithContext(cmd.Context())

	if err := validateProfile(ctx, cfg.AWS.Profile); err != nil {
		return err
	}

	clients, err := registry.NewClients(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to configure AWS: %w", err)
	}

	services, err := registry.New(cfg, clients)
	if err != nil {
		return fmt.Errorf("failed to create services: %w", err)
	}

	logger.Info().
		Str("model_id", services.Agent.ModelID()).
		Strs("tools", services.Agent.Tools()).
		Msg("agent ready")

	api := server.NewWebAPI(server.Config{
		Addr: cfg.Addr(),
		Dependencies: server.Dependencies{
			Analyst: services.Analyst,
			Advisor: services.Advisor,
			Hub:     services.Hub,
			Spend:   services.Spend,
			Avatar:  services.Avatar,
			Logger:  logger,
		},
	})

	return api.Start()
}

func validateProfile(ctx context.Context, profile string) error {
	profiles, err := config.NewRegistry(config.DefaultProfilePaths())
	if err != nil {
		return fmt.Errorf("failed to read AWS profiles: %w", err)
	}
	return config.ValidateProfile(ctx, profiles, profile)
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger()
}
