package main

import (
	"context"

	"fillai-backend/infrastructure/config"
	"fillai-backend/infrastructure/di"

	"github.com/spf13/cobra"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configDir   string
	environment string
}

func rootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "fillai",
		Short:         "Fill AI course platform backend",
		Long:          "Runs the Fill AI API server and offers offline tools for the knowledge graph and course generation.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", config.Dir(), "directory holding the YAML configuration")
	root.PersistentFlags().StringVar(&flags.environment, "env", string(config.CurrentEnvironment()), "environment: development, staging or production")

	root.AddCommand(
		serveCmd(flags),
		layoutCmd(flags),
		generateCmd(flags),
	)
	return root
}

func (f *globalFlags) loader() *config.Loader {
	return config.NewLoader(f.configDir, config.Environment(f.environment))
}

// offlineContainer builds an application on in-memory storage with metrics
// and event publishing switched off. Nothing it does outlives the command.
func (f *globalFlags) offlineContainer(ctx context.Context, adjust func(*config.Config)) (*di.Container, func(), error) {
	cfg, err := f.loader().Load()
	if err != nil {
		return nil, nil, err
	}
	cfg.Storage.Backend = config.StorageMemory
	cfg.Metrics.Enabled = false
	cfg.Events.Enabled = false
	if adjust != nil {
		adjust(cfg)
	}
	return di.InitializeContainer(ctx, cfg)
}
