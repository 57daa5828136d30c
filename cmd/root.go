package cmd

import (
	"github.com/annazecevic/song-service/config"
	"github.com/annazecevic/song-service/logger"
	"github.com/spf13/cobra"
)

// flagOptions holds flag values that take precedence over the environment.
type flagOptions struct {
	seedFile string
	port     string
}

func (o *flagOptions) apply(cfg *config.Config) {
	if o.seedFile != "" {
		cfg.SeedFile = o.seedFile
	}
	if o.port != "" {
		cfg.ServerPort = o.port
	}
}

// RootCommand creates the song-service command tree. Without a sub-command it serves.
func RootCommand() *cobra.Command {
	opts := &flagOptions{}

	rootCmd := &cobra.Command{
		Use:           "song-service",
		Short:         "Seed-and-serve CRUD service for the songs collection",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), loadConfig(opts))
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.seedFile, "seed-file", "", "path to the JSON seed file (overrides SEED_FILE)")
	rootCmd.PersistentFlags().StringVar(&opts.port, "port", "", "HTTP listen port (overrides SERVER_PORT)")

	rootCmd.AddCommand(serveCommand(opts), seedCommand(opts))
	return rootCmd
}

func serveCommand(opts *flagOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Reset the collection from the seed file and serve HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), loadConfig(opts))
		},
	}
}

func seedCommand(opts *flagOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Reset the collection from the seed file and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), loadConfig(opts))
		},
	}
}

func loadConfig(opts *flagOptions) *config.Config {
	cfg := config.LoadConfig()
	opts.apply(cfg)

	logger.Init(logger.Config{
		ServiceName: "song-service",
		Environment: cfg.Environment,
		LogFilePath: cfg.LogFilePath,
		HMACKey:     cfg.LogHMACKey,
		MaxSizeMB:   cfg.LogMaxSizeMB,
		MaxBackups:  cfg.LogMaxBackups,
		MaxAgeDays:  cfg.LogMaxAgeDays,
	})
	return cfg
}
