package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ogurasousui/karyawan-web/internal/platform/config"
	"github.com/ogurasousui/karyawan-web/internal/platform/logger"
)

type options struct {
	configPath    string
	migrationsDir string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		log.Fatal().Err(err).Msg("migrate failed")
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the employees database schema and sample data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
	root.PersistentFlags().StringVar(&opts.migrationsDir, "dir", "assets/migrations", "directory containing migration files")

	root.AddCommand(
		newMigrationCommand(opts, "up", "Apply all pending migrations"),
		newMigrationCommand(opts, "down", "Roll back all migrations"),
		newMigrationCommand(opts, "drop", "Drop everything in the database"),
		newMigrationCommand(opts, "version", "Print the current migration version"),
		newSeedCommand(opts),
	)
	return root
}

func (o *options) loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(effectiveConfigPath(o.configPath))
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	l, _, err := logger.New(config.LogConfig{Level: cfg.Log.Level, Format: "console"})
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, l, nil
}

func effectiveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		return env
	}
	return "assets/local.yaml"
}
