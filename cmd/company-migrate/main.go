// Command company-migrate applies or reverts the company schema.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/gartstein/companies/internal/company/config"
	"github.com/gartstein/companies/internal/company/db/migrations"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	defer func() {
		_ = logger.Sync()
	}()

	if err := newRootCommand(os.Stdout, logger).Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	databaseURL string
	configPath  string
}

func newRootCommand(out io.Writer, logger *zap.Logger) *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "company-migrate",
		Short: "Manage the company database schema",
		Example: "  company-migrate up\n" +
			"  company-migrate --database-url sqlite3://companies.db version\n" +
			"  company-migrate down",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.databaseURL, "database-url", "",
		"postgres:// or sqlite3:// URL (defaults to the service config)")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"path to the service config file")
	cmd.SetOut(out)

	cmd.AddCommand(
		newUpCommand(opts, logger),
		newDownCommand(opts, logger),
		newVersionCommand(opts, logger),
	)
	return cmd
}

func newUpCommand(opts *rootOptions, logger *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(opts, logger, func(m *migrations.Migrator) error {
				if err := m.Up(); err != nil {
					return err
				}
				return printVersion(cmd.OutOrStdout(), m)
			})
		},
	}
}

func newDownCommand(opts *rootOptions, logger *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Revert all applied migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(opts, logger, func(m *migrations.Migrator) error {
				if err := m.Down(); err != nil {
					return err
				}
				return printVersion(cmd.OutOrStdout(), m)
			})
		},
	}
}

func newVersionCommand(opts *rootOptions, logger *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(opts, logger, func(m *migrations.Migrator) error {
				return printVersion(cmd.OutOrStdout(), m)
			})
		},
	}
}

func withMigrator(opts *rootOptions, logger *zap.Logger, fn func(*migrations.Migrator) error) error {
	url := opts.databaseURL
	if url == "" {
		cfg, err := config.Load(opts.configPath)
		if err != nil {
			return err
		}
		url = cfg.Database().MigrationURL()
	}

	m, err := migrations.New(url, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			logger.Warn("failed to close migrator", zap.Error(err))
		}
	}()
	return fn(m)
}

func printVersion(out io.Writer, m *migrations.Migrator) error {
	version, dirty, ok, err := m.Version()
	if err != nil {
		return err
	}
	if !ok {
		_, err = fmt.Fprintln(out, "version=none")
		return err
	}
	_, err = fmt.Fprintf(out, "version=%d dirty=%t\n", version, dirty)
	return err
}
