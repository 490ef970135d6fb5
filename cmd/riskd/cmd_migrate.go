package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	pkgpostgres "github.com/fundchain/riskd/pkg/postgres"
)

func newMigrateCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the assessment database schema",
		Long: `Apply or roll back the assessment schema in DATABASE_URL using the
migrations at MIGRATIONS_PATH.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(root, func(m *pkgpostgres.Migrator) error {
				if err := m.Up(); err != nil {
					return err
				}
				return printVersion(cmd, m)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down N",
		Short: "Roll back the last N migrations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("N must be a positive integer, got %q", args[0])
			}
			return withMigrator(root, func(m *pkgpostgres.Migrator) error {
				if err := m.Down(n); err != nil {
					return err
				}
				return printVersion(cmd, m)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(root, func(m *pkgpostgres.Migrator) error {
				return printVersion(cmd, m)
			})
		},
	})

	return cmd
}

func withMigrator(root *rootOptions, fn func(*pkgpostgres.Migrator) error) error {
	cfg, err := root.load()
	if err != nil {
		return err
	}
	if !cfg.RecordingEnabled() {
		return fmt.Errorf("DATABASE_URL is required")
	}

	m, err := pkgpostgres.NewMigrator(cfg.MigrationsPath, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer m.Close()

	return fn(m)
}

func printVersion(cmd *cobra.Command, m *pkgpostgres.Migrator) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty: %t)\n", version, dirty)
	return nil
}
