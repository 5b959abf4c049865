// Command migrate inspects and applies the meme store schema.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"spincat/internal/config"
	"spincat/internal/database"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

type app struct {
	cfg  *config.Config
	open func(cfg *config.Config) (*gorm.DB, error)
}

func main() {
	a := &app{open: database.Open}
	if err := newRootCmd(a).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Manage the spincat database schema",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg != nil {
				return nil
			}
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			a.cfg = cfg
			return nil
		},
	}
	root.AddCommand(a.upCmd(), a.autoCmd(), a.statusCmd(), a.downCmd())
	return root
}

func (a *app) db() (*gorm.DB, error) {
	db, err := a.open(a.cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return db, nil
}

func (a *app) upCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply pending SQL migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := a.db()
			if err != nil {
				return err
			}
			if err := database.RunMigrations(cmd.Context(), db); err != nil {
				return fmt.Errorf("sql migrations failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "sql migrations applied")
			return nil
		},
	}
}

func (a *app) autoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auto",
		Short: "Create or update tables with GORM AutoMigrate (refused in production)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := a.db()
			if err != nil {
				return err
			}
			cfg := *a.cfg
			cfg.DBSchemaMode = database.SchemaModeAuto
			if err := database.ApplySchema(cmd.Context(), db, &cfg); err != nil {
				return fmt.Errorf("auto schema apply failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "automigrations applied")
			return nil
		},
	}
}

func (a *app) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the schema plan, pending migrations and missing tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := a.db()
			if err != nil {
				return err
			}
			return printStatus(cmd, db, a.cfg)
		},
	}
}

func printStatus(cmd *cobra.Command, db *gorm.DB, cfg *config.Config) error {
	status, err := database.GetSchemaStatus(cmd.Context(), db, cfg)
	if err != nil {
		return fmt.Errorf("schema status failed: %w", err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "mode=%s env=%s run_sql=%t run_auto=%t applied=%d pending=%d\n",
		status.Mode, status.Environment, status.WillRunSQL, status.WillRunAutoMigrate,
		len(status.AppliedVersions), len(status.PendingMigrations))
	for _, m := range status.PendingMigrations {
		fmt.Fprintf(out, "pending: %s\n", m.String())
	}
	for _, table := range status.MissingTables {
		fmt.Fprintf(out, "missing table: %s\n", table)
	}
	return nil
}

func (a *app) downCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down [version]",
		Short: "Roll back one migration (the latest when no version is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version := 0
			if len(args) == 1 {
				v, err := strconv.Atoi(args[0])
				if err != nil || v <= 0 {
					return fmt.Errorf("invalid version %q", args[0])
				}
				version = v
			}
			db, err := a.db()
			if err != nil {
				return err
			}
			m, err := database.RollbackMigration(cmd.Context(), db, version)
			if err != nil {
				return fmt.Errorf("rollback failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rolled back migration %s\n", m.String())
			return nil
		},
	}
}
