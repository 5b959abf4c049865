package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"spincat/internal/config"
	"spincat/internal/middleware"

	"gorm.io/gorm"
)

// Values accepted by DB_SCHEMA_MODE.
const (
	SchemaModeHybrid = "hybrid"
	SchemaModeSQL    = "sql"
	SchemaModeAuto   = "auto"
)

// schemaPlan is what ApplySchema will do for a given mode and environment.
type schemaPlan struct {
	Mode    string
	SQL     bool
	Auto    bool
	ProdEnv bool
}

// SchemaStatus reports the plan for the current config plus what the database already holds.
type SchemaStatus struct {
	Mode               string
	Environment        string
	WillRunSQL         bool
	WillRunAutoMigrate bool
	AppliedVersions    []int
	PendingMigrations  []Migration
	MissingTables      []string
}

// prod-like environments never let GORM alter the schema.
func isProdLikeEnv(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "production", "prod", "staging", "stage":
		return true
	}
	return false
}

func planSchema(cfg *config.Config) (schemaPlan, error) {
	plan := schemaPlan{
		Mode:    strings.ToLower(strings.TrimSpace(cfg.DBSchemaMode)),
		ProdEnv: isProdLikeEnv(cfg.Env),
	}
	if plan.Mode == "" {
		plan.Mode = SchemaModeHybrid
	}

	switch plan.Mode {
	case SchemaModeSQL:
		plan.SQL = true
	case SchemaModeAuto:
		if plan.ProdEnv {
			return plan, fmt.Errorf("refusing DB_SCHEMA_MODE=auto in %q", cfg.Env)
		}
		plan.Auto = true
	case SchemaModeHybrid:
		plan.SQL = true
		plan.Auto = !plan.ProdEnv
	default:
		return plan, fmt.Errorf("unsupported DB_SCHEMA_MODE %q", plan.Mode)
	}
	return plan, nil
}

// AutoMigrate creates or updates the meme, admin, session and score tables with GORM.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(PersistentModels()...)
}

// ApplySchema brings db up to date using the SQL migrations, AutoMigrate, or both.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	plan, err := planSchema(cfg)
	if err != nil {
		return err
	}

	if plan.SQL {
		if err := RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("run sql migrations: %w", err)
		}
	}
	if plan.Auto {
		middleware.Logger.Info("Running GORM AutoMigrate", slog.String("mode", plan.Mode), slog.String("env", cfg.Env))
		if err := AutoMigrate(db.WithContext(ctx)); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
	}
	return nil
}

// GetSchemaStatus is read-only: it never creates the migration log.
func GetSchemaStatus(ctx context.Context, db *gorm.DB, cfg *config.Config) (*SchemaStatus, error) {
	plan, err := planSchema(cfg)
	if err != nil {
		return nil, err
	}

	status := &SchemaStatus{
		Mode:               plan.Mode,
		Environment:        cfg.Env,
		WillRunSQL:         plan.SQL,
		WillRunAutoMigrate: plan.Auto,
	}

	migrator := db.WithContext(ctx).Migrator()
	for _, table := range PersistentTables() {
		if !migrator.HasTable(table) {
			status.MissingTables = append(status.MissingTables, table)
		}
	}

	if plan.SQL {
		m := newMigrator(db, migrations)
		applied, err := m.applied(ctx)
		if err != nil {
			return nil, err
		}
		status.AppliedVersions = applied
		status.PendingMigrations = m.pending(applied)
	}
	return status, nil
}
