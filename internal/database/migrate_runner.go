package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"spincat/internal/middleware"

	"gorm.io/gorm"
)

// MigrationLog is one applied migration, stored in migration_logs.
type MigrationLog struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:255;not null"`
	AppliedAt time.Time `gorm:"autoCreateTime;index:idx_migration_logs_applied_at"`
}

// TableName returns the database table name for MigrationLog.
func (MigrationLog) TableName() string {
	return "migration_logs"
}

// migrator applies a fixed, version-ordered set of migrations and keeps
// migration_logs in step with the schema.
type migrator struct {
	db  *gorm.DB
	set []Migration
}

func newMigrator(db *gorm.DB, set []Migration) *migrator {
	return &migrator{db: db, set: set}
}

func (m *migrator) ensureLog(ctx context.Context) error {
	if err := m.db.WithContext(ctx).AutoMigrate(&MigrationLog{}); err != nil {
		return fmt.Errorf("ensure migration_logs: %w", err)
	}
	return nil
}

// applied returns recorded versions in ascending order. A missing log table
// means nothing has been applied yet.
func (m *migrator) applied(ctx context.Context) ([]int, error) {
	var versions []int
	err := m.db.WithContext(ctx).Model(&MigrationLog{}).Order("version ASC").Pluck("version", &versions).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || isMissingTableError(err) {
			return []int{}, nil
		}
		return nil, fmt.Errorf("read migration_logs: %w", err)
	}
	return versions, nil
}

func (m *migrator) find(version int) *Migration {
	for i := range m.set {
		if m.set[i].Version == version {
			return &m.set[i]
		}
	}
	return nil
}

func (m *migrator) pending(applied []int) []Migration {
	done := make(map[int]struct{}, len(applied))
	for _, v := range applied {
		done[v] = struct{}{}
	}
	var out []Migration
	for _, mig := range m.set {
		if _, ok := done[mig.Version]; !ok {
			out = append(out, mig)
		}
	}
	return out
}

// up runs every pending migration. Each script and its log row commit together.
func (m *migrator) up(ctx context.Context) (int, error) {
	if err := m.ensureLog(ctx); err != nil {
		return 0, err
	}
	applied, err := m.applied(ctx)
	if err != nil {
		return 0, err
	}
	if err := validateAppliedVersions(applied, m.set); err != nil {
		return 0, err
	}

	count := 0
	for _, mig := range m.pending(applied) {
		middleware.Logger.Info("Applying migration", slog.Int("version", mig.Version), slog.String("name", mig.Name))
		err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(mig.UpScript).Error; err != nil {
				return fmt.Errorf("apply migration %s: %w", mig.String(), err)
			}
			return tx.Create(&MigrationLog{Version: mig.Version, Name: mig.Name}).Error
		})
		if err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// down reverts one applied migration. Version 0 selects the most recent one.
func (m *migrator) down(ctx context.Context, version int) (*Migration, error) {
	applied, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}
	if len(applied) == 0 {
		return nil, errors.New("no migrations have been applied")
	}
	if version == 0 {
		version = applied[len(applied)-1]
	}

	mig := m.find(version)
	if mig == nil {
		return nil, fmt.Errorf("migration version %d not found", version)
	}
	if i := sort.SearchInts(applied, version); i == len(applied) || applied[i] != version {
		return nil, fmt.Errorf("migration %d has not been applied", version)
	}

	middleware.Logger.Info("Rolling back migration", slog.Int("version", version), slog.String("name", mig.Name))
	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(mig.DownScript).Error; err != nil {
			return fmt.Errorf("roll back migration %s: %w", mig.String(), err)
		}
		return tx.Where("version = ?", version).Delete(&MigrationLog{}).Error
	})
	if err != nil {
		return nil, err
	}
	return mig, nil
}

func isMissingTableError(err error) bool {
	msg := err.Error()
	return (strings.Contains(msg, "relation") && strings.Contains(msg, "does not exist")) ||
		strings.Contains(msg, "no such table")
}

// validateAppliedVersions fails when the log holds versions this build does not know,
// which happens when an older binary runs against a newer schema.
func validateAppliedVersions(applied []int, registered []Migration) error {
	known := make(map[int]struct{}, len(registered))
	for _, m := range registered {
		known[m.Version] = struct{}{}
	}

	var unknown []string
	for _, version := range applied {
		if _, ok := known[version]; !ok {
			unknown = append(unknown, fmt.Sprintf("%06d", version))
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("migration_logs contains unknown versions not present in code: %s", strings.Join(unknown, ", "))
}

// RunMigrations applies every embedded migration not yet recorded in migration_logs.
func RunMigrations(ctx context.Context, db *gorm.DB) error {
	n, err := newMigrator(db, migrations).up(ctx)
	if err != nil {
		return err
	}
	middleware.Logger.Info("SQL migrations complete", slog.Int("applied", n))
	return nil
}

// RollbackMigration reverts the given migration, or the latest applied one when version is 0.
func RollbackMigration(ctx context.Context, db *gorm.DB, version int) (*Migration, error) {
	return newMigrator(db, migrations).down(ctx, version)
}
