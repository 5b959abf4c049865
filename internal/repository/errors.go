package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicateMeme is returned when a meme with the same platform and video id already exists.
var ErrDuplicateMeme = errors.New("meme already exists for this platform and video id")

const pgUniqueViolation = "23505"

// isUniqueConstraintError recognizes unique violations from Postgres and SQLite,
// whether or not GORM translated them.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, pgUniqueViolation)
}

func isPostgres(db *gorm.DB) bool {
	return db.Dialector.Name() == "postgres"
}
