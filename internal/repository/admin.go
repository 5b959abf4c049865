package repository

import (
	"context"
	"errors"
	"time"

	"spincat/internal/models"
	"spincat/internal/observability"

	"gorm.io/gorm"
)

// ErrDuplicateAdmin is returned when the username is already taken.
var ErrDuplicateAdmin = errors.New("admin username already exists")

// AdminRepository defines the interface for admin account operations
type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByID(ctx context.Context, id uint) (*models.Admin, error)
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
	List(ctx context.Context) ([]models.Admin, error)
	UpdatePassword(ctx context.Context, id uint, hash string) error
}

type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Create(ctx context.Context, admin *models.Admin) error {
	defer observability.TrackQuery("create", "admins")()
	if err := r.db.WithContext(ctx).Create(admin).Error; err != nil {
		if isUniqueConstraintError(err) {
			return ErrDuplicateAdmin
		}
		return err
	}
	return nil
}

func (r *adminRepository) GetByID(ctx context.Context, id uint) (*models.Admin, error) {
	defer observability.TrackQuery("get", "admins")()
	var admin models.Admin
	if err := r.db.WithContext(ctx).First(&admin, id).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	defer observability.TrackQuery("get_by_username", "admins")()
	var admin models.Admin
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepository) List(ctx context.Context) ([]models.Admin, error) {
	defer observability.TrackQuery("list", "admins")()
	var admins []models.Admin
	err := r.db.WithContext(ctx).Order("username ASC").Find(&admins).Error
	return admins, err
}

func (r *adminRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	defer observability.TrackQuery("update_password", "admins")()
	res := r.db.WithContext(ctx).Model(&models.Admin{}).Where("id = ?", id).Update("password_hash", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SessionRepository persists admin bearer sessions. Sessions are never updated.
type SessionRepository interface {
	Create(ctx context.Context, session *models.AdminSession) error
	FindActive(ctx context.Context, token string, now time.Time) (*models.AdminSession, error)
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *models.AdminSession) error {
	defer observability.TrackQuery("create", "admin_sessions")()
	return r.db.WithContext(ctx).Omit("Admin").Create(session).Error
}

// FindActive returns the session holding token if it expires after now.
func (r *sessionRepository) FindActive(ctx context.Context, token string, now time.Time) (*models.AdminSession, error) {
	defer observability.TrackQuery("find_active", "admin_sessions")()
	var session models.AdminSession
	err := r.db.WithContext(ctx).
		Preload("Admin").
		Where("token = ? AND expires_at > ?", token, now).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// PurgeExpired deletes sessions past their expiry. Only the admin CLI calls it.
func (r *sessionRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	defer observability.TrackQuery("purge", "admin_sessions")()
	res := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&models.AdminSession{})
	return res.RowsAffected, res.Error
}
