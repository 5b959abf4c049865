package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"spincat/internal/models"
	"spincat/internal/observability"
	"spincat/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// dummyHash is compared against when the username is unknown so both failure
// paths cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("spincat-dummy-password"), bcrypt.DefaultCost)

// AuthConfig holds token signing parameters.
type AuthConfig struct {
	Secret     string
	Issuer     string
	Audience   string
	SessionTTL time.Duration
}

type AuthService struct {
	adminRepo   repository.AdminRepository
	sessionRepo repository.SessionRepository
	cfg         AuthConfig
	now         func() time.Time
}

// LoginResult is returned to the client after a successful login.
type LoginResult struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expiresAt"`
	Admin     *models.Admin `json:"admin"`
}

func NewAuthService(
	adminRepo repository.AdminRepository,
	sessionRepo repository.SessionRepository,
	cfg AuthConfig,
) *AuthService {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	return &AuthService{
		adminRepo:   adminRepo,
		sessionRepo: sessionRepo,
		cfg:         cfg,
		now:         time.Now,
	}
}

// WithClock replaces the time source used for token claims and session expiry.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

func invalidCredentials() error {
	return models.NewUnauthorizedError("Invalid credentials")
}

func unauthorized() error {
	return models.NewUnauthorizedError("Unauthorized")
}

// Login verifies credentials and opens a new session. Every credential failure,
// including an empty field, gets the same 401.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)

	ctx, span := observability.StartSpan(ctx, "auth.login")
	var err error
	defer func() { observability.EndSpan(span, err) }()

	if username == "" || password == "" {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		observability.AdminLogins.WithLabelValues("rejected").Inc()
		err = invalidCredentials()
		return nil, err
	}

	admin, err := s.adminRepo.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			observability.AdminLogins.WithLabelValues("error").Inc()
			err = storageError(ctx, "load admin", err)
			return nil, err
		}
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		observability.AdminLogins.WithLabelValues("rejected").Inc()
		err = invalidCredentials()
		return nil, err
	}

	if cmpErr := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); cmpErr != nil {
		observability.AdminLogins.WithLabelValues("rejected").Inc()
		err = invalidCredentials()
		return nil, err
	}

	now := s.now().UTC()
	expiresAt := now.Add(s.cfg.SessionTTL)
	token, err := s.signToken(admin.ID, now, expiresAt)
	if err != nil {
		observability.AdminLogins.WithLabelValues("error").Inc()
		err = models.NewInternalError(err)
		return nil, err
	}

	session := &models.AdminSession{
		AdminID:   admin.ID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}
	if err = s.sessionRepo.Create(ctx, session); err != nil {
		observability.AdminLogins.WithLabelValues("error").Inc()
		err = storageError(ctx, "create session", err)
		return nil, err
	}

	observability.AdminLogins.WithLabelValues("success").Inc()
	return &LoginResult{Token: token, ExpiresAt: expiresAt, Admin: admin}, nil
}

func (s *AuthService) signToken(adminID uint, now, expiresAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(adminID), 10),
		Issuer:    s.cfg.Issuer,
		Audience:  jwt.ClaimStrings{s.cfg.Audience},
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		ID:        uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Authenticate returns the admin id behind token. The signature and claims must
// verify and a live session must hold the exact token string.
func (s *AuthService) Authenticate(ctx context.Context, token string) (uint, error) {
	if token == "" {
		return 0, unauthorized()
	}
	now := s.now().UTC()

	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	},
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithAudience(s.cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil || !parsed.Valid {
		return 0, unauthorized()
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return 0, unauthorized()
	}
	adminID, err := strconv.ParseUint(claims.Subject, 10, 32)
	if err != nil || adminID == 0 {
		return 0, unauthorized()
	}

	session, err := s.sessionRepo.FindActive(ctx, token, now)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, storageError(ctx, "find session", err)
		}
		return 0, unauthorized()
	}
	if session.AdminID != uint(adminID) {
		return 0, unauthorized()
	}

	return session.AdminID, nil
}

// Admin returns the profile of an authenticated admin.
func (s *AuthService) Admin(ctx context.Context, adminID uint) (*models.Admin, error) {
	admin, err := s.adminRepo.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Admin", adminID)
		}
		return nil, storageError(ctx, "load admin", err)
	}
	return admin, nil
}
