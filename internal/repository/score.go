package repository

import (
	"context"

	"spincat/internal/models"
	"spincat/internal/observability"

	"gorm.io/gorm"
)

// ScoreRepository defines the interface for typing-game score operations
type ScoreRepository interface {
	Create(ctx context.Context, score *models.Score) error
	Leaderboard(ctx context.Context, limit int) ([]models.Score, error)
	ListByPlayer(ctx context.Context, playerName string, limit int) ([]models.Score, error)
}

type scoreRepository struct {
	db *gorm.DB
}

// NewScoreRepository creates a new score repository
func NewScoreRepository(db *gorm.DB) ScoreRepository {
	return &scoreRepository{db: db}
}

func (r *scoreRepository) Create(ctx context.Context, score *models.Score) error {
	defer observability.TrackQuery("create", "scores")()
	return r.db.WithContext(ctx).Create(score).Error
}

// bestRowPerPlayer keeps a row only when no other row of the same player ranks above it.
const bestRowPerPlayer = `NOT EXISTS (
	SELECT 1 FROM scores b
	WHERE b.player_name = s.player_name
	AND (b.score > s.score
		OR (b.score = s.score AND b.time < s.time)
		OR (b.score = s.score AND b.time = s.time AND b.id < s.id))
)`

// Leaderboard returns each player's best run, highest score first and faster time on ties.
func (r *scoreRepository) Leaderboard(ctx context.Context, limit int) ([]models.Score, error) {
	defer observability.TrackQuery("leaderboard", "scores")()
	var scores []models.Score
	err := r.db.WithContext(ctx).
		Table("scores AS s").
		Select("s.*").
		Where(bestRowPerPlayer).
		Order("s.score DESC").
		Order("s.time ASC").
		Order("s.id ASC").
		Limit(limit).
		Find(&scores).Error
	return scores, err
}

func (r *scoreRepository) ListByPlayer(ctx context.Context, playerName string, limit int) ([]models.Score, error) {
	defer observability.TrackQuery("list_by_player", "scores")()
	var scores []models.Score
	err := r.db.WithContext(ctx).
		Where("player_name = ?", playerName).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&scores).Error
	return scores, err
}
