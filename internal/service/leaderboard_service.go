package service

import (
	"context"
	"math"
	"strings"
	"time"

	"spincat/internal/models"
	"spincat/internal/repository"
	"spincat/internal/validation"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

type LeaderboardService struct {
	scoreRepo repository.ScoreRepository
	now       func() time.Time
}

// SubmitScoreInput uses pointers so that an explicit zero is distinguishable
// from a missing field.
type SubmitScoreInput struct {
	PlayerName       *string  `json:"playerName"`
	Score            *int     `json:"score"`
	Time             *float64 `json:"time"`
	LettersPerSecond *float64 `json:"lettersPerSecond"`
	Mistakes         *int     `json:"mistakes"`
}

func NewLeaderboardService(scoreRepo repository.ScoreRepository) *LeaderboardService {
	return &LeaderboardService{scoreRepo: scoreRepo, now: time.Now}
}

// WithClock replaces the time source used for created_at.
func (s *LeaderboardService) WithClock(now func() time.Time) *LeaderboardService {
	s.now = now
	return s
}

func (s *LeaderboardService) SubmitScore(ctx context.Context, in SubmitScoreInput) (*models.Score, error) {
	if in.PlayerName == nil || in.Score == nil || in.Time == nil || in.LettersPerSecond == nil || in.Mistakes == nil {
		return nil, models.NewValidationError("playerName, score, time, lettersPerSecond and mistakes are required")
	}

	name := strings.TrimSpace(*in.PlayerName)
	if err := validation.ValidatePlayerName(name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if *in.Score < 0 || *in.Mistakes < 0 {
		return nil, models.NewValidationError("score and mistakes must not be negative")
	}
	if !finiteNonNegative(*in.Time) || !finiteNonNegative(*in.LettersPerSecond) {
		return nil, models.NewValidationError("time and lettersPerSecond must be non-negative numbers")
	}

	score := &models.Score{
		PlayerName:       name,
		Score:            *in.Score,
		Time:             *in.Time,
		LettersPerSecond: *in.LettersPerSecond,
		Mistakes:         *in.Mistakes,
		CreatedAt:        s.now().UTC(),
	}
	if err := s.scoreRepo.Create(ctx, score); err != nil {
		return nil, storageError(ctx, "create score", err)
	}
	return score, nil
}

func finiteNonNegative(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f >= 0
}

// Leaderboard returns the best run of each player.
func (s *LeaderboardService) Leaderboard(ctx context.Context, limit int) ([]models.Score, error) {
	scores, err := s.scoreRepo.Leaderboard(ctx, clampLimit(limit))
	if err != nil {
		return nil, storageError(ctx, "leaderboard", err)
	}
	if scores == nil {
		scores = []models.Score{}
	}
	return scores, nil
}

// PlayerHistory returns the most recent runs of one player.
func (s *LeaderboardService) PlayerHistory(ctx context.Context, playerName string, limit int) ([]models.Score, error) {
	name := strings.TrimSpace(playerName)
	if err := validation.ValidatePlayerName(name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	scores, err := s.scoreRepo.ListByPlayer(ctx, name, clampLimit(limit))
	if err != nil {
		return nil, storageError(ctx, "player history", err)
	}
	if scores == nil {
		scores = []models.Score{}
	}
	return scores, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		return maxLeaderboardLimit
	}
	return limit
}
