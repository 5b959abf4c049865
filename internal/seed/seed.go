// Package seed loads demo data: curated memes from an embedded fixture plus
// generated memes and leaderboard runs.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"spincat/internal/middleware"
	"spincat/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Options configures a seeding run.
type Options struct {
	// Memes is the number of generated memes on top of the fixtures.
	Memes int
	// Players and RunsPerPlayer size the generated leaderboard.
	Players       int
	RunsPerPlayer int
	MaxDays       int
	// Seed makes generated data repeatable. Zero uses the current time.
	Seed        int64
	ShouldClean bool
	BatchSize   int
}

// Result counts the rows written.
type Result struct {
	Fixtures int
	Memes    int
	Scores   int
}

// Seeder writes demo data.
type Seeder struct {
	db   *gorm.DB
	opts Options
	now  func() time.Time
}

// NewSeeder returns a seeder bound to db.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	if opts.RunsPerPlayer <= 0 {
		opts.RunsPerPlayer = 3
	}
	return &Seeder{db: db, opts: opts, now: time.Now}
}

// Run cleans (when asked), then loads fixtures and generated rows. Memes whose
// platform and video id already exist are skipped, so Run can be repeated.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	now := s.now().UTC()
	seed := s.opts.Seed
	if seed == 0 {
		seed = now.UnixNano()
	}

	if s.opts.ShouldClean {
		if err := s.Clean(ctx); err != nil {
			return nil, err
		}
	}

	res := &Result{}
	fixtures, err := LoadFixtures()
	if err != nil {
		return nil, err
	}
	memes := make([]*models.Meme, 0, len(fixtures)+s.opts.Memes)
	for _, f := range fixtures {
		m, err := f.Meme(now)
		if err != nil {
			return nil, fmt.Errorf("fixture %s/%s: %w", f.Platform, f.VideoID, err)
		}
		memes = append(memes, m)
	}
	if res.Fixtures, err = s.insertMemes(ctx, memes); err != nil {
		return nil, err
	}

	factory := NewFactory(seed, now, s.opts.MaxDays)
	generated := make([]*models.Meme, 0, s.opts.Memes)
	for i := 0; i < s.opts.Memes; i++ {
		generated = append(generated, factory.BuildMeme())
	}
	if res.Memes, err = s.insertMemes(ctx, generated); err != nil {
		return nil, err
	}

	scores := make([]*models.Score, 0, s.opts.Players*s.opts.RunsPerPlayer)
	for i := 0; i < s.opts.Players; i++ {
		player := factory.PlayerName()
		for j := 0; j < s.opts.RunsPerPlayer; j++ {
			scores = append(scores, factory.BuildScore(player))
		}
	}
	if len(scores) > 0 {
		if err := s.db.WithContext(ctx).CreateInBatches(scores, s.opts.BatchSize).Error; err != nil {
			return nil, fmt.Errorf("insert scores: %w", err)
		}
	}
	res.Scores = len(scores)

	middleware.Logger.InfoContext(ctx, "seed complete",
		slog.Int("fixtures", res.Fixtures),
		slog.Int("memes", res.Memes),
		slog.Int("scores", res.Scores),
	)
	return res, nil
}

func (s *Seeder) insertMemes(ctx context.Context, memes []*models.Meme) (int, error) {
	if len(memes) == 0 {
		return 0, nil
	}
	tx := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "platform"}, {Name: "video_id"}},
			DoNothing: true,
		}).
		CreateInBatches(memes, s.opts.BatchSize)
	if tx.Error != nil {
		return 0, fmt.Errorf("insert memes: %w", tx.Error)
	}
	return int(tx.RowsAffected), nil
}

// Clean removes every meme and score. Admin accounts and sessions are kept.
func (s *Seeder) Clean(ctx context.Context) error {
	db := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	if err := db.Delete(&models.Meme{}).Error; err != nil {
		return fmt.Errorf("clean memes: %w", err)
	}
	if err := db.Delete(&models.Score{}).Error; err != nil {
		return fmt.Errorf("clean scores: %w", err)
	}
	return nil
}
