// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"spincat/internal/models"
	"spincat/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Discovery orderings.
const (
	SortNewest   = "newest"
	SortTrending = "trending"
	SortPopular  = "popular"
)

// DiscoverQuery selects a page of approved memes.
type DiscoverQuery struct {
	Platform models.Platform // empty means any
	Since    *time.Time
	Search   string
	Sort     string
	// Now anchors the trending score.
	Now    time.Time
	Limit  int
	Offset int
}

// ReviewUpdate is the set of moderation fields written together by a review.
type ReviewUpdate struct {
	Status     models.MemeStatus
	AdminNotes *string
	ReviewedBy string
	ReviewedAt time.Time
}

// MemeRepository defines the interface for meme data operations
type MemeRepository interface {
	Create(ctx context.Context, meme *models.Meme) error
	AdjustVotes(ctx context.Context, id uint, delta int) (*models.Meme, error)
	Review(ctx context.Context, id uint, update ReviewUpdate) (*models.Meme, error)
	Discover(ctx context.Context, q DiscoverQuery) ([]models.Meme, error)
	ListByStatus(ctx context.Context, status models.MemeStatus, limit, offset int) ([]models.Meme, error)
	TagsSince(ctx context.Context, cutoff time.Time) ([][]string, error)
}

type memeRepository struct {
	db *gorm.DB
}

// NewMemeRepository creates a new meme repository
func NewMemeRepository(db *gorm.DB) MemeRepository {
	return &memeRepository{db: db}
}

// Create inserts meme. The (platform, video_id) unique index is the only duplicate check.
func (r *memeRepository) Create(ctx context.Context, meme *models.Meme) error {
	defer observability.TrackQuery("create", "memes")()
	if err := r.db.WithContext(ctx).Create(meme).Error; err != nil {
		if isUniqueConstraintError(err) {
			return ErrDuplicateMeme
		}
		return err
	}
	return nil
}

// AdjustVotes adds delta to the vote counter in a single UPDATE ... RETURNING statement.
// It returns gorm.ErrRecordNotFound when no row has that id.
func (r *memeRepository) AdjustVotes(ctx context.Context, id uint, delta int) (*models.Meme, error) {
	defer observability.TrackQuery("vote", "memes")()
	var meme models.Meme
	res := r.db.WithContext(ctx).
		Model(&meme).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		UpdateColumn("votes", gorm.Expr("votes + ?", delta))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &meme, nil
}

// Review writes all moderation fields in one UPDATE ... RETURNING statement.
func (r *memeRepository) Review(ctx context.Context, id uint, update ReviewUpdate) (*models.Meme, error) {
	defer observability.TrackQuery("review", "memes")()
	var notes any
	if update.AdminNotes != nil {
		notes = *update.AdminNotes
	}

	var meme models.Meme
	res := r.db.WithContext(ctx).
		Model(&meme).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"status":      update.Status,
			"admin_notes": notes,
			"reviewed_by": update.ReviewedBy,
			"reviewed_at": update.ReviewedAt,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &meme, nil
}

func (r *memeRepository) Discover(ctx context.Context, q DiscoverQuery) ([]models.Meme, error) {
	defer observability.TrackQuery("discover", "memes")()
	tx := r.db.WithContext(ctx).
		Model(&models.Meme{}).
		Where("status = ?", models.MemeStatusApproved)

	if q.Platform != "" {
		tx = tx.Where("platform = ?", q.Platform)
	}
	if q.Since != nil {
		tx = tx.Where("created_at >= ?", *q.Since)
	}
	if term := strings.ToLower(strings.TrimSpace(q.Search)); term != "" {
		tagSQL, tagArg := r.tagContains(term)
		tx = tx.Where("LOWER(COALESCE(description, '')) LIKE ? ESCAPE '\\' OR "+tagSQL,
			"%"+escapeLike(term)+"%", tagArg)
	}

	var memes []models.Meme
	err := r.applySort(tx, q.Sort, q.Now).
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&memes).Error
	return memes, err
}

// tagContains builds a predicate that holds when the tags array contains tag.
func (r *memeRepository) tagContains(tag string) (string, any) {
	if isPostgres(r.db) {
		raw, _ := json.Marshal([]string{tag})
		return "tags @> CAST(? AS jsonb)", string(raw)
	}
	return "EXISTS (SELECT 1 FROM json_each(memes.tags) WHERE json_each.value = ?)", tag
}

// applySort orders by the requested policy. id DESC breaks ties so pages stay disjoint.
func (r *memeRepository) applySort(tx *gorm.DB, sort string, now time.Time) *gorm.DB {
	switch sort {
	case SortTrending:
		// Elapsed time is floored at one second so new rows do not divide by zero.
		expr := "CAST(votes AS REAL) / MAX((julianday(?) - julianday(created_at)) * 86400.0, 1) DESC, id DESC"
		if isPostgres(r.db) {
			expr = "votes / GREATEST(EXTRACT(EPOCH FROM (CAST(? AS timestamptz) - created_at)), 1) DESC, id DESC"
		}
		return tx.Order(clause.OrderBy{Expression: clause.Expr{SQL: expr, Vars: []any{now}, WithoutParentheses: true}})
	case SortPopular:
		return tx.Order("votes DESC").Order("id DESC")
	default:
		return tx.Order("created_at DESC").Order("id DESC")
	}
}

// ListByStatus pages through memes in one moderation state. The pending queue is served oldest first.
func (r *memeRepository) ListByStatus(ctx context.Context, status models.MemeStatus, limit, offset int) ([]models.Meme, error) {
	defer observability.TrackQuery("list", "memes")()
	tx := r.db.WithContext(ctx).Where("status = ?", status)
	if status == models.MemeStatusPending {
		tx = tx.Order("created_at ASC").Order("id ASC")
	} else {
		tx = tx.Order("created_at DESC").Order("id DESC")
	}

	var memes []models.Meme
	err := tx.Limit(limit).Offset(offset).Find(&memes).Error
	return memes, err
}

// TagsSince returns the tag list of every meme created at or after cutoff, in any status.
func (r *memeRepository) TagsSince(ctx context.Context, cutoff time.Time) ([][]string, error) {
	defer observability.TrackQuery("tags", "memes")()
	var memes []models.Meme
	if err := r.db.WithContext(ctx).
		Select("id", "tags").
		Where("created_at >= ?", cutoff).
		Find(&memes).Error; err != nil {
		return nil, err
	}

	out := make([][]string, 0, len(memes))
	for _, m := range memes {
		out = append(out, []string(m.Tags))
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
