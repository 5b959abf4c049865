package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"spincat/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func seedMeme(t *testing.T, db *gorm.DB, videoID string, status models.MemeStatus, votes int, created time.Time, tags ...string) *models.Meme {
	t.Helper()
	if tags == nil {
		tags = []string{}
	}
	m := &models.Meme{
		URL:       "https://www.tiktok.com/@cat/video/" + videoID,
		Platform:  models.PlatformTikTok,
		VideoID:   videoID,
		Votes:     votes,
		Tags:      tags,
		Status:    status,
		CreatedAt: created,
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

func ids(memes []models.Meme) []uint {
	out := make([]uint, 0, len(memes))
	for _, m := range memes {
		out = append(out, m.ID)
	}
	return out
}

func TestMemeRepository_CreateDuplicate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMemeRepository(db)
	ctx := context.Background()

	first := &models.Meme{URL: "https://instagram.com/reel/A", Platform: models.PlatformInstagram, VideoID: "A", Tags: []string{}, Status: models.MemeStatusPending, CreatedAt: baseTime}
	require.NoError(t, repo.Create(ctx, first))
	assert.NotZero(t, first.ID)

	dup := &models.Meme{URL: "https://instagram.com/reel/A?x=1", Platform: models.PlatformInstagram, VideoID: "A", Tags: []string{}, Status: models.MemeStatusPending, CreatedAt: baseTime}
	err := repo.Create(ctx, dup)
	assert.ErrorIs(t, err, ErrDuplicateMeme)

	other := &models.Meme{URL: "https://tiktok.com/v/A", Platform: models.PlatformTikTok, VideoID: "A", Tags: []string{}, Status: models.MemeStatusPending, CreatedAt: baseTime}
	assert.NoError(t, repo.Create(ctx, other), "same video id on another platform is distinct")

	var count int64
	require.NoError(t, db.Model(&models.Meme{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestMemeRepository_AdjustVotes(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMemeRepository(db)
	ctx := context.Background()
	m := seedMeme(t, db, "v1", models.MemeStatusApproved, 3, baseTime)

	updated, err := repo.AdjustVotes(ctx, m.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Votes)
	assert.Equal(t, m.ID, updated.ID)
	assert.Equal(t, "v1", updated.VideoID)

	updated, err = repo.AdjustVotes(ctx, m.ID, -1)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Votes)

	_, err = repo.AdjustVotes(ctx, 9999, 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMemeRepository_Review(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMemeRepository(db)
	ctx := context.Background()
	m := seedMeme(t, db, "r1", models.MemeStatusPending, 0, baseTime)

	at := baseTime.Add(time.Hour)
	updated, err := repo.Review(ctx, m.ID, ReviewUpdate{
		Status:     models.MemeStatusApproved,
		AdminNotes: strPtr("looks good"),
		ReviewedBy: "mod",
		ReviewedAt: at,
	})
	require.NoError(t, err)
	assert.Equal(t, models.MemeStatusApproved, updated.Status)
	require.NotNil(t, updated.AdminNotes)
	assert.Equal(t, "looks good", *updated.AdminNotes)
	require.NotNil(t, updated.ReviewedBy)
	assert.Equal(t, "mod", *updated.ReviewedBy)
	require.NotNil(t, updated.ReviewedAt)
	assert.True(t, at.Equal(*updated.ReviewedAt))

	updated, err = repo.Review(ctx, m.ID, ReviewUpdate{Status: models.MemeStatusRejected, ReviewedBy: "mod2", ReviewedAt: at})
	require.NoError(t, err)
	assert.Equal(t, models.MemeStatusRejected, updated.Status)
	assert.Nil(t, updated.AdminNotes, "notes are replaced, not merged")

	_, err = repo.Review(ctx, 4242, ReviewUpdate{Status: models.MemeStatusApproved, ReviewedBy: "mod", ReviewedAt: at})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMemeRepository_Discover(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMemeRepository(db)
	ctx := context.Background()

	old := seedMeme(t, db, "old", models.MemeStatusApproved, 50, baseTime.Add(-48*time.Hour), "cat")
	fresh := seedMeme(t, db, "fresh", models.MemeStatusApproved, 5, baseTime.Add(-10*time.Second), "spin")
	mid := seedMeme(t, db, "mid", models.MemeStatusApproved, 10, baseTime.Add(-time.Hour), "dance")
	seedMeme(t, db, "pending", models.MemeStatusPending, 100, baseTime, "cat")
	seedMeme(t, db, "rejected", models.MemeStatusRejected, 100, baseTime, "cat")

	ig := &models.Meme{URL: "https://instagram.com/reel/IG", Platform: models.PlatformInstagram, VideoID: "IG", Tags: []string{"cat"},
		Description: strPtr("A Spinning CAT"), Status: models.MemeStatusApproved, CreatedAt: baseTime.Add(-2 * time.Hour)}
	require.NoError(t, db.Create(ig).Error)

	q := func(mod func(*DiscoverQuery)) []uint {
		dq := DiscoverQuery{Now: baseTime, Limit: 12}
		mod(&dq)
		memes, err := repo.Discover(ctx, dq)
		require.NoError(t, err)
		for _, m := range memes {
			require.Equal(t, models.MemeStatusApproved, m.Status)
		}
		return ids(memes)
	}

	assert.Equal(t, []uint{fresh.ID, mid.ID, ig.ID, old.ID}, q(func(d *DiscoverQuery) { d.Sort = SortNewest }))
	assert.Equal(t, []uint{old.ID, mid.ID, fresh.ID, ig.ID}, q(func(d *DiscoverQuery) { d.Sort = SortPopular }))
	// 5 votes / 10s beats 10 / 3600s beats 50 / 172800s.
	assert.Equal(t, []uint{fresh.ID, mid.ID, old.ID, ig.ID}, q(func(d *DiscoverQuery) { d.Sort = SortTrending }))

	assert.Equal(t, []uint{ig.ID}, q(func(d *DiscoverQuery) { d.Platform = models.PlatformInstagram }))

	since := baseTime.Add(-24 * time.Hour)
	assert.Equal(t, []uint{fresh.ID, mid.ID, ig.ID}, q(func(d *DiscoverQuery) { d.Since = &since }))

	assert.Equal(t, []uint{ig.ID, old.ID}, q(func(d *DiscoverQuery) { d.Search = "cat" }), "tag or description match")
	assert.Equal(t, []uint{ig.ID}, q(func(d *DiscoverQuery) { d.Search = "spinning" }))
	assert.Empty(t, q(func(d *DiscoverQuery) { d.Search = "100%" }))

	page1 := q(func(d *DiscoverQuery) { d.Limit = 3 })
	page2 := q(func(d *DiscoverQuery) { d.Limit = 3; d.Offset = 3 })
	assert.Len(t, page1, 3)
	assert.Len(t, page2, 1)
	assert.NotContains(t, page1, page2[0])
}

func TestMemeRepository_TrendingFloorsElapsedTime(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMemeRepository(db)

	brandNew := seedMeme(t, db, "now", models.MemeStatusApproved, 2, baseTime)
	older := seedMeme(t, db, "older", models.MemeStatusApproved, 3, baseTime.Add(-2*time.Second))

	memes, err := repo.Discover(context.Background(), DiscoverQuery{Sort: SortTrending, Now: baseTime, Limit: 10})
	require.NoError(t, err)
	// 2 / max(0, 1) = 2 versus 3 / 2 = 1.5.
	assert.Equal(t, []uint{brandNew.ID, older.ID}, ids(memes))
}

func TestMemeRepository_ListByStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMemeRepository(db)
	ctx := context.Background()

	p1 := seedMeme(t, db, "p1", models.MemeStatusPending, 0, baseTime.Add(-2*time.Hour))
	p2 := seedMeme(t, db, "p2", models.MemeStatusPending, 0, baseTime.Add(-time.Hour))
	a1 := seedMeme(t, db, "a1", models.MemeStatusApproved, 0, baseTime.Add(-3*time.Hour))
	a2 := seedMeme(t, db, "a2", models.MemeStatusApproved, 0, baseTime)

	pending, err := repo.ListByStatus(ctx, models.MemeStatusPending, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint{p1.ID, p2.ID}, ids(pending), "pending queue is oldest first")

	approved, err := repo.ListByStatus(ctx, models.MemeStatusApproved, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint{a2.ID, a1.ID}, ids(approved))
}

func TestMemeRepository_TagsSince(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMemeRepository(db)

	seedMeme(t, db, "t1", models.MemeStatusApproved, 0, baseTime.Add(-time.Hour), "cat", "spin")
	seedMeme(t, db, "t2", models.MemeStatusPending, 0, baseTime.Add(-2*time.Hour), "cat")
	seedMeme(t, db, "t3", models.MemeStatusApproved, 0, baseTime.Add(-10*24*time.Hour), "old")

	tags, err := repo.TagsSince(context.Background(), baseTime.Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.ElementsMatch(t, [][]string{{"cat", "spin"}, {"cat"}}, tags)
}

func TestMemeRepository_Postgres_AdjustVotesUsesSingleUpdate(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMemeRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE "memes" SET .*votes \+ \$1.* WHERE id = \$2 RETURNING \*`).
		WithArgs(1, 7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "votes", "status"}).AddRow(7, 11, "approved"))
	mock.ExpectCommit()

	meme, err := repo.AdjustVotes(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.Equal(t, 11, meme.Votes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemeRepository_Postgres_Discover(t *testing.T) {
	tests := []struct {
		name  string
		query DiscoverQuery
		sql   string
	}{
		{
			name:  "trending floors elapsed seconds",
			query: DiscoverQuery{Sort: SortTrending, Now: baseTime, Limit: 12},
			sql:   `WHERE status = \$1 ORDER BY votes / GREATEST\(EXTRACT\(EPOCH FROM \(CAST\(\$2 AS timestamptz\) - created_at\)\), 1\) DESC, id DESC LIMIT \$3`,
		},
		{
			name:  "search uses jsonb containment",
			query: DiscoverQuery{Search: "Cat", Sort: SortPopular, Limit: 12},
			sql:   `LIKE \$2 ESCAPE '\\' OR tags @> CAST\(\$3 AS jsonb\)\) ORDER BY votes DESC,id DESC`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			repo := NewMemeRepository(db)

			mock.ExpectQuery(tt.sql).WillReturnRows(sqlmock.NewRows([]string{"id"}))
			_, err := repo.Discover(context.Background(), tt.query)
			require.NoError(t, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMemeRepository_Postgres_UniqueViolation(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMemeRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "memes"`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.Meme{URL: "u", Platform: models.PlatformTikTok, VideoID: "x", Tags: []string{}})
	assert.ErrorIs(t, err, ErrDuplicateMeme)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueConstraintError(t *testing.T) {
	assert.True(t, isUniqueConstraintError(gorm.ErrDuplicatedKey))
	assert.True(t, isUniqueConstraintError(fmt.Errorf("wrap: %w", &pgconn.PgError{Code: "23505"})))
	assert.True(t, isUniqueConstraintError(errors.New("UNIQUE constraint failed: memes.platform, memes.video_id")))
	assert.False(t, isUniqueConstraintError(errors.New("connection refused")))
	assert.False(t, isUniqueConstraintError(nil))
}
