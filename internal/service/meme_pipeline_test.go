package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"spincat/internal/models"
	"spincat/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPipeline(t *testing.T) (*gorm.DB, *MemeService, *models.Admin) {
	t.Helper()
	db := setupServiceDB(t)
	admin := createAdmin(t, db, "mod", "Sup3r-Secret!")
	svc := NewMemeService(
		repository.NewMemeRepository(db),
		repository.NewAdminRepository(db),
	).WithClock(fixedClock)
	return db, svc, admin
}

func TestPipeline_DuplicateSubmissionConcurrent(t *testing.T) {
	db, svc, _ := newPipeline(t)
	ctx := context.Background()
	in := SubmitMemeInput{URL: "https://instagram.com/reel/ABC123", Platform: "INSTAGRAM", VideoID: "ABC123"}

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
		others    []error
	)
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := svc.Submit(ctx, in)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case models.HasCode(err, models.CodeConflict):
				conflicts++
			default:
				others = append(others, err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Empty(t, others)
	assert.Equal(t, 1, created)
	assert.Equal(t, workers-1, conflicts)

	var count int64
	require.NoError(t, db.Model(&models.Meme{}).
		Where("platform = ? AND video_id = ?", models.PlatformInstagram, "ABC123").
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	_, err := svc.Submit(ctx, in)
	assertAppError(t, err, models.CodeConflict)
}

func TestPipeline_ConcurrentVotesNoLostUpdates(t *testing.T) {
	db, svc, _ := newPipeline(t)
	ctx := context.Background()

	meme := &models.Meme{
		URL: "https://instagram.com/reel/V", Platform: models.PlatformInstagram, VideoID: "V",
		Votes: 5, Tags: []string{}, Status: models.MemeStatusApproved, CreatedAt: fixedNow,
	}
	require.NoError(t, db.Create(meme).Error)

	const ups, downs = 30, 20
	var wg sync.WaitGroup
	errs := make(chan error, ups+downs)
	for i := 0; i < ups+downs; i++ {
		voteType := "up"
		if i%5 == 0 || i%5 == 2 {
			voteType = "down"
		}
		wg.Add(1)
		go func(vt string) {
			defer wg.Done()
			_, err := svc.Vote(ctx, meme.ID, vt)
			errs <- err
		}(voteType)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var got models.Meme
	require.NoError(t, db.First(&got, meme.ID).Error)
	assert.Equal(t, 5+ups-downs, got.Votes)

	updated, err := svc.Vote(ctx, meme.ID, "down")
	require.NoError(t, err)
	assert.Equal(t, got.Votes-1, updated.Votes)

	_, err = svc.Vote(ctx, 9999, "up")
	assertAppError(t, err, models.CodeNotFound)
}

func TestPipeline_DiscoveryNeverLeaksUnapproved(t *testing.T) {
	db, svc, _ := newPipeline(t)
	ctx := context.Background()
	faker := gofakeit.New(7)

	statuses := []models.MemeStatus{models.MemeStatusPending, models.MemeStatusApproved, models.MemeStatusRejected}
	platforms := []models.Platform{models.PlatformInstagram, models.PlatformTikTok}
	tagPool := []string{"cat", "spin", "loop", "dance"}
	for i := 0; i < 60; i++ {
		desc := faker.Sentence(4)
		m := &models.Meme{
			URL:         faker.URL(),
			Platform:    platforms[i%2],
			VideoID:     fmt.Sprintf("vid-%d", i),
			Votes:       faker.Number(-5, 50),
			Description: &desc,
			Tags:        []string{tagPool[i%len(tagPool)]},
			Status:      statuses[i%3],
			CreatedAt:   fixedNow.Add(-time.Duration(i) * 13 * time.Hour),
		}
		require.NoError(t, db.Create(m).Error)
	}

	for _, category := range []string{"", "trending", "newest", "popular", "all"} {
		for _, platform := range []string{"", "all", "instagram", "TIKTOK"} {
			for _, dr := range []string{"", "today", "week", "month", "all"} {
				for _, search := range []string{"", "cat", "spin"} {
					memes, err := svc.Discover(ctx, DiscoverParams{
						Category: category, Platform: platform, DateRange: dr, Search: search, Limit: 100,
					})
					require.NoError(t, err)
					for _, m := range memes {
						require.Equal(t, models.MemeStatusApproved, m.Status,
							"category=%q platform=%q dateRange=%q search=%q", category, platform, dr, search)
					}
				}
			}
		}
	}
}

func TestPipeline_DiscoveryPagination(t *testing.T) {
	db, svc, _ := newPipeline(t)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		m := &models.Meme{
			URL: "https://tiktok.com/v", Platform: models.PlatformTikTok, VideoID: fmt.Sprintf("p%d", i),
			Votes: i % 3, Tags: []string{}, Status: models.MemeStatusApproved,
			CreatedAt: fixedNow.Add(-time.Hour),
		}
		require.NoError(t, db.Create(m).Error)
	}

	for _, category := range []string{"newest", "popular", "trending"} {
		seen := map[uint]bool{}
		for page := 1; page <= 3; page++ {
			memes, err := svc.Discover(ctx, DiscoverParams{Category: category, Page: page, Limit: 3})
			require.NoError(t, err)
			if page < 3 {
				assert.Len(t, memes, 3, category)
			} else {
				assert.Len(t, memes, 1, category)
			}
			for _, m := range memes {
				assert.False(t, seen[m.ID], "%s page %d repeats meme %d", category, page, m.ID)
				seen[m.ID] = true
			}
		}
		assert.Len(t, seen, 7)

		memes, err := svc.Discover(ctx, DiscoverParams{Category: category, Page: 4, Limit: 3})
		require.NoError(t, err)
		assert.Empty(t, memes)
	}
}

func TestPipeline_DiscoveryFullPagesBeyondDefault(t *testing.T) {
	db, svc, _ := newPipeline(t)
	ctx := context.Background()

	memes := make([]models.Meme, 150)
	for i := range memes {
		memes[i] = models.Meme{
			URL: "https://tiktok.com/v", Platform: models.PlatformTikTok, VideoID: fmt.Sprintf("f%d", i),
			Tags: []string{}, Status: models.MemeStatusApproved,
			CreatedAt: fixedNow.Add(-time.Duration(i+1) * time.Minute),
		}
	}
	require.NoError(t, db.CreateInBatches(memes, 50).Error)

	first, err := svc.Discover(ctx, DiscoverParams{Category: "newest", Page: 1, Limit: 100})
	require.NoError(t, err)
	assert.Len(t, first, 100)

	second, err := svc.Discover(ctx, DiscoverParams{Category: "newest", Page: 2, Limit: 100})
	require.NoError(t, err)
	assert.Len(t, second, 50)

	_, err = svc.Discover(ctx, DiscoverParams{Category: "newest", Page: 1, Limit: 120})
	assertValidationError(t, err)

	_, err = svc.ListPending(ctx, 1, 120)
	assertValidationError(t, err)
}

func TestPipeline_TrendingTagsFollowClock(t *testing.T) {
	db, svc, _ := newPipeline(t)
	ctx := context.Background()

	now := fixedNow
	svc.WithClock(func() time.Time { return now })

	require.NoError(t, db.Create(&models.Meme{
		URL: "https://tiktok.com/v", Platform: models.PlatformTikTok, VideoID: "edge",
		Tags: []string{"cat"}, Status: models.MemeStatusApproved,
		CreatedAt: fixedNow.Add(-7*24*time.Hour + time.Second),
	}).Error)

	tags, err := svc.TrendingTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"cat"}, tags)

	now = fixedNow.Add(10 * time.Second)
	tags, err = svc.TrendingTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{}, tags)
}

func TestPipeline_TrendingTagsMultiplicity(t *testing.T) {
	db, svc, _ := newPipeline(t)
	ctx := context.Background()

	lists := [][]string{{"cat", "spin"}, {"cat"}, {"spin", "spin"}}
	for i, tags := range lists {
		status := models.MemeStatusApproved
		if i == 1 {
			status = models.MemeStatusPending
		}
		require.NoError(t, db.Create(&models.Meme{
			URL: "https://tiktok.com/v", Platform: models.PlatformTikTok, VideoID: fmt.Sprintf("t%d", i),
			Tags: tags, Status: status, CreatedAt: fixedNow.Add(-time.Duration(i) * 24 * time.Hour),
		}).Error)
	}
	// outside the seven day window
	require.NoError(t, db.Create(&models.Meme{
		URL: "https://tiktok.com/v", Platform: models.PlatformTikTok, VideoID: "old",
		Tags: []string{"cat", "cat", "cat"}, Status: models.MemeStatusApproved,
		CreatedAt: fixedNow.AddDate(0, 0, -8),
	}).Error)

	tags, err := svc.TrendingTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"spin", "cat"}, tags)
}

func TestPipeline_ReviewFailuresLeaveRowUntouched(t *testing.T) {
	db, svc, admin := newPipeline(t)
	ctx := context.Background()

	meme, err := svc.Submit(ctx, SubmitMemeInput{URL: "https://instagram.com/reel/R", Platform: "INSTAGRAM", VideoID: "R"})
	require.NoError(t, err)

	_, err = svc.Review(ctx, admin.ID, meme.ID+100, ReviewInput{Status: "approved"})
	assertAppError(t, err, models.CodeNotFound)

	_, err = svc.Review(ctx, admin.ID, meme.ID, ReviewInput{Status: "maybe", AdminNotes: strPtr("hmm")})
	assertValidationError(t, err)

	var row models.Meme
	require.NoError(t, db.First(&row, meme.ID).Error)
	assert.Equal(t, models.MemeStatusPending, row.Status)
	assert.Nil(t, row.AdminNotes)
	assert.Nil(t, row.ReviewedBy)
	assert.Nil(t, row.ReviewedAt)
}

func TestPipeline_SubmitReviewDiscoverVote(t *testing.T) {
	_, svc, admin := newPipeline(t)
	ctx := context.Background()

	meme, err := svc.Submit(ctx, SubmitMemeInput{URL: "https://instagram.com/reel/ABC123", Platform: "INSTAGRAM", VideoID: "ABC123"})
	require.NoError(t, err)
	assert.Equal(t, models.MemeStatusPending, meme.Status)

	listed, err := svc.Discover(ctx, DiscoverParams{})
	require.NoError(t, err)
	assert.Empty(t, listed)

	pending, err := svc.ListPending(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	reviewed, err := svc.Review(ctx, admin.ID, meme.ID, ReviewInput{Status: "approved", AdminNotes: strPtr("purrfect")})
	require.NoError(t, err)
	assert.Equal(t, models.MemeStatusApproved, reviewed.Status)
	require.NotNil(t, reviewed.ReviewedBy)
	assert.Equal(t, "mod", *reviewed.ReviewedBy)
	require.NotNil(t, reviewed.AdminNotes)
	assert.Equal(t, "purrfect", *reviewed.AdminNotes)

	listed, err = svc.Discover(ctx, DiscoverParams{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, meme.ID, listed[0].ID)

	voted, err := svc.Vote(ctx, meme.ID, "up")
	require.NoError(t, err)
	assert.Equal(t, 1, voted.Votes)

	// re-review is allowed and hides the meme again
	_, err = svc.Review(ctx, admin.ID, meme.ID, ReviewInput{Status: "rejected"})
	require.NoError(t, err)
	listed, err = svc.Discover(ctx, DiscoverParams{})
	require.NoError(t, err)
	assert.Empty(t, listed)
}
