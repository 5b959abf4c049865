package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"spincat/internal/models"
	"spincat/internal/observability"
	"spincat/internal/repository"
	"spincat/internal/validation"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

// Discovery paging defaults.
const (
	DefaultPageLimit = 12
	MaxPageLimit     = 100
	MaxPage          = 100000
	trendingTagLimit = 10
	trendingTagDays  = 7
)

// Date range filters accepted by Discover.
const (
	DateRangeToday = "today"
	DateRangeWeek  = "week"
	DateRangeMonth = "month"
	DateRangeAll   = "all"
)

type MemeService struct {
	memeRepo  repository.MemeRepository
	adminRepo repository.AdminRepository
	now       func() time.Time
}

// SubmitMemeInput carries a submission from either the public or the admin path.
// Status is only honoured on the admin path.
type SubmitMemeInput struct {
	URL         string
	Platform    string
	VideoID     string
	Description *string
	Tags        []string
	Status      string
}

// DiscoverParams are the raw discovery query parameters.
type DiscoverParams struct {
	Category  string
	Platform  string
	DateRange string
	Search    string
	Page      int
	Limit     int
}

type ReviewInput struct {
	Status     string
	AdminNotes *string
}

func NewMemeService(
	memeRepo repository.MemeRepository,
	adminRepo repository.AdminRepository,
) *MemeService {
	return &MemeService{
		memeRepo:  memeRepo,
		adminRepo: adminRepo,
		now:       time.Now,
	}
}

// WithClock replaces the time source used for timestamps and cutoffs.
func (s *MemeService) WithClock(now func() time.Time) *MemeService {
	s.now = now
	return s
}

func (s *MemeService) clock() time.Time {
	return s.now().UTC()
}

// Submit records a public submission in pending status.
func (s *MemeService) Submit(ctx context.Context, in SubmitMemeInput) (*models.Meme, error) {
	ctx, span := observability.StartSpan(ctx, "meme.submit")
	meme, err := s.submit(ctx, in, models.MemeStatusPending, nil)
	observability.EndSpan(span, err)
	return meme, err
}

// SubmitAsAdmin records a submission made by an admin. Status defaults to
// approved and the row is stamped as reviewed by that admin.
func (s *MemeService) SubmitAsAdmin(ctx context.Context, adminID uint, in SubmitMemeInput) (*models.Meme, error) {
	ctx, span := observability.StartSpan(ctx, "meme.submit_admin", attribute.Int64("admin.id", int64(adminID)))
	var err error
	defer func() { observability.EndSpan(span, err) }()

	status := models.MemeStatusApproved
	if raw := strings.TrimSpace(in.Status); raw != "" {
		status = models.MemeStatus(strings.ToLower(raw))
		if !status.Valid() {
			err = models.NewValidationError("status must be one of pending, approved, rejected")
			return nil, err
		}
	}

	reviewer, err := s.reviewerName(ctx, adminID)
	if err != nil {
		return nil, err
	}

	meme, err := s.submit(ctx, in, status, &reviewer)
	return meme, err
}

func (s *MemeService) submit(ctx context.Context, in SubmitMemeInput, status models.MemeStatus, reviewer *string) (*models.Meme, error) {
	meme, err := buildMeme(in)
	if err != nil {
		observability.MemeSubmissions.WithLabelValues(string(meme.Platform), "invalid").Inc()
		return nil, err
	}

	now := s.clock()
	meme.Status = status
	meme.CreatedAt = now
	if reviewer != nil {
		meme.ReviewedBy = reviewer
		meme.ReviewedAt = &now
	}

	if err := s.memeRepo.Create(ctx, meme); err != nil {
		if errors.Is(err, repository.ErrDuplicateMeme) {
			observability.MemeSubmissions.WithLabelValues(string(meme.Platform), "duplicate").Inc()
			return nil, models.NewConflictError("This meme has already been submitted")
		}
		observability.MemeSubmissions.WithLabelValues(string(meme.Platform), "error").Inc()
		return nil, storageError(ctx, "create meme", err)
	}

	observability.MemeSubmissions.WithLabelValues(string(meme.Platform), "created").Inc()
	trace.SpanFromContext(ctx).SetAttributes(observability.MemeAttributes(meme.ID, string(meme.Platform))...)
	return meme, nil
}

// buildMeme validates in and returns the row to insert. The returned meme is
// never nil so callers can label metrics with its platform.
func buildMeme(in SubmitMemeInput) (*models.Meme, error) {
	meme := &models.Meme{}

	rawURL := strings.TrimSpace(in.URL)
	videoID := strings.TrimSpace(in.VideoID)
	if rawURL == "" || strings.TrimSpace(in.Platform) == "" || videoID == "" {
		return meme, models.NewValidationError("url, platform and videoId are required")
	}

	platform, ok := models.ParsePlatform(in.Platform)
	if !ok {
		return meme, models.NewValidationError("platform must be INSTAGRAM or TIKTOK")
	}
	meme.Platform = platform

	if err := validation.ValidateMemeURL(rawURL); err != nil {
		return meme, models.NewValidationError(err.Error())
	}
	if len(videoID) > validation.MaxVideoIDLength {
		return meme, models.NewValidationError("videoId is too long")
	}

	tags, err := validation.NormalizeTags(in.Tags)
	if err != nil {
		return meme, models.NewValidationError(err.Error())
	}

	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		if len(desc) > validation.MaxDescriptionLength {
			return meme, models.NewValidationError("description is too long")
		}
		if desc != "" {
			meme.Description = &desc
		}
	}

	meme.URL = rawURL
	meme.VideoID = videoID
	meme.Tags = tags
	return meme, nil
}

// Vote applies one up or down vote and returns the updated meme.
func (s *MemeService) Vote(ctx context.Context, memeID uint, voteType string) (*models.Meme, error) {
	vt := models.VoteType(strings.ToLower(strings.TrimSpace(voteType)))
	delta, ok := vt.Delta()
	if !ok {
		return nil, models.NewValidationError("type must be up or down")
	}

	ctx, span := observability.StartSpan(ctx, "meme.vote",
		append(observability.MemeAttributes(memeID, ""), attribute.String("vote.type", string(vt)))...,
	)
	meme, err := s.memeRepo.AdjustVotes(ctx, memeID, delta)
	if err != nil {
		err = s.lookupError(ctx, "adjust votes", memeID, err)
		observability.EndSpan(span, err)
		return nil, err
	}
	observability.EndSpan(span, nil)

	observability.MemeVotes.WithLabelValues(string(vt)).Inc()
	return meme, nil
}

// Discover returns one page of approved memes.
func (s *MemeService) Discover(ctx context.Context, p DiscoverParams) ([]models.Meme, error) {
	ctx, span := observability.StartSpan(ctx, "meme.discover",
		attribute.String("discover.category", p.Category),
	)

	q, err := s.discoverQuery(p)
	if err != nil {
		observability.EndSpan(span, err)
		return nil, err
	}
	memes, err := s.memeRepo.Discover(ctx, q)
	if err != nil {
		err = storageError(ctx, "discover memes", err)
		observability.EndSpan(span, err)
		return nil, err
	}
	observability.EndSpan(span, nil)
	if memes == nil {
		memes = []models.Meme{}
	}
	return memes, nil
}

func (s *MemeService) discoverQuery(p DiscoverParams) (repository.DiscoverQuery, error) {
	now := s.clock()
	page, limit, err := NormalizePage(p.Page, p.Limit)
	if err != nil {
		return repository.DiscoverQuery{}, err
	}

	q := repository.DiscoverQuery{
		Sort:   repository.SortNewest,
		Search: strings.TrimSpace(p.Search),
		Now:    now,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	switch strings.ToLower(strings.TrimSpace(p.Category)) {
	case repository.SortTrending:
		q.Sort = repository.SortTrending
	case repository.SortPopular:
		q.Sort = repository.SortPopular
	}

	if raw := strings.TrimSpace(p.Platform); raw != "" && !strings.EqualFold(raw, "all") {
		// Unknown platforms still filter, so they match nothing.
		q.Platform, _ = models.ParsePlatform(raw)
	}

	if since, ok := dateCutoff(p.DateRange, now); ok {
		q.Since = &since
	}
	return q, nil
}

func dateCutoff(dateRange string, now time.Time) (time.Time, bool) {
	switch strings.ToLower(strings.TrimSpace(dateRange)) {
	case DateRangeToday:
		return now.Add(-24 * time.Hour), true
	case DateRangeWeek:
		return now.AddDate(0, 0, -7), true
	case DateRangeMonth:
		return now.AddDate(0, -1, 0), true
	}
	return time.Time{}, false
}

// NormalizePage applies the paging defaults (page 1, limit 12). A limit above
// MaxPageLimit or a page above MaxPage is rejected rather than clamped: a
// silently shortened page would read as the last one.
func NormalizePage(page, limit int) (int, int, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		return 0, 0, models.NewValidationError(fmt.Sprintf("limit must be at most %d", MaxPageLimit))
	}
	if page > MaxPage {
		return 0, 0, models.NewValidationError(fmt.Sprintf("page must be at most %d", MaxPage))
	}
	return page, limit, nil
}

// TrendingTags returns the ten most used tags of the last seven days. It reads
// the store on every call so the window always moves with the clock.
func (s *MemeService) TrendingTags(ctx context.Context) ([]string, error) {
	lists, err := s.memeRepo.TagsSince(ctx, s.clock().AddDate(0, 0, -trendingTagDays))
	if err != nil {
		return nil, storageError(ctx, "trending tags", err)
	}
	tags := RankTags(lists, trendingTagLimit)
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}

// RankTags counts every occurrence across lists and returns the top n tags by
// count, ties broken alphabetically.
func RankTags(lists [][]string, n int) []string {
	counts := make(map[string]int)
	for _, list := range lists {
		for _, tag := range list {
			counts[tag]++
		}
	}

	ranked := make([]string, 0, len(counts))
	for tag := range counts {
		ranked = append(ranked, tag)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if counts[ranked[i]] != counts[ranked[j]] {
			return counts[ranked[i]] > counts[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// ListPending returns the moderation queue, oldest first.
func (s *MemeService) ListPending(ctx context.Context, page, limit int) ([]models.Meme, error) {
	return s.ListByStatus(ctx, string(models.MemeStatusPending), page, limit)
}

func (s *MemeService) ListByStatus(ctx context.Context, status string, page, limit int) ([]models.Meme, error) {
	st := models.MemeStatus(strings.ToLower(strings.TrimSpace(status)))
	if !st.Valid() {
		return nil, models.NewValidationError("status must be one of pending, approved, rejected")
	}
	page, limit, err := NormalizePage(page, limit)
	if err != nil {
		return nil, err
	}

	memes, err := s.memeRepo.ListByStatus(ctx, st, limit, (page-1)*limit)
	if err != nil {
		return nil, storageError(ctx, "list memes by status", err)
	}
	if memes == nil {
		memes = []models.Meme{}
	}
	return memes, nil
}

// Review moves a meme to approved or rejected. Re-review is allowed.
func (s *MemeService) Review(ctx context.Context, adminID, memeID uint, in ReviewInput) (*models.Meme, error) {
	status := models.MemeStatus(strings.ToLower(strings.TrimSpace(in.Status)))
	if status != models.MemeStatusApproved && status != models.MemeStatusRejected {
		return nil, models.NewValidationError("status must be approved or rejected")
	}

	ctx, span := observability.StartSpan(ctx, "meme.review",
		append(observability.MemeAttributes(memeID, ""), attribute.String("review.status", string(status)))...,
	)
	var err error
	defer func() { observability.EndSpan(span, err) }()

	reviewer, err := s.reviewerName(ctx, adminID)
	if err != nil {
		return nil, err
	}

	var notes *string
	if in.AdminNotes != nil {
		trimmed := strings.TrimSpace(*in.AdminNotes)
		if trimmed != "" {
			notes = &trimmed
		}
	}

	meme, err := s.memeRepo.Review(ctx, memeID, repository.ReviewUpdate{
		Status:     status,
		AdminNotes: notes,
		ReviewedBy: reviewer,
		ReviewedAt: s.clock(),
	})
	if err != nil {
		err = s.lookupError(ctx, "review meme", memeID, err)
		return nil, err
	}

	observability.MemeReviews.WithLabelValues(string(status)).Inc()
	return meme, nil
}

// reviewerName resolves the username stamped into reviewed_by.
func (s *MemeService) reviewerName(ctx context.Context, adminID uint) (string, error) {
	admin, err := s.adminRepo.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", models.NewUnauthorizedError("Unauthorized")
		}
		return "", storageError(ctx, "load reviewer", err)
	}
	return admin.Username, nil
}

func (s *MemeService) lookupError(ctx context.Context, op string, memeID uint, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("Meme", memeID)
	}
	return storageError(ctx, op, err)
}

// storageError logs err and wraps it for the client.
func storageError(ctx context.Context, op string, err error) error {
	slog.ErrorContext(ctx, "storage failure", slog.String("op", op), slog.String("error", err.Error()))
	return models.NewStorageError(err)
}
