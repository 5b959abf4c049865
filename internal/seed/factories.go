package seed

import (
	"fmt"
	"math"
	"strings"
	"time"

	"spincat/internal/models"

	"github.com/brianvoe/gofakeit/v6"
)

var demoTags = []string{"cat", "spin", "loaf", "dog", "classic", "fail", "zoomies", "sleepy", "chaos", "wholesome"}

// Factory builds random memes and scores. A fixed seed gives a repeatable data set.
type Factory struct {
	faker  *gofakeit.Faker
	now    time.Time
	maxAge time.Duration
}

// NewFactory returns a factory anchored at now. Generated rows are spread over the preceding maxDays.
func NewFactory(seed int64, now time.Time, maxDays int) *Factory {
	if maxDays <= 0 {
		maxDays = 45
	}
	return &Factory{
		faker:  gofakeit.New(seed),
		now:    now.UTC(),
		maxAge: time.Duration(maxDays) * 24 * time.Hour,
	}
}

func (f *Factory) createdAt() time.Time {
	back := time.Duration(f.faker.Int64()%int64(f.maxAge/time.Minute)) * time.Minute
	if back < 0 {
		back = -back
	}
	return f.now.Add(-back)
}

// BuildMeme returns an unsaved meme. Most are approved so discovery has something to show.
func (f *Factory) BuildMeme(overrides ...func(*models.Meme)) *models.Meme {
	platform := models.PlatformTikTok
	var url, videoID string
	if f.faker.Bool() {
		videoID = fmt.Sprintf("%019d", f.faker.Uint64()%1e19)
		url = fmt.Sprintf("https://www.tiktok.com/@%s/video/%s", strings.ToLower(f.faker.Username()), videoID)
	} else {
		platform = models.PlatformInstagram
		videoID = f.faker.LetterN(11)
		url = "https://www.instagram.com/reel/" + videoID + "/"
	}

	n := f.faker.Number(0, 4)
	tags := make([]string, 0, n)
	for i := 0; i < n; i++ {
		tags = append(tags, demoTags[f.faker.Number(0, len(demoTags)-1)])
	}

	description := f.faker.Sentence(f.faker.Number(3, 9))
	meme := &models.Meme{
		URL:         url,
		Platform:    platform,
		VideoID:     videoID,
		Description: &description,
		Tags:        tags,
		Votes:       f.faker.Number(-5, 250),
		CreatedAt:   f.createdAt(),
	}

	switch r := f.faker.Number(1, 10); {
	case r <= 7:
		meme.Status = models.MemeStatusApproved
	case r <= 9:
		meme.Status = models.MemeStatusPending
		meme.Votes = 0
	default:
		meme.Status = models.MemeStatusRejected
	}
	if meme.Status != models.MemeStatusPending {
		reviewer := "seed"
		reviewedAt := meme.CreatedAt.Add(30 * time.Minute)
		meme.ReviewedBy = &reviewer
		meme.ReviewedAt = &reviewedAt
	}

	for _, override := range overrides {
		override(meme)
	}
	return meme
}

// BuildScore returns an unsaved typing game run for player.
func (f *Factory) BuildScore(player string) *models.Score {
	elapsed := math.Round(f.faker.Float64Range(8, 90)*10) / 10
	lps := math.Round(f.faker.Float64Range(1.5, 9)*100) / 100
	mistakes := f.faker.Number(0, 12)
	score := int(lps*elapsed) - mistakes*3
	if score < 0 {
		score = 0
	}
	return &models.Score{
		PlayerName:       player,
		Score:            score,
		Time:             elapsed,
		LettersPerSecond: lps,
		Mistakes:         mistakes,
		CreatedAt:        f.createdAt(),
	}
}

// PlayerName returns a name that passes player name validation.
func (f *Factory) PlayerName() string {
	name := strings.ToLower(f.faker.Username())
	if len(name) > 24 {
		name = name[:24]
	}
	return name
}
