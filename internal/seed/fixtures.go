package seed

import (
	"embed"
	"fmt"
	"strings"
	"time"

	"spincat/internal/models"
	"spincat/internal/validation"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/*.yaml
var fixtureFS embed.FS

// MemeFixture is one curated meme from fixtures/memes.yaml.
type MemeFixture struct {
	URL         string   `yaml:"url"`
	Platform    string   `yaml:"platform"`
	VideoID     string   `yaml:"videoId"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
	Status      string   `yaml:"status"`
	AdminNotes  string   `yaml:"adminNotes"`
	Votes       int      `yaml:"votes"`
	AgeHours    int      `yaml:"ageHours"`
}

type fixtureFile struct {
	Memes []MemeFixture `yaml:"memes"`
}

// LoadFixtures parses the embedded curated memes.
func LoadFixtures() ([]MemeFixture, error) {
	raw, err := fixtureFS.ReadFile("fixtures/memes.yaml")
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return parseFixtures(raw)
}

func parseFixtures(raw []byte) ([]MemeFixture, error) {
	var file fixtureFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	for i, f := range file.Memes {
		if _, ok := models.ParsePlatform(f.Platform); !ok {
			return nil, fmt.Errorf("fixture %d: unknown platform %q", i, f.Platform)
		}
		if f.VideoID == "" {
			return nil, fmt.Errorf("fixture %d: videoId is required", i)
		}
		if err := validation.ValidateMemeURL(f.URL); err != nil {
			return nil, fmt.Errorf("fixture %d: %w", i, err)
		}
		if f.Status != "" && !models.MemeStatus(f.Status).Valid() {
			return nil, fmt.Errorf("fixture %d: unknown status %q", i, f.Status)
		}
	}
	return file.Memes, nil
}

// Meme converts the fixture into a row created ageHours before now.
func (f MemeFixture) Meme(now time.Time) (*models.Meme, error) {
	platform, _ := models.ParsePlatform(f.Platform)
	tags, err := validation.NormalizeTags(f.Tags)
	if err != nil {
		return nil, err
	}

	status := models.MemeStatus(f.Status)
	if status == "" {
		status = models.MemeStatusPending
	}

	meme := &models.Meme{
		URL:       f.URL,
		Platform:  platform,
		VideoID:   f.VideoID,
		Votes:     f.Votes,
		Tags:      tags,
		Status:    status,
		CreatedAt: now.Add(-time.Duration(f.AgeHours) * time.Hour).UTC(),
	}
	if d := strings.TrimSpace(f.Description); d != "" {
		meme.Description = &d
	}
	if status != models.MemeStatusPending {
		reviewer := "seed"
		reviewedAt := meme.CreatedAt.Add(time.Hour)
		meme.ReviewedBy = &reviewer
		meme.ReviewedAt = &reviewedAt
		if n := strings.TrimSpace(f.AdminNotes); n != "" {
			meme.AdminNotes = &n
		}
	}
	return meme, nil
}
