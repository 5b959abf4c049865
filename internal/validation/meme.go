package validation

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// Limits on submitted meme and score fields.
const (
	MaxTags              = 10
	MaxTagLength         = 32
	MaxDescriptionLength = 2000
	MaxVideoIDLength     = 255
	MaxPlayerNameLength  = 32
)

// ValidateMemeURL requires an absolute http(s) URL with a host.
func ValidateMemeURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("url must be a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url must use http or https")
	}
	if u.Host == "" {
		return fmt.Errorf("url must include a host")
	}
	return nil
}

// NormalizeTags trims and lower-cases tags and drops empty ones. Repeats are
// kept since trending counts every occurrence.
func NormalizeTags(tags []string) ([]string, error) {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if utf8.RuneCountInString(tag) > MaxTagLength {
			return nil, fmt.Errorf("tags must not exceed %d characters", MaxTagLength)
		}
		out = append(out, tag)
	}
	if len(out) > MaxTags {
		return nil, fmt.Errorf("at most %d tags are allowed", MaxTags)
	}
	return out, nil
}

// ValidatePlayerName checks a leaderboard display name.
func ValidatePlayerName(name string) error {
	if name == "" {
		return fmt.Errorf("playerName is required")
	}
	if utf8.RuneCountInString(name) > MaxPlayerNameLength {
		return fmt.Errorf("playerName must not exceed %d characters", MaxPlayerNameLength)
	}
	return nil
}
