package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMemeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		ok   bool
	}{
		{name: "instagram reel", url: "https://instagram.com/reel/ABC123", ok: true},
		{name: "plain http", url: "http://www.tiktok.com/@cat/video/1", ok: true},
		{name: "no scheme", url: "instagram.com/reel/ABC123", ok: false},
		{name: "ftp", url: "ftp://example.com/x", ok: false},
		{name: "javascript", url: "javascript:alert(1)", ok: false},
		{name: "no host", url: "https:///reel", ok: false},
		{name: "garbage", url: "http://[::1", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateMemeURL(tc.url)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestNormalizeTags(t *testing.T) {
	t.Parallel()

	got, err := NormalizeTags([]string{" Cat ", "", "SPIN", "spin", "   "})
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "spin", "spin"}, got)

	got, err = NormalizeTags(nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	_, err = NormalizeTags([]string{strings.Repeat("x", MaxTagLength+1)})
	assert.Error(t, err)

	many := make([]string, MaxTags+1)
	for i := range many {
		many[i] = "t"
	}
	_, err = NormalizeTags(many)
	assert.Error(t, err)

	_, err = NormalizeTags(many[:MaxTags])
	assert.NoError(t, err)
}

func TestValidatePlayerName(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidatePlayerName("speedy"))
	assert.Error(t, ValidatePlayerName(""))
	assert.NoError(t, ValidatePlayerName(strings.Repeat("ñ", MaxPlayerNameLength)))
	assert.Error(t, ValidatePlayerName(strings.Repeat("a", MaxPlayerNameLength+1)))
}
