package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()
	tests := []struct {
		password string
		errPart  string
	}{
		{"Correct-Horse-9", ""},
		{"Spinning#Cat42", ""},
		{"Ab1!" + strings.Repeat("x", 8), ""},
		{"Ab1!" + strings.Repeat("x", 68), ""},
		{"Sh0rt!", "at least 12"},
		{"Ab1!" + strings.Repeat("x", 69), "72 bytes"},
		{"moderator-only-9", "uppercase"},
		{"MODERATOR-ONLY-9", "lowercase"},
		{"Moderator-Only-", "digit"},
		{"ModeratorOnly99", "special"},
		{"Ærlig-moderator-7", ""},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.errPart == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.errPart)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	t.Parallel()
	tests := []struct {
		username string
		errPart  string
	}{
		{"moderator", ""},
		{"cat-mod_2", ""},
		{"mo", "at least 3"},
		{strings.Repeat("m", 65), "64 characters"},
		{"mod@spincat", "letters, numbers"},
		{"-moderator", "start or end"},
		{"moderator_", "start or end"},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.errPart == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.errPart)
			}
		})
	}
}
