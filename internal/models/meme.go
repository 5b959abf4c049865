// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Platform identifies the site hosting a meme's video.
type Platform string

const (
	// PlatformInstagram is an Instagram reel.
	PlatformInstagram Platform = "INSTAGRAM"
	// PlatformTikTok is a TikTok video.
	PlatformTikTok Platform = "TIKTOK"
)

// ParsePlatform normalizes raw to upper case and reports whether it is a known platform.
func ParsePlatform(raw string) (Platform, bool) {
	p := Platform(strings.ToUpper(strings.TrimSpace(raw)))
	switch p {
	case PlatformInstagram, PlatformTikTok:
		return p, true
	}
	return p, false
}

// MemeStatus defines lifecycle states for submitted memes.
type MemeStatus string

const (
	// MemeStatusPending indicates the meme is awaiting review.
	MemeStatusPending MemeStatus = "pending"
	// MemeStatusApproved indicates the meme is publicly visible.
	MemeStatusApproved MemeStatus = "approved"
	// MemeStatusRejected indicates the meme was denied.
	MemeStatusRejected MemeStatus = "rejected"
)

// Valid reports whether s is one of the three lifecycle states.
func (s MemeStatus) Valid() bool {
	switch s {
	case MemeStatusPending, MemeStatusApproved, MemeStatusRejected:
		return true
	}
	return false
}

// VoteType is the direction of a community vote.
type VoteType string

const (
	VoteUp   VoteType = "up"
	VoteDown VoteType = "down"
)

// Delta returns the counter adjustment for the vote and whether the type is known.
func (v VoteType) Delta() (int, bool) {
	switch v {
	case VoteUp:
		return 1, true
	case VoteDown:
		return -1, true
	}
	return 0, false
}

// Meme is a moderated reference to an externally hosted short video.
type Meme struct {
	ID          uint                        `gorm:"primaryKey" json:"id"`
	URL         string                      `gorm:"type:text;not null" json:"url"`
	Platform    Platform                    `gorm:"type:varchar(20);not null;uniqueIndex:idx_memes_platform_video,priority:1" json:"platform"`
	VideoID     string                      `gorm:"size:255;not null;uniqueIndex:idx_memes_platform_video,priority:2" json:"videoId"`
	Votes       int                         `gorm:"not null;default:0" json:"votes"`
	Description *string                     `gorm:"type:text" json:"description"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`
	Status      MemeStatus                  `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	AdminNotes  *string                     `gorm:"type:text" json:"adminNotes"`
	ReviewedBy  *string                     `gorm:"size:64" json:"reviewedBy"`
	ReviewedAt  *time.Time                  `json:"reviewedAt"`
	CreatedAt   time.Time                   `gorm:"not null;index" json:"createdAt"`
}
