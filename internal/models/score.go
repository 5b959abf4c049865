package models

import "time"

// Score is one finished run of the typing game.
type Score struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	PlayerName       string    `gorm:"size:32;not null;index" json:"playerName"`
	Score            int       `gorm:"not null;index" json:"score"`
	Time             float64   `gorm:"not null" json:"time"`
	LettersPerSecond float64   `gorm:"not null" json:"lettersPerSecond"`
	Mistakes         int       `gorm:"not null" json:"mistakes"`
	CreatedAt        time.Time `json:"createdAt"`
}
