// Package models defines the GORM models persisted by kcalbot.
package models

import "time"

// Entry modes. Weight entries derive kcal from grams and density;
// direct entries carry a user-supplied kcal value.
const (
	ModeWeight = "weight"
	ModeDirect = "direct"
)

// Entry is one recorded consumption event for a user on a calendar day.
// Entries are append-only: created exactly once by a completed dialogue,
// never updated, and deleted only in bulk by a per-day reset.
type Entry struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     string    `gorm:"size:64;not null;index:idx_user_day" json:"user_id"`
	Day        string    `gorm:"size:10;not null;index:idx_user_day" json:"day"` // YYYY-MM-DD
	Name       string    `gorm:"size:255;not null" json:"name"`
	Mode       string    `gorm:"size:16;not null;default:weight" json:"mode"`
	Grams      *float64  `json:"grams,omitempty"`       // weight mode only
	KcalPer100 *float64  `json:"kcal_per100,omitempty"` // weight mode only
	Kcal       float64   `gorm:"not null" json:"kcal"`  // total energy, computed once at creation
	CreatedAt  time.Time `json:"created_at"`
}

// IsWeight reports whether the entry was recorded by weight and density.
func (e *Entry) IsWeight() bool {
	return e.Mode == ModeWeight
}
