package domain

import "time"

// Badge is an achievement derived from a user's workout history. Badges are
// computed on read and never stored.
type Badge struct {
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	EarnedAt    time.Time `json:"earnedAt"`
}
