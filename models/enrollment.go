package models

import "time"

// Enrollment is a user's reservation against a match. There is at most
// one row per (match, user); joining again after a cancellation
// reactivates the same row instead of creating a duplicate.
type Enrollment struct {
	ID          int        `json:"id" db:"id"`
	MatchID     int        `json:"match_id" db:"match_id"`
	UserID      int        `json:"user_id" db:"user_id"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	JoinedAt    *time.Time `json:"joined_at,omitempty" db:"joined_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty" db:"cancelled_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}
