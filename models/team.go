package models

import "time"

type Team struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	BadgeURL  string    `json:"badge_url,omitempty" db:"badge_url"`
	CoverURL  string    `json:"cover_url,omitempty" db:"cover_url"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TeamMembership is one row of the user-team history ledger. The open
// (current) row has DateTo = nil; the storage layer guarantees at most
// one open row per user.
type TeamMembership struct {
	ID        int        `json:"id" db:"id"`
	UserID    int        `json:"user_id" db:"user_id"`
	TeamID    int        `json:"team_id" db:"team_id"`
	DateFrom  time.Time  `json:"date_from" db:"date_from"`
	DateTo    *time.Time `json:"date_to,omitempty" db:"date_to"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`

	Team *Team `json:"team,omitempty" db:"-"`
}
