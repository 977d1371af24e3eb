package models

import "time"

// WinnerResult is the tri-state outcome of a player's match. "unknown"
// is the initial state until an administrator records the result.
type WinnerResult string

const (
	WinnerUnknown WinnerResult = "unknown"
	WinnerLost    WinnerResult = "lost"
	WinnerWon     WinnerResult = "won"
)

func (w WinnerResult) Valid() bool {
	switch w {
	case WinnerUnknown, WinnerLost, WinnerWon:
		return true
	}
	return false
}

// PlayerMatchStat is one row per (user, match), created when the
// enrollment becomes active and deleted when it is cancelled. Outcome
// fields are populated out-of-band by an administrator after the match.
type PlayerMatchStat struct {
	ID       int          `json:"id" db:"id"`
	UserID   int          `json:"user_id" db:"user_id"`
	MatchID  int          `json:"match_id" db:"match_id"`
	Goals    int          `json:"goals" db:"goals"`
	IsWinner WinnerResult `json:"is_winner" db:"is_winner"`
	IsMVP    bool         `json:"is_mvp" db:"is_mvp"`
	Notes    string       `json:"notes,omitempty" db:"notes"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Match *Match `json:"match,omitempty" db:"-"`
}

// StatsSummary aggregates a user's stat rows.
type StatsSummary struct {
	MatchesPlayed int `json:"matches_played"`
	TotalGoals    int `json:"total_goals"`
	Wins          int `json:"wins"`
	MVPCount      int `json:"mvp_count"`
}
