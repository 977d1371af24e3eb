package models

import (
	"time"

	"github.com/google/uuid"
)

// MatchStatus represents the match lifecycle, matching the ENUM in the DB.
type MatchStatus string

const (
	MatchStatusDraft     MatchStatus = "draft"
	MatchStatusPublished MatchStatus = "published"
	MatchStatusCancelled MatchStatus = "cancelled"
	MatchStatusFinished  MatchStatus = "finished"
)

// Match is a scheduled, capacity-bounded football session.
// Identifier is the stable public UUID exposed in URLs and payment
// external references; ID is the internal surrogate key.
type Match struct {
	ID              int         `json:"-" db:"id"`
	Identifier      uuid.UUID   `json:"match_identifier" db:"match_identifier"`
	Title           string      `json:"title" db:"title"`
	LocationID      *int        `json:"-" db:"location_id"`
	StartAt         time.Time   `json:"start_at" db:"start_at"`
	DurationMinutes int         `json:"duration_minutes" db:"duration_minutes"`
	Capacity        int         `json:"capacity" db:"capacity"`
	PriceAmount     float64     `json:"price_amount" db:"price_amount"`
	PriceCurrency   string      `json:"price_currency" db:"price_currency"`
	Status          MatchStatus `json:"status" db:"status"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`

	Location *Location `json:"location,omitempty" db:"-"`
}

// Location describes where a match is played.
type Location struct {
	ID        int    `json:"-" db:"id"`
	District  string `json:"district" db:"district"`
	Address   string `json:"address" db:"address"`
	MapsURL   string `json:"maps_url,omitempty" db:"maps_url"`
	FieldName string `json:"field_name,omitempty" db:"field_name"`
}
