package models

import "time"

// UserRole separates regular players from the administrators who
// record match results.
type UserRole string

const (
	RolePlayer UserRole = "player"
	RoleAdmin  UserRole = "admin"
)

type User struct {
	ID             int       `json:"id" db:"id"`
	Email          string    `json:"email" db:"email"`
	DocumentType   string    `json:"document_type" db:"document_type"`
	DocumentNumber string    `json:"document_number" db:"document_number"`
	FirstName      string    `json:"first_name" db:"first_name"`
	LastName       string    `json:"last_name" db:"last_name"`
	Phone          string    `json:"phone,omitempty" db:"phone"`
	PhotoURL       *string   `json:"photo,omitempty" db:"photo_url"`
	TeamID         *int      `json:"team_id,omitempty" db:"team_id"`
	IsActive       bool      `json:"is_active" db:"is_active"`
	Role           UserRole  `json:"role" db:"role"`
	PasswordHash   string    `json:"-" db:"password_hash"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`

	// Optional related entities (not mapped directly)
	Team *Team `json:"team,omitempty" db:"-"`
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
