package models

import "time"

// SessionToken is a device-scoped opaque bearer token. One row per
// (user, device); reissuing for the same device replaces the token
// value, invalidating the previous one.
type SessionToken struct {
	ID        int       `json:"-" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	DeviceID  string    `json:"device_id" db:"device_id"`
	Token     string    `json:"-" db:"token"`
	IPAddress string    `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent string    `json:"user_agent,omitempty" db:"user_agent"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	LastSeen  time.Time `json:"last_seen" db:"last_seen"`
}
