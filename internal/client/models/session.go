package models

import "time"

// Session is the logged-in identity of this client. It is passed to every
// operation that needs a login and is persisted as JSON under the
// "session" metadata key.
type Session struct {
	UserID       string     `json:"user_id"`
	Username     string     `json:"username"`
	CreatedAt    time.Time  `json:"created_at"`
	LastSeenAt   *time.Time `json:"last_seen_at,omitempty"`
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
}

type User struct {
	ID         string
	Username   string
	CreatedAt  time.Time
	LastSeenAt *time.Time
}
