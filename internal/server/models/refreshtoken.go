package models

import "time"

type RefreshToken struct {
	UserID    string
	Token     string
	ExpiresAt time.Time
}

func (t *RefreshToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
