package models

import "time"

// User is a registered account. Username is stored lowercase and is unique.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	LastSeenAt   *time.Time
}
