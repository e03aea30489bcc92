package models

import "time"

// Message is a direct message between two users. FromUsername and
// ToUsername are filled by queries that join users and are empty otherwise.
type Message struct {
	ID            string
	FromUserID    string
	ToUserID      string
	FromUsername  string
	ToUsername    string
	Content       string
	Type          string
	AttachmentKey string
	ReadAt        *time.Time
	CreatedAt     time.Time
}

// Conversation links two users that have chatted. User1ID sorts before
// User2ID so a pair maps to exactly one row.
type Conversation struct {
	ID            string
	User1ID       string
	User2ID       string
	LastMessage   string
	LastMessageAt time.Time
	CreatedAt     time.Time
}

// NewConversation returns the conversation between users a and b in
// either order, with User1ID <= User2ID.
func NewConversation(a, b, last string, at time.Time) *Conversation {
	if b < a {
		a, b = b, a
	}
	return &Conversation{
		User1ID:       a,
		User2ID:       b,
		LastMessage:   last,
		LastMessageAt: at,
	}
}

// ConversationSummary is a conversation seen from one participant.
type ConversationSummary struct {
	PeerID        string
	PeerUsername  string
	LastMessage   string
	LastMessageAt time.Time
}
