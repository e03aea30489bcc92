package models

import (
	"time"
	"unicode/utf8"
)

type Message struct {
	ID           string
	FromUserID   string
	ToUserID     string
	FromUsername string
	ToUsername   string
	Content      string
	Type         string
	ReadAt       *time.Time
	CreatedAt    time.Time
}

// Peer returns the other participant's username as seen by userID.
func (m *Message) Peer(userID string) string {
	if m.FromUserID == userID {
		return m.ToUsername
	}
	return m.FromUsername
}

// Conversation is one entry of the server's conversation list.
type Conversation struct {
	PeerUsername  string
	LastMessage   string
	LastMessageAt time.Time
}

// SnippetLength is the number of runes kept in ChatHistoryEntry.LastMessage.
const SnippetLength = 50

// ChatHistoryEntry is a recent chat peer. The table is a cache rebuilt from
// the server's conversation list when needed.
type ChatHistoryEntry struct {
	ID           string
	Username     string
	LastMessage  string
	LastActivity time.Time
	UnreadCount  int
}

// Snippet cuts text to SnippetLength runes, appending "..." when it had to
// cut.
func Snippet(text string) string {
	if utf8.RuneCountInString(text) <= SnippetLength {
		return text
	}
	r := []rune(text)
	return string(r[:SnippetLength]) + "..."
}

// StoredMessage is a journal row for a message this client sent or showed.
type StoredMessage struct {
	ID           int64
	MessageID    string
	PeerUsername string
	FromUsername string
	Content      string
	Type         string
	CreatedAt    time.Time
	StoredAt     time.Time
}
