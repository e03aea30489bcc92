package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConversation_OrdersPair(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		a, b string
	}{
		{name: "already ordered", a: "u-alice", b: "u-bob"},
		{name: "reversed", a: "u-bob", b: "u-alice"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewConversation(tc.a, tc.b, "hello", at)

			assert.Equal(t, "u-alice", c.User1ID)
			assert.Equal(t, "u-bob", c.User2ID)
			assert.Equal(t, "hello", c.LastMessage)
			assert.Equal(t, at, c.LastMessageAt)
		})
	}
}

func TestNewConversation_SameUser(t *testing.T) {
	c := NewConversation("u-alice", "u-alice", "note", time.Time{})

	assert.Equal(t, c.User1ID, c.User2ID)
}
