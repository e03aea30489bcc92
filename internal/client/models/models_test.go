package models

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSnippet(t *testing.T) {
	assert.Equal(t, "hi", Snippet("hi"))

	exact := strings.Repeat("a", SnippetLength)
	assert.Equal(t, exact, Snippet(exact))

	long := strings.Repeat("ж", SnippetLength+5)
	got := Snippet(long)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, SnippetLength+3, utf8.RuneCountInString(got))
}

func TestMessage_Peer(t *testing.T) {
	m := &Message{FromUserID: "u1", FromUsername: "alice", ToUserID: "u2", ToUsername: "bob"}
	assert.Equal(t, "bob", m.Peer("u1"))
	assert.Equal(t, "alice", m.Peer("u2"))
}
