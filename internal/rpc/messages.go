package rpc

import "time"

type Empty struct{}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type User struct {
	ID         string     `json:"id"`
	Username   string     `json:"username"`
	CreatedAt  time.Time  `json:"created_at"`
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type FindUserRequest struct {
	Username string `json:"username"`
}

type FindUserResponse struct {
	User User `json:"user"`
}

type Message struct {
	ID           string     `json:"id"`
	FromUserID   string     `json:"from_user_id"`
	ToUserID     string     `json:"to_user_id"`
	FromUsername string     `json:"from_username,omitempty"`
	ToUsername   string     `json:"to_username,omitempty"`
	Content      string     `json:"content"`
	Type         string     `json:"message_type"`
	ReadAt       *time.Time `json:"read_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type SendMessageRequest struct {
	ToUsername string `json:"to_username"`
	Content    string `json:"content"`
	Type       string `json:"message_type"`
}

type SendMessageResponse struct {
	Message Message `json:"message"`
}

type MessagesResponse struct {
	Messages []*Message `json:"messages"`
}

type MarkReadRequest struct {
	MessageID string `json:"message_id"`
}

type ChatHistoryRequest struct {
	PeerUsername string `json:"peer_username"`
}

type FindAttachmentRequest struct {
	BaseName     string `json:"base_name"`
	PeerUsername string `json:"peer_username"`
}

type FindAttachmentResponse struct {
	MessageID string `json:"message_id"`
	Content   string `json:"content"`
}

type Conversation struct {
	PeerUsername  string     `json:"peer_username"`
	LastMessage   string     `json:"last_message"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
}

type ConversationsResponse struct {
	Conversations []*Conversation `json:"conversations"`
}

type AttachmentURLRequest struct {
	MessageID string `json:"message_id"`
}

type AttachmentURLResponse struct {
	URL string `json:"url"`
}
