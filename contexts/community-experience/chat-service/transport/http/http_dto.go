package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type PostMessageRequest struct {
	ChannelID string `json:"channel_id"`
	AuthorID  string `json:"author_id"`
	Content   string `json:"content"`
}

type EditMessageRequest struct {
	AuthorID string `json:"author_id"`
	Content  string `json:"content"`
}

type DeleteMessageRequest struct {
	AuthorID string `json:"author_id"`
}

type MessageResponse struct {
	MessageID string     `json:"message_id"`
	ChannelID string     `json:"channel_id"`
	AuthorID  string     `json:"author_id"`
	Content   string     `json:"content"`
	Sequence  int64      `json:"sequence"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Edited    bool       `json:"edited"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

type MessagesResponse struct {
	Items []MessageResponse `json:"items"`
}
