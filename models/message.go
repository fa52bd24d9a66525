package models

import "time"

type Message struct {
	ID            string    `json:"id"`
	SenderID      string    `json:"sender_id"`
	ReceiverID    string    `json:"receiver_id"`
	AppointmentID *string   `json:"appointment_id,omitempty"`
	Content       string    `json:"content"`
	IsRead        bool      `json:"is_read"`
	CreatedAt     time.Time `json:"created_at"`
}

type SendMessageRequest struct {
	ReceiverID    string  `json:"receiver_id" binding:"required"`
	Content       string  `json:"content" binding:"required,max=2000"`
	AppointmentID *string `json:"appointment_id,omitempty"`
}

// Conversation summarises the latest exchange with one counterpart.
type Conversation struct {
	UserID      string  `json:"user_id"`
	FullName    string  `json:"full_name"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	LastMessage Message `json:"last_message"`
	UnreadCount int     `json:"unread_count"`
}
