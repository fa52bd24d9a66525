package services

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aladdinbruv/docproche-sub000/models"
)

const (
	MaxMessageLength   = 2000
	DefaultThreadLimit = 50
	MaxThreadLimit     = 200

	conversationScan = 500
)

type MessageService struct {
	messages MessageStore
	users    UserStore
}

func NewMessageService(messages MessageStore, users UserStore) *MessageService {
	return &MessageService{messages: messages, users: users}
}

func (s *MessageService) Send(senderID string, req models.SendMessageRequest) (*models.Message, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: message cannot be empty", ErrInvalid)
	}
	if utf8.RuneCountInString(content) > MaxMessageLength {
		return nil, fmt.Errorf("%w: message exceeds %d characters", ErrInvalid, MaxMessageLength)
	}
	if req.ReceiverID == senderID {
		return nil, fmt.Errorf("%w: cannot message yourself", ErrInvalid)
	}

	receiver, err := s.users.GetByID(req.ReceiverID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("receiver %w", ErrNotFound)
		}
		return nil, fmt.Errorf("get receiver: %w", err)
	}
	if !receiver.IsActive {
		return nil, fmt.Errorf("receiver %w", ErrNotFound)
	}

	msg, err := s.messages.Create(&models.Message{
		SenderID:      senderID,
		ReceiverID:    req.ReceiverID,
		AppointmentID: req.AppointmentID,
		Content:       content,
	})
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return msg, nil
}

// Thread returns the conversation between userID and otherID, oldest first.
// after is the polling cursor: only newer messages are returned. Without it
// the latest limit messages are returned.
func (s *MessageService) Thread(userID, otherID string, after *time.Time, limit int) ([]models.Message, error) {
	if limit < 1 || limit > MaxThreadLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalid, MaxThreadLimit)
	}
	return s.messages.Thread(userID, otherID, after, limit)
}

// Conversations groups the user's recent messages by counterpart, newest first.
func (s *MessageService) Conversations(userID string) ([]models.Conversation, error) {
	recent, err := s.messages.Recent(userID, conversationScan)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	var order []string
	byUser := map[string]*models.Conversation{}
	for _, m := range recent {
		other := m.SenderID
		if other == userID {
			other = m.ReceiverID
		}
		conv, ok := byUser[other]
		if !ok {
			conv = &models.Conversation{UserID: other, LastMessage: m}
			byUser[other] = conv
			order = append(order, other)
		}
		if m.ReceiverID == userID && !m.IsRead {
			conv.UnreadCount++
		}
	}

	users, err := s.users.GetMany(order)
	if err != nil {
		return nil, fmt.Errorf("load counterparts: %w", err)
	}
	for _, u := range users {
		if conv, ok := byUser[u.ID]; ok {
			conv.FullName = u.FullName
			conv.AvatarURL = u.AvatarURL
		}
	}

	out := make([]models.Conversation, 0, len(order))
	for _, id := range order {
		out = append(out, *byUser[id])
	}
	return out, nil
}

func (s *MessageService) MarkRead(userID, senderID string) (int, error) {
	updated, err := s.messages.MarkRead(senderID, userID)
	if err != nil {
		return 0, fmt.Errorf("mark messages read: %w", err)
	}
	return len(updated), nil
}

func (s *MessageService) UnreadCount(userID string) (int, error) {
	return s.messages.CountUnread(userID)
}
