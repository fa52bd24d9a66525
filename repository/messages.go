package repository

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/aladdinbruv/docproche-sub000/models"
)

const messagesTable = "messages"

type MessageRepository struct {
	db Querier
}

func NewMessageRepository(db Querier) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(m *models.Message) (*models.Message, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	row := map[string]interface{}{
		"id":          m.ID,
		"sender_id":   m.SenderID,
		"receiver_id": m.ReceiverID,
		"content":     m.Content,
		"is_read":     false,
	}
	if m.AppointmentID != nil {
		row["appointment_id"] = *m.AppointmentID
	}

	return first[models.Message](r.db.From(messagesTable).
		Insert(row, false, "", "representation", ""))
}

// Thread returns messages between a and b in ascending order. With a cursor
// it pages forward from it. Without one it returns the latest limit messages.
func (r *MessageRepository) Thread(a, b string, after *time.Time, limit int) ([]models.Message, error) {
	query := r.db.From(messagesTable).
		Select("*", "", false).
		Or(fmt.Sprintf("and(sender_id.eq.%s,receiver_id.eq.%s),and(sender_id.eq.%s,receiver_id.eq.%s)",
			quote(a), quote(b), quote(b), quote(a)), "")

	if after != nil {
		query = query.Gt("created_at", after.UTC().Format(time.RFC3339Nano))
		return fetch[models.Message](query.
			Order(orderBy("created_at", true)).
			Limit(limit, ""))
	}

	msgs, err := fetch[models.Message](query.
		Order(orderBy("created_at", false)).
		Limit(limit, ""))
	if err != nil {
		return nil, err
	}
	slices.Reverse(msgs)
	return msgs, nil
}

// Recent returns the newest messages the user sent or received.
func (r *MessageRepository) Recent(userID string, limit int) ([]models.Message, error) {
	return fetch[models.Message](r.db.From(messagesTable).
		Select("*", "", false).
		Or(fmt.Sprintf("sender_id.eq.%s,receiver_id.eq.%s", quote(userID), quote(userID)), "").
		Order(orderBy("created_at", false)).
		Limit(limit, ""))
}

// MarkRead flags every unread message from sender to receiver and returns them.
func (r *MessageRepository) MarkRead(senderID, receiverID string) ([]models.Message, error) {
	return fetch[models.Message](r.db.From(messagesTable).
		Update(map[string]interface{}{"is_read": true}, "representation", "").
		Eq("sender_id", senderID).
		Eq("receiver_id", receiverID).
		Eq("is_read", "false"))
}

func (r *MessageRepository) CountUnread(receiverID string) (int, error) {
	rows, err := fetch[models.Message](r.db.From(messagesTable).
		Select("id", "", false).
		Eq("receiver_id", receiverID).
		Eq("is_read", "false"))
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}
