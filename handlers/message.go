package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aladdinbruv/docproche-sub000/models"
	"github.com/aladdinbruv/docproche-sub000/services"
)

type MessageHandler struct {
	messages MessageService
}

func NewMessageHandler(messages MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	msg, err := h.messages.Send(actor(c).UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Message sent", msg)
}

func (h *MessageHandler) GetConversations(c *gin.Context) {
	convs, err := h.messages.Conversations(actor(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "", convs)
}

// GetThread returns the messages exchanged with :user_id. Clients poll with
// after set to the created_at of the last message they hold.
func (h *MessageHandler) GetThread(c *gin.Context) {
	var after *time.Time
	if v := c.Query("after"); v != "" {
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.Response{
				Success: false,
				Error:   "after must be an RFC3339 timestamp",
			})
			return
		}
		after = &t
	}

	limit := services.DefaultThreadLimit
	if v, ok := c.GetQuery("limit"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.Response{
				Success: false,
				Error:   "limit must be a number",
			})
			return
		}
		limit = n
	}

	msgs, err := h.messages.Thread(actor(c).UserID, c.Param("user_id"), after, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "", msgs)
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	n, err := h.messages.MarkRead(actor(c).UserID, c.Param("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Messages marked as read", gin.H{"updated": n})
}

func (h *MessageHandler) GetUnreadCount(c *gin.Context) {
	n, err := h.messages.UnreadCount(actor(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "", gin.H{"unread": n})
}
