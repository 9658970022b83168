package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bharadwajreddy07/Namaste-Messenger/internal/chat"
	"github.com/bharadwajreddy07/Namaste-Messenger/internal/http/middleware"
	"github.com/bharadwajreddy07/Namaste-Messenger/internal/store"
)

// ChatHandler serves message history and the HTTP send path. Sends go
// through the same router as the realtime transports, so an HTTP-posted
// message still fans out to live connections.
type ChatHandler struct {
	Store  *store.Store
	Engine *chat.Engine
}

// ListMessages backfills history missed while offline: general messages
// plus direct messages the caller sent or received, ascending by server
// timestamp.
func (h *ChatHandler) ListMessages(c *gin.Context) {
	user := middleware.MustUser(c)

	msgs, err := h.Store.ListMessagesFor(c.Request.Context(), user.ID, user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	out := make([]gin.H, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, gin.H{
			"id":             m.ID,
			"msgId":          m.MsgID,
			"content":        m.Content,
			"senderId":       m.SenderID,
			"senderUsername": m.From,
			"recipientId":    m.RecipientID,
			"type":           m.Type,
			"createdAt":      m.Timestamp,
			"timestamp":      m.Timestamp,
			"recipients":     m.Recipients,
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "messages": out})
}

type sendMessageReq struct {
	To          string `json:"to"`
	Content     string `json:"content"`
	Type        string `json:"type"`
	RecipientID *uint  `json:"recipientId"`
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	user := middleware.MustUser(c)

	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
		return
	}

	msg, err := h.Engine.Router.Send(c.Request.Context(), user, chat.SendInput{
		Type:        req.Type,
		Content:     req.Content,
		To:          req.To,
		RecipientID: req.RecipientID,
	})
	switch {
	case errors.Is(err, chat.ErrEmptyContent):
		c.JSON(http.StatusBadRequest, gin.H{"error": "message content is required"})
		return
	case errors.Is(err, chat.ErrRecipientNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "recipient not found"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "message sent successfully",
		"msgId":   msg.MsgID,
		"data": gin.H{
			"id":             msg.ID,
			"msgId":          msg.MsgID,
			"from":           msg.From,
			"to":             msg.To,
			"content":        msg.Content,
			"timestamp":      msg.Timestamp,
			"type":           msg.Type,
			"senderId":       msg.SenderID,
			"recipientId":    msg.RecipientID,
			"senderUsername": msg.From,
		},
	})
}

type ackReq struct {
	MsgID string `json:"msgId" binding:"required"`
}

func (h *ChatHandler) AckMessage(c *gin.Context) {
	user := middleware.MustUser(c)

	var req ackReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message id is required"})
		return
	}

	if err := h.Engine.Router.Ack(c.Request.Context(), user.Username, req.MsgID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "message acknowledged"})
}
