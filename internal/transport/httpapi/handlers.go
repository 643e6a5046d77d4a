package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/poolmart/poolbot/internal/core"
	"github.com/poolmart/poolbot/pkg/log"
)

type chatRequest struct {
	Message string `json:"message" binding:"required"`
	History []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"conversation_history"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// telegramUpdate is the slice of Telegram's update payload the webhook
// cares about.
type telegramUpdate struct {
	Message *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": core.BotName,
		"version": core.BotVersion,
	})
}

// handleChat answers one message with caller-supplied history. Nothing is
// persisted; integrators own their conversation state.
func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Message is required"})
		return
	}

	history := make([]core.Message, 0, len(req.History))
	for _, m := range req.History {
		history = append(history, core.Message{Role: m.Role, Content: m.Content})
	}

	reply := s.service.HandleStateless(s.baseCtx, req.Message, history)
	c.JSON(http.StatusOK, chatResponse{Response: reply})
}

// handleTelegramWebhook accepts Telegram update JSON. Updates without a
// text message are acknowledged and skipped; processing failures are also
// acknowledged so Telegram does not redeliver the update.
func (s *Server) handleTelegramWebhook(c *gin.Context) {
	var update telegramUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		log.FromCtx(s.baseCtx).Warn().Err(err).Msg("unparsable telegram webhook payload")
		c.JSON(http.StatusOK, gin.H{"status": "error", "message": err.Error()})
		return
	}

	if update.Message == nil || update.Message.Text == "" {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	sessionID := fmt.Sprintf("telegram-%d", update.Message.Chat.ID)
	s.service.Handle(s.baseCtx, sessionID, update.Message.Text)

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
