package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"snowcore/internal/chat"
	"snowcore/internal/middleware"
)

// ChatSubmitRequest is the body the chat form posts.
type ChatSubmitRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message" validate:"required"`
}

// ChatPOST submits a message and streams the copilot answer back as
// server-sent events. Each event is a chunk carrying the answer revealed so
// far; the final chunk has done=true. Closing the connection cancels the
// reveal but the session keeps the full answer.
func (h *Handlers) ChatPOST(c *gin.Context) {
	var req ChatSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format"})
		return
	}
	req.Message = middleware.SanitizeString(req.Message)

	sess := h.chat.Session(req.SessionID)

	flusher, canFlush := c.Writer.(http.Flusher)

	// The SSE headers go out with the first chunk, so a validation failure
	// below still gets a plain JSON error response.
	headersSent := false
	err := h.chat.Submit(c.Request.Context(), sess, req.Message, func(chunk chat.Chunk) {
		if !headersSent {
			c.Header("Content-Type", "text/event-stream")
			c.Header("Cache-Control", "no-cache")
			c.Header("Connection", "keep-alive")
			c.Header("X-Chat-Session", sess.ID())
			headersSent = true
		}
		payload, err := json.Marshal(chunk)
		if err != nil {
			return
		}
		c.Writer.WriteString("data: ")
		c.Writer.Write(payload)
		c.Writer.WriteString("\n\n")
		if canFlush {
			flusher.Flush()
		}
	})
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
	case errors.Is(err, chat.ErrBusy):
		c.JSON(http.StatusConflict, gin.H{"error": "Previous message still streaming"})
	}
}

// ChatMessagesGET returns the session transcript, for reconnecting clients.
func (h *Handlers) ChatMessagesGET(c *gin.Context) {
	sess := h.chat.Session(c.Query("sessionId"))
	resp := gin.H{
		"sessionId": sess.ID(),
		"messages":  sess.Messages(),
	}
	if sess.ShowSuggestions() {
		resp["suggestedQuestions"] = chat.SuggestedQuestions
	}
	c.JSON(http.StatusOK, resp)
}
