// README: Chat handler; one dialogue turn per request.
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"packwise/internal/service"
)

// A turn can chain several model calls (extraction, detection, narration), so
// the timeout is generous.
const chatTimeout = 30 * time.Second

// Advisor is the orchestration surface the handler needs. Satisfied by
// service.Advisor.
type Advisor interface {
	ProcessMessage(ctx context.Context, req service.Request) (*service.Response, error)
}

type ChatHandler struct {
	advisor Advisor
}

func NewChatHandler(advisor Advisor) *ChatHandler {
	return &ChatHandler{advisor: advisor}
}

type chatReq struct {
	SessionID  string `json:"session_id"`
	CustomerID int64  `json:"customer_id"`
	Message    string `json:"message"`
}

// Chat handles POST /api/chat.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	req.SessionID = strings.TrimSpace(req.SessionID)
	req.Message = strings.TrimSpace(req.Message)
	if req.SessionID == "" || req.Message == "" {
		writeError(c, http.StatusBadRequest, "missing session_id or message")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), chatTimeout)
	defer cancel()

	resp, err := h.advisor.ProcessMessage(ctx, service.Request{
		SessionID:  req.SessionID,
		CustomerID: req.CustomerID,
		Message:    req.Message,
	})
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(c, http.StatusOK, resp)
}
