package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smartcook/backend/internal/assistant"
	"github.com/smartcook/backend/internal/models"
	"github.com/smartcook/backend/internal/service"
)

// ChatRequest is the body of POST /chat. SessionID is optional; a new
// session is started when it is absent.
type ChatRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"session_id"`
}

// ChatResponse is the answer envelope of POST /chat.
type ChatResponse struct {
	Answer    string `json:"answer"`
	SessionID string `json:"session_id"`
}

// ChatHandler exposes the assistant pipeline and the transcript over HTTP.
type ChatHandler struct {
	assistant    *assistant.Assistant
	chats        *service.ChatService
	historyLimit int
	logger       *zap.Logger
}

// NewChatHandler creates a new ChatHandler instance
func NewChatHandler(a *assistant.Assistant, chats *service.ChatService, historyLimit int, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		assistant:    a,
		chats:        chats,
		historyLimit: historyLimit,
		logger:       logger,
	}
}

// Chat appends the user message, runs the pipeline and appends the answer.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	sessionID, err := resolveSessionID(req.SessionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session_id"})
		return
	}

	ctx := c.Request.Context()
	if err := h.chats.Append(ctx, sessionID, models.RoleUser, req.Message); err != nil {
		h.logger.Error("failed to append user message", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "transcript store unavailable"})
		return
	}

	answer, err := h.assistant.HandleQuery(ctx, req.Message)
	if err != nil {
		// Only store failures surface as errors; everything else is answer text.
		h.logger.Error("pipeline store failure", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "recipe store unavailable"})
		return
	}

	if err := h.chats.Append(ctx, sessionID, models.RoleAssistant, answer); err != nil {
		h.logger.Error("failed to append assistant message", zap.Error(err))
	}

	c.JSON(http.StatusOK, ChatResponse{Answer: answer, SessionID: sessionID.String()})
}

// History returns the newest messages of a session, newest first.
func (h *ChatHandler) History(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Query("session_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "valid session_id is required"})
		return
	}

	limit := h.historyLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	messages, err := h.chats.Recent(c.Request.Context(), sessionID, limit)
	if err != nil {
		h.logger.Error("failed to load history", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "transcript store unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func resolveSessionID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.New(), nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.New("invalid session id")
	}
	return id, nil
}
