package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartcook/backend/internal/models"
)

// ChatService persists the append-only chat transcript.
type ChatService struct {
	db *gorm.DB
}

// NewChatService creates a new ChatService instance
func NewChatService(db *gorm.DB) *ChatService {
	return &ChatService{db: db}
}

// Append stores a single transcript entry.
func (s *ChatService) Append(ctx context.Context, sessionID uuid.UUID, role, content string) error {
	msg := models.Message{
		SessionID: sessionID,
		Role:      role,
		Content:   content,
	}
	return s.db.WithContext(ctx).Create(&msg).Error
}

// Recent returns the newest messages of a session, newest first.
func (s *ChatService) Recent(ctx context.Context, sessionID uuid.UUID, limit int) ([]models.Message, error) {
	var messages []models.Message
	if err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id DESC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}
