package models

import (
	"time"

	"github.com/google/uuid"
)

// Message roles as stored in the transcript.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry of the append-only chat transcript.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;index" json:"session_id"`
	Role      string    `gorm:"size:20;not null" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
