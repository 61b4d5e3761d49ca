package models

import (
	"time"

	"gorm.io/datatypes"
)

type ChatSession struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	UserID    uint          `gorm:"not null;index" json:"-"`
	Mode      ChatMode      `gorm:"size:20;not null;default:BEGINNER" json:"mode"`
	Title     string        `gorm:"size:200" json:"title"`
	IsActive  bool          `gorm:"not null" json:"is_active"`
	Messages  []ChatMessage `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `gorm:"index" json:"updated_at"`
}

// DefaultTitle is used when a session is saved without one,
// e.g. "Grammar Explanation - Oct 15, 2026".
func (s *ChatSession) DefaultTitle(now time.Time) string {
	return s.Mode.Display() + " - " + now.Format("Jan 02, 2006")
}

type ChatMessage struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	SessionID   uint           `gorm:"not null;index:idx_session_created" json:"-"`
	Role        MessageRole    `gorm:"size:10;not null" json:"role"`
	Content     string         `gorm:"not null" json:"content"`
	Corrections datatypes.JSON `json:"corrections"`
	CreatedAt   time.Time      `gorm:"index:idx_session_created" json:"created_at"`
}
