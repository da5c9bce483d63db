package model

import (
	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	BaseModel
	ChatID  uuid.UUID `gorm:"type:uuid;not null;index" json:"chat_id"`
	Role    Role      `gorm:"size:20;not null" json:"role"`
	Content string    `gorm:"type:text;not null" json:"content"`

	// Relations
	Chat *Chat `gorm:"foreignKey:ChatID;constraint:OnDelete:CASCADE" json:"chat,omitempty"`
}

func (Message) TableName() string {
	return "messages"
}
