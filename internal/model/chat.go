package model

import (
	"time"

	"github.com/google/uuid"
)

type Chat struct {
	BaseModel
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Chat) TableName() string {
	return "chats"
}

// ChatVideo associates a chat with one of the videos it discusses.
// Deleting either side removes the association; deleting a video never
// deletes the chats that referenced it.
type ChatVideo struct {
	BaseModel
	ChatID  uuid.UUID `gorm:"type:uuid;not null;index:idx_chat_videos_chat_video" json:"chat_id"`
	VideoID uuid.UUID `gorm:"type:uuid;not null;index:idx_chat_videos_chat_video" json:"video_id"`

	// Relations
	Chat  *Chat  `gorm:"foreignKey:ChatID;constraint:OnDelete:CASCADE" json:"chat,omitempty"`
	Video *Video `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE" json:"video,omitempty"`
}

func (ChatVideo) TableName() string {
	return "chat_videos"
}
