package model

import (
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// TranscriptChunk is a bounded slice of a video transcript with its embedding.
// Chunks are written once at ingestion time and never updated; they disappear
// only through the video's cascading delete.
type TranscriptChunk struct {
	BaseModel
	VideoID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"video_id"`
	Title     string          `gorm:"size:500;not null" json:"title"`
	Content   string          `gorm:"type:text;not null" json:"content"`
	Embedding pgvector.Vector `gorm:"type:vector(768)" json:"-"` // dimension must match EMBEDDING_DIMENSION

	// Relations
	Video *Video `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE" json:"video,omitempty"`
}

func (TranscriptChunk) TableName() string {
	return "transcript_chunks"
}
