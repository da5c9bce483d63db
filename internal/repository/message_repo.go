package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tgo/tubechat/internal/model"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, chatID uuid.UUID, role model.Role, content string) (*model.Message, error) {
	msg := &model.Message{
		ChatID:  chatID,
		Role:    role,
		Content: content,
	}
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}

// FindByChatID returns messages newest-first. A limit of 0 returns all.
func (r *MessageRepository) FindByChatID(ctx context.Context, chatID uuid.UUID, limit int) ([]model.Message, error) {
	var msgs []model.Message
	query := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&msgs).Error
	return msgs, err
}

func (r *MessageRepository) CountByChatID(ctx context.Context, chatID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("chat_id = ?", chatID).
		Count(&count).Error
	return count, err
}
