package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tgo/tubechat/internal/model"
)

type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// ChatSummary is a chat with its most recent message, for listing.
type ChatSummary struct {
	ID            uuid.UUID      `json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	LatestMessage *model.Message `json:"latest_message,omitempty"`
}

func (r *ChatRepository) Create(ctx context.Context) (*model.Chat, error) {
	chat := &model.Chat{}
	if err := r.db.WithContext(ctx).Create(chat).Error; err != nil {
		return nil, err
	}
	return chat, nil
}

func (r *ChatRepository) AddVideos(ctx context.Context, chatID uuid.UUID, videoIDs []uuid.UUID) error {
	if len(videoIDs) == 0 {
		return nil
	}
	associations := make([]model.ChatVideo, 0, len(videoIDs))
	for _, videoID := range videoIDs {
		associations = append(associations, model.ChatVideo{ChatID: chatID, VideoID: videoID})
	}
	return r.db.WithContext(ctx).Create(&associations).Error
}

func (r *ChatRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Chat, error) {
	var chat model.Chat
	err := r.db.WithContext(ctx).First(&chat, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

// Touch bumps the chat's updated_at so answered chats sort first in listings.
func (r *ChatRepository) Touch(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Chat{}).
		Where("id = ?", id).
		Update("updated_at", time.Now()).Error
}

// VideosForChat returns the videos associated with a chat, in association
// order. Videos deleted since the chat was created simply drop out.
func (r *ChatRepository) VideosForChat(ctx context.Context, chatID uuid.UUID) ([]model.Video, error) {
	var videos []model.Video
	err := r.db.WithContext(ctx).
		Table("videos").
		Select("videos.*").
		Joins("INNER JOIN chat_videos ON chat_videos.video_id = videos.id").
		Where("chat_videos.chat_id = ?", chatID).
		Order("chat_videos.created_at ASC").
		Find(&videos).Error
	return videos, err
}

func (r *ChatRepository) FindAllWithLatestMessage(ctx context.Context) ([]ChatSummary, error) {
	var chats []model.Chat
	if err := r.db.WithContext(ctx).Order("updated_at DESC").Find(&chats).Error; err != nil {
		return nil, err
	}
	if len(chats) == 0 {
		return []ChatSummary{}, nil
	}

	chatIDs := make([]uuid.UUID, len(chats))
	for i, chat := range chats {
		chatIDs[i] = chat.ID
	}

	var latest []model.Message
	err := r.db.WithContext(ctx).
		Raw(`SELECT DISTINCT ON (chat_id) * FROM messages
		     WHERE chat_id IN ?
		     ORDER BY chat_id, created_at DESC`, chatIDs).
		Scan(&latest).Error
	if err != nil {
		return nil, err
	}

	latestByChat := make(map[uuid.UUID]*model.Message, len(latest))
	for i := range latest {
		latestByChat[latest[i].ChatID] = &latest[i]
	}

	summaries := make([]ChatSummary, 0, len(chats))
	for _, chat := range chats {
		summaries = append(summaries, ChatSummary{
			ID:            chat.ID,
			CreatedAt:     chat.CreatedAt,
			UpdatedAt:     chat.UpdatedAt,
			LatestMessage: latestByChat[chat.ID],
		})
	}
	return summaries, nil
}

func (r *ChatRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Chat{}, "id = ?", id).Error
}
