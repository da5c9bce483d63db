package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/tgo/tubechat/internal/history"
	"github.com/tgo/tubechat/internal/model"
	"github.com/tgo/tubechat/internal/repository"
)

// ChatService manages chat lifecycle: creation, listing, message retrieval
// and deletion.
type ChatService struct {
	chats    *repository.ChatRepository
	messages *repository.MessageRepository
	history  history.Store
}

func NewChatService(chats *repository.ChatRepository, messages *repository.MessageRepository, hist history.Store) *ChatService {
	return &ChatService{chats: chats, messages: messages, history: hist}
}

// Create starts a chat over at least one video.
func (s *ChatService) Create(ctx context.Context, videoIDs []uuid.UUID) (*model.Chat, error) {
	if len(videoIDs) == 0 {
		return nil, ErrNoVideos
	}

	chat, err := s.chats.Create(ctx)
	if err != nil {
		return nil, fmt.Errorf("create chat: %w", err)
	}
	if err := s.chats.AddVideos(ctx, chat.ID, videoIDs); err != nil {
		return nil, fmt.Errorf("associate videos: %w", err)
	}

	log.Printf("[Chat] Created chat %s with %d videos", chat.ID, len(videoIDs))
	return chat, nil
}

func (s *ChatService) List(ctx context.Context) ([]repository.ChatSummary, error) {
	return s.chats.FindAllWithLatestMessage(ctx)
}

// Messages returns a chat's full message history, oldest first.
func (s *ChatService) Messages(ctx context.Context, chatID uuid.UUID) ([]model.Message, error) {
	chat, err := s.chats.FindByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, fmt.Errorf("%w: %s", ErrChatNotFound, chatID)
	}

	msgs, err := s.messages.FindByChatID(ctx, chatID, 0)
	if err != nil {
		return nil, err
	}
	// newest-first from the repository; flip to chronological order
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// Delete removes a chat, its messages and its video associations. The
// videos themselves are untouched.
func (s *ChatService) Delete(ctx context.Context, chatID uuid.UUID) error {
	chat, err := s.chats.FindByID(ctx, chatID)
	if err != nil {
		return err
	}
	if chat == nil {
		return fmt.Errorf("%w: %s", ErrChatNotFound, chatID)
	}

	if err := s.chats.Delete(ctx, chatID); err != nil {
		return fmt.Errorf("delete chat: %w", err)
	}
	if err := s.history.Clear(ctx, chatID); err != nil {
		log.Printf("[Chat] History clear failed for %s: %v", chatID, err)
	}

	log.Printf("[Chat] Deleted chat %s", chatID)
	return nil
}
