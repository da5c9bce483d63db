package history

import (
	"context"

	"github.com/google/uuid"

	"github.com/tgo/tubechat/internal/model"
	"github.com/tgo/tubechat/internal/repository"
)

// DatabaseStore is the authoritative history store, backed by the messages
// table.
type DatabaseStore struct {
	messages *repository.MessageRepository
}

func NewDatabaseStore(messages *repository.MessageRepository) *DatabaseStore {
	return &DatabaseStore{messages: messages}
}

func (s *DatabaseStore) Append(ctx context.Context, chatID uuid.UUID, msgs ...model.Message) error {
	for _, msg := range msgs {
		if _, err := s.messages.Create(ctx, chatID, msg.Role, msg.Content); err != nil {
			return err
		}
	}
	return nil
}

func (s *DatabaseStore) Recent(ctx context.Context, chatID uuid.UUID, limit int) ([]model.Message, error) {
	msgs, err := s.messages.FindByChatID(ctx, chatID, limit)
	if err != nil {
		return nil, err
	}
	// repository returns newest-first; callers want chronological order
	reverse(msgs)
	return msgs, nil
}

func (s *DatabaseStore) Clear(ctx context.Context, chatID uuid.UUID) error {
	// messages are removed by the chat's cascading delete; nothing to do here
	return nil
}

func reverse(msgs []model.Message) {
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
}
