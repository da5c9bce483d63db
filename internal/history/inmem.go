package history

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/tgo/tubechat/internal/model"
)

// InMemoryStore keeps history in a process-local map.
// Suitable for development/testing; not shared across processes.
type InMemoryStore struct {
	mu   sync.RWMutex
	data map[uuid.UUID][]model.Message
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		data: make(map[uuid.UUID][]model.Message),
	}
}

func (s *InMemoryStore) Append(ctx context.Context, chatID uuid.UUID, msgs ...model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[chatID] = append(s.data[chatID], msgs...)
	return nil
}

func (s *InMemoryStore) Recent(ctx context.Context, chatID uuid.UUID, limit int) ([]model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.data[chatID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	// copy to prevent external modification
	result := make([]model.Message, len(msgs))
	copy(result, msgs)
	return result, nil
}

func (s *InMemoryStore) Clear(ctx context.Context, chatID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, chatID)
	return nil
}
