package history

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/tgo/tubechat/internal/model"
)

// HybridStore combines the database (authoritative) with a Redis cache.
// Writes go to both; reads try the cache first and fall back to the
// database, warming the cache on the way back.
type HybridStore struct {
	primary Store
	cache   Store
}

func NewHybridStore(primary, cache Store) *HybridStore {
	return &HybridStore{primary: primary, cache: cache}
}

func (s *HybridStore) Append(ctx context.Context, chatID uuid.UUID, msgs ...model.Message) error {
	if err := s.primary.Append(ctx, chatID, msgs...); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Append(ctx, chatID, msgs...); err != nil {
			log.Printf("[History] Cache append failed (non-fatal): %v", err)
		}
	}
	return nil
}

func (s *HybridStore) Recent(ctx context.Context, chatID uuid.UUID, limit int) ([]model.Message, error) {
	if s.cache != nil {
		msgs, err := s.cache.Recent(ctx, chatID, limit)
		if err == nil && len(msgs) > 0 {
			return msgs, nil
		}
		if err != nil {
			log.Printf("[History] Cache read failed, falling back to database: %v", err)
		}
	}

	msgs, err := s.primary.Recent(ctx, chatID, limit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && len(msgs) > 0 {
		if err := s.cache.Append(ctx, chatID, msgs...); err != nil {
			log.Printf("[History] Cache warm-up failed (non-fatal): %v", err)
		}
	}

	return msgs, nil
}

func (s *HybridStore) Clear(ctx context.Context, chatID uuid.UUID) error {
	if s.cache != nil {
		if err := s.cache.Clear(ctx, chatID); err != nil {
			log.Printf("[History] Cache clear failed (non-fatal): %v", err)
		}
	}
	return s.primary.Clear(ctx, chatID)
}
