// Package history provides the conversation-history window used to ground
// follow-up questions. The database is authoritative; Redis is an optional
// read cache layered on top.
package history

import (
	"context"

	"github.com/google/uuid"

	"github.com/tgo/tubechat/internal/model"
)

// Store persists and restores a chat's messages.
type Store interface {
	// Append adds messages to a chat's history in order.
	Append(ctx context.Context, chatID uuid.UUID, msgs ...model.Message) error
	// Recent returns up to limit of the most recent messages, oldest first.
	// A limit of 0 returns the full history.
	Recent(ctx context.Context, chatID uuid.UUID, limit int) ([]model.Message, error)
	// Clear removes a chat's history.
	Clear(ctx context.Context, chatID uuid.UUID) error
}
