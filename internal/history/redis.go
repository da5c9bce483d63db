package history

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/tgo/tubechat/internal/model"
)

// RedisStore caches chat history in Redis lists with optional TTL.
type RedisStore struct {
	cli    *redis.Client
	ttl    time.Duration // 0 means no expiration
	maxLen int64         // list is trimmed to the newest maxLen entries
}

// RedisStoreConfig configures the Redis store
type RedisStoreConfig struct {
	Client *redis.Client
	TTL    time.Duration
	MaxLen int64
}

func NewRedisStore(cfg *RedisStoreConfig) *RedisStore {
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = 30 * time.Minute
	}
	maxLen := cfg.MaxLen
	if maxLen == 0 {
		maxLen = 200
	}
	return &RedisStore{
		cli:    cfg.Client,
		ttl:    ttl,
		maxLen: maxLen,
	}
}

// NewRedisStoreFromURL creates a Redis store from a connection URL.
func NewRedisStoreFromURL(redisURL string, ttl time.Duration) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	cli := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := cli.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewRedisStore(&RedisStoreConfig{Client: cli, TTL: ttl}), nil
}

func (s *RedisStore) chatKey(chatID uuid.UUID) string {
	return "history:chat:" + chatID.String()
}

func (s *RedisStore) Append(ctx context.Context, chatID uuid.UUID, msgs ...model.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	key := s.chatKey(chatID)

	values := make([]interface{}, 0, len(msgs))
	for _, msg := range msgs {
		data, err := json.Marshal(msg)
		if err != nil {
			return err
		}
		values = append(values, data)
	}

	pipe := s.cli.TxPipeline()
	pipe.RPush(ctx, key, values...)
	pipe.LTrim(ctx, key, -s.maxLen, -1)
	pipe.Expire(ctx, key, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Recent(ctx context.Context, chatID uuid.UUID, limit int) ([]model.Message, error) {
	key := s.chatKey(chatID)

	start := int64(0)
	if limit > 0 {
		start = -int64(limit)
	}
	raw, err := s.cli.LRange(ctx, key, start, -1).Result()
	if err != nil {
		return nil, err
	}

	msgs := make([]model.Message, 0, len(raw))
	for _, item := range raw {
		var msg model.Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

func (s *RedisStore) Clear(ctx context.Context, chatID uuid.UUID) error {
	return s.cli.Del(ctx, s.chatKey(chatID)).Err()
}
