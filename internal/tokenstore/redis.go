package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/pengunin/blog-frontend/internal/models"
	"github.com/pengunin/blog-frontend/pkg/log"
)

// redisStore хранит каждый ключ отдельной строкой prefix+key.
// TTL не назначается: временем жизни управляет протокол обновления
// (RemoveTokens при невосстановимом отказе refresh).
type redisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedis создаёт redis-хранилище из URL (например, redis://:pass@host:6379/0).
func NewRedis(redisURL, prefix string) (Store, error) {
	const op = "tokenstore.redis.NewRedis"

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &redisStore{rdb: rdb, prefix: prefix}, nil
}

func (s *redisStore) SaveTokens(ctx context.Context, pair models.TokenPair) error {
	const op = "tokenstore.redis.SaveTokens"

	// Оба ключа в одной транзакционной пачке: пара заменяется целиком.
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, s.prefix+keyAccessToken, pair.AccessToken, 0)
	pipe.Set(ctx, s.prefix+keyRefreshToken, pair.RefreshToken, 0)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *redisStore) AccessToken(ctx context.Context) (string, bool) {
	return s.get(ctx, keyAccessToken)
}

func (s *redisStore) RefreshToken(ctx context.Context) (string, bool) {
	return s.get(ctx, keyRefreshToken)
}

func (s *redisStore) SaveUser(ctx context.Context, user *models.User) error {
	const op = "tokenstore.redis.SaveUser"

	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.rdb.Set(ctx, s.prefix+keyUser, string(raw), 0).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *redisStore) User(ctx context.Context) (*models.User, bool) {
	const op = "tokenstore.redis.User"

	raw, ok := s.get(ctx, keyUser)
	if !ok {
		return nil, false
	}

	var u models.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		log.From(ctx).Warn("user_cache_parse_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return nil, false
	}

	return &u, true
}

func (s *redisStore) RemoveTokens(ctx context.Context) {
	const op = "tokenstore.redis.RemoveTokens"

	for _, k := range []string{keyAccessToken, keyRefreshToken, keyUser} {
		if err := s.rdb.Del(ctx, s.prefix+k).Err(); err != nil {
			log.From(ctx).Warn("store_clear_failed",
				slog.String("op", op),
				slog.String("key", k),
				slog.String("err", err.Error()),
			)
		}
	}
}

func (s *redisStore) Close() error { return s.rdb.Close() }

func (s *redisStore) get(ctx context.Context, key string) (string, bool) {
	const op = "tokenstore.redis.get"

	v, err := s.rdb.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.From(ctx).Warn("store_read_failed",
				slog.String("op", op),
				slog.String("key", key),
				slog.String("err", err.Error()),
			)
		}
		return "", false
	}

	return v, v != ""
}
