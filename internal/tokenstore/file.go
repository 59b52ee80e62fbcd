package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/pengunin/blog-frontend/internal/models"
	"github.com/pengunin/blog-frontend/pkg/log"
)

// fileStore хранит ключи одним JSON-объектом в файле пользователя (0600).
// Запись — через временный файл и rename, чтобы не оставить битый файл
// при падении посреди записи.
type fileStore struct {
	mu     sync.Mutex
	path   string
	prefix string
}

// NewFile создаёт файловое хранилище по указанному пути.
// Пустой path — <user config dir>/pengunin/tokens.json.
func NewFile(path, prefix string) (Store, error) {
	const op = "tokenstore.file.NewFile"

	if path == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		path = filepath.Join(base, "pengunin", "tokens.json")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &fileStore{path: path, prefix: prefix}, nil
}

func (s *fileStore) SaveTokens(ctx context.Context, pair models.TokenPair) error {
	const op = "tokenstore.file.SaveTokens"

	s.mu.Lock()
	defer s.mu.Unlock()

	kv := s.load(ctx)
	kv[s.prefix+keyAccessToken] = pair.AccessToken
	kv[s.prefix+keyRefreshToken] = pair.RefreshToken

	if err := s.flush(kv); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *fileStore) AccessToken(ctx context.Context) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.load(ctx)[s.prefix+keyAccessToken]
	return v, ok && v != ""
}

func (s *fileStore) RefreshToken(ctx context.Context) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.load(ctx)[s.prefix+keyRefreshToken]
	return v, ok && v != ""
}

func (s *fileStore) SaveUser(ctx context.Context, user *models.User) error {
	const op = "tokenstore.file.SaveUser"

	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kv := s.load(ctx)
	kv[s.prefix+keyUser] = string(raw)

	if err := s.flush(kv); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *fileStore) User(ctx context.Context) (*models.User, bool) {
	const op = "tokenstore.file.User"

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.load(ctx)[s.prefix+keyUser]
	if !ok || raw == "" {
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

func (s *fileStore) RemoveTokens(ctx context.Context) {
	const op = "tokenstore.file.RemoveTokens"

	s.mu.Lock()
	defer s.mu.Unlock()

	kv := s.load(ctx)
	delete(kv, s.prefix+keyAccessToken)
	delete(kv, s.prefix+keyRefreshToken)
	delete(kv, s.prefix+keyUser)

	if err := s.flush(kv); err != nil {
		log.From(ctx).Warn("store_clear_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
	}
}

func (s *fileStore) Close() error { return nil }

// load читает файл целиком; любая ошибка чтения/разбора трактуется как
// пустое хранилище и логируется.
func (s *fileStore) load(ctx context.Context) map[string]string {
	const op = "tokenstore.file.load"

	kv := make(map[string]string)

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.From(ctx).Warn("store_read_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
		}
		return kv
	}

	if err := json.Unmarshal(raw, &kv); err != nil {
		log.From(ctx).Warn("store_parse_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return make(map[string]string)
	}

	return kv
}

func (s *fileStore) flush(kv map[string]string) error {
	raw, err := json.Marshal(kv)
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}

	return os.Rename(tmp, s.path)
}
