package tokenstore

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pengunin/blog-frontend/internal/models"
)

// memoryStore — эфемерное хранилище: сессия живёт до перезапуска процесса.
// Используется при store.backend=memory и как дублёр в юнит-тестах.
type memoryStore struct {
	mu     sync.RWMutex
	kv     map[string]string
	prefix string
}

// NewMemory создаёт пустое in-memory хранилище.
func NewMemory(prefix string) Store {
	return &memoryStore{kv: make(map[string]string), prefix: prefix}
}

func (s *memoryStore) SaveTokens(_ context.Context, pair models.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.kv[s.prefix+keyAccessToken] = pair.AccessToken
	s.kv[s.prefix+keyRefreshToken] = pair.RefreshToken
	return nil
}

func (s *memoryStore) AccessToken(context.Context) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.kv[s.prefix+keyAccessToken]
	return v, ok && v != ""
}

func (s *memoryStore) RefreshToken(context.Context) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.kv[s.prefix+keyRefreshToken]
	return v, ok && v != ""
}

func (s *memoryStore) SaveUser(_ context.Context, user *models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.kv[s.prefix+keyUser] = string(raw)
	return nil
}

func (s *memoryStore) User(context.Context) (*models.User, bool) {
	s.mu.RLock()
	raw, ok := s.kv[s.prefix+keyUser]
	s.mu.RUnlock()

	if !ok || raw == "" {
		return nil, false
	}

	var u models.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, false
	}

	return &u, true
}

func (s *memoryStore) RemoveTokens(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.kv, s.prefix+keyAccessToken)
	delete(s.kv, s.prefix+keyRefreshToken)
	delete(s.kv, s.prefix+keyUser)
}

func (s *memoryStore) Close() error { return nil }
