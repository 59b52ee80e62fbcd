package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pengunin/blog-frontend/internal/models"
)

// Login обменивает логин/пароль на пару токенов. Сам клиент состояние
// сессии не трогает — пару забирает контроллер сессии (session.Manager).
func (c *Client) Login(ctx context.Context, username, password string) (models.TokenPair, error) {
	const op = "client.auth.Login"

	var pair models.TokenPair
	err := c.do(ctx, http.MethodPost, "/auth/login", nil,
		models.LoginRequest{Username: username, Password: password}, &pair)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	if pair.AccessToken == "" || pair.RefreshToken == "" {
		return models.TokenPair{}, fmt.Errorf("%s: incomplete token pair in response", op)
	}

	return pair, nil
}

// Logout уведомляет бэкенд о выходе. Вызывающие трактуют ошибку как
// best-effort: выход из сессии она не блокирует.
func (c *Client) Logout(ctx context.Context) error {
	const op = "client.auth.Logout"

	if err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
