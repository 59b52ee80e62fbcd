// Протокол обновления токенов.
//
// Single-flight: на весь клиент — не больше одного сетевого вызова refresh
// одновременно. Запросы, получившие 401 во время чужого обновления, встают
// в очередь и ждут его исхода: успех раздаёт всем новый access-токен,
// отказ каскадом отклоняет всех одинаково — ни один ожидающий не выполняет
// refresh сам и не «проскакивает» вперёд.
//
// Затвор и очередь принадлежат экземпляру Client (никаких глобальных
// переменных) и освобождаются на каждом терминальном пути.
package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/pengunin/blog-frontend/internal/models"
	"github.com/pengunin/blog-frontend/pkg/log"
)

// errNoRefreshToken — в хранилище нет refresh-токена: сетевой вызов не
// выполняется, сразу невосстановимый отказ.
var errNoRefreshToken = errors.New("no refresh token")

type refreshResult struct {
	token string
	err   error
}

// refreshGate — затвор single-flight и очередь ожидающих.
type refreshGate struct {
	mu       sync.Mutex
	inFlight bool
	waiters  []chan refreshResult
}

// refreshAccess возвращает свежий access-токен, выполнив обновление или
// дождавшись уже идущего. Ошибка всегда оборачивает ErrSessionExpired,
// кроме отмены контекста самого ожидающего.
func (c *Client) refreshAccess(ctx context.Context) (string, error) {
	const op = "client.refresh.refreshAccess"

	c.gate.mu.Lock()

	if c.gate.inFlight {
		// Чужое обновление уже идёт — встаём в очередь.
		ch := make(chan refreshResult, 1)
		c.gate.waiters = append(c.gate.waiters, ch)
		c.gate.mu.Unlock()

		select {
		case res := <-ch:
			if res.err != nil {
				return "", fmt.Errorf("%s: %w", op, res.err)
			}
			return res.token, nil
		case <-ctx.Done():
			// Ожидающий отменён; буферизованный канал не даст владельцу
			// затвора заблокироваться при раздаче результата.
			return "", fmt.Errorf("%s: %w", op, ctx.Err())
		}
	}

	c.gate.inFlight = true
	c.gate.mu.Unlock()

	token, err := c.performRefresh(ctx)

	// Затвор освобождается до раздачи результата — на успехе, отказе
	// и любом другом терминальном пути одинаково.
	c.gate.mu.Lock()
	c.gate.inFlight = false
	waiters := c.gate.waiters
	c.gate.waiters = nil
	c.gate.mu.Unlock()

	for _, ch := range waiters {
		ch <- refreshResult{token: token, err: err}
	}

	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return token, nil
}

// performRefresh — собственно цикл обновления: читает refresh-токен,
// зовёт бэкенд, сохраняет новую пару. Любой отказ терминален: хранилище
// очищается, срабатывает хук OnSessionExpired.
func (c *Client) performRefresh(ctx context.Context) (string, error) {
	const op = "client.refresh.performRefresh"

	lg := log.From(ctx)

	refresh, ok := c.store.RefreshToken(ctx)
	if !ok {
		lg.Warn("refresh_skipped_no_token", slog.String("op", op))
		return "", c.expireSession(ctx, errNoRefreshToken)
	}

	// Собственный дедлайн, отвязанный от отмены вызывающего: обновление
	// разделяют все запросы в очереди, и отмена одного из них не должна
	// ронять сессию для остальных. Таймаут гарантирует, что затвор и
	// очередь не зависнут на молчащем соединении.
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.refreshTimeout)
	defer cancel()

	pair, err := c.Refresh(rctx, refresh)
	if err != nil {
		lg.Warn("refresh_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return "", c.expireSession(ctx, err)
	}

	if err := c.store.SaveTokens(ctx, pair); err != nil {
		// Пара получена, но не легла в хранилище: запросы в очереди
		// обслужим полученным токеном, состояние хранилища — недоверенное.
		lg.Warn("refresh_save_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
	}

	lg.Debug("refresh_ok", slog.String("op", op))

	return pair.AccessToken, nil
}

// expireSession — терминальный путь отказа: очистка хранилища, хук,
// ErrSessionExpired с причиной.
func (c *Client) expireSession(ctx context.Context, cause error) error {
	c.store.RemoveTokens(ctx)

	if c.onExpired != nil {
		c.onExpired(ctx)
	}

	return fmt.Errorf("%w: %w", ErrSessionExpired, cause)
}

// Refresh обменивает refresh-токен на новую пару.
// Выполняется напрямую, минуя do(): эндпойнт не требует bearer-токена,
// а его 401 не должен рекурсивно запускать протокол восстановления.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	const op = "client.refresh.Refresh"

	req, err := c.newRequest(ctx, http.MethodPost, "/auth/refresh-token", nil,
		mustJSON(models.RefreshRequest{RefreshToken: refreshToken}))
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	var pair models.TokenPair
	if err := decodeResponse(resp, &pair); err != nil {
		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	if pair.AccessToken == "" || pair.RefreshToken == "" {
		return models.TokenPair{}, fmt.Errorf("%s: incomplete token pair in response", op)
	}

	return pair, nil
}
