// client — единственный шлюз исходящих запросов к REST API блога.
//
// Обязанности:
//   - прикрепляет bearer-токен из хранилища к каждому запросу (запрос без
//     токена уходит неаутентифицированным);
//   - на 401 прозрачно восстанавливается через протокол обновления токенов:
//     один сетевой вызов refresh на все конкурентные запросы (single-flight),
//     остальные ждут его исхода в очереди (см. refresh.go);
//   - при невосстановимом отказе обновления очищает хранилище, дёргает хук
//     OnSessionExpired и возвращает ErrSessionExpired.
//
// Запрос, уже повторённый после обновления, второй раз не восстанавливается:
// его 401 уходит вызывающему как обычный UpstreamError.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pengunin/blog-frontend/internal/tokenstore"
)

// ctxKey — ключи контекста, которые клиент читает на исходящем пути.
type ctxKey string

// CtxRequestID — ключ, под которым HTTP-мидлвар кладёт X-Request-Id;
// клиент прокидывает его в заголовок запросов к бэкенду.
const CtxRequestID ctxKey = "request_id"

func requestIDFrom(ctx context.Context) string {
	if v := ctx.Value(CtxRequestID); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}

	return ""
}

// Options — параметры сборки клиента.
type Options struct {
	// BaseURL — корень API, например "http://localhost:8080/api".
	BaseURL string
	// Store — хранилище токенов (обязательно).
	Store tokenstore.Store
	// HTTPClient — транспорт; nil — http.DefaultClient-подобный с таймаутом 30s.
	HTTPClient *http.Client
	// RefreshTimeout — дедлайн вызова обновления токенов; <=0 — 10s.
	// Гарантирует, что очередь ожидающих всегда будет разобрана.
	RefreshTimeout time.Duration
	// OnSessionExpired вызывается один раз на каждый невосстановимый отказ
	// обновления — до того, как ErrSessionExpired уйдёт вызывающим.
	OnSessionExpired func(ctx context.Context)
}

// Client — клиент REST API блога. Безопасен для конкурентного использования;
// создаётся один раз на сессию приложения.
type Client struct {
	baseURL        string
	http           *http.Client
	store          tokenstore.Store
	refreshTimeout time.Duration
	onExpired      func(ctx context.Context)

	gate refreshGate
}

// New создаёт клиент.
func New(opts Options) (*Client, error) {
	const op = "client.New"

	if opts.BaseURL == "" {
		return nil, fmt.Errorf("%s: empty base url", op)
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("%s: nil token store", op)
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}

	rt := opts.RefreshTimeout
	if rt <= 0 {
		rt = 10 * time.Second
	}

	return &Client{
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		http:           hc,
		store:          opts.Store,
		refreshTimeout: rt,
		onExpired:      opts.OnSessionExpired,
	}, nil
}

// envelope — единый конверт ответов бэкенда: {status, message, data}.
type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// do выполняет запрос с bearer-токеном и протоколом восстановления.
// in (может быть nil) сериализуется в JSON-тело; data конверта успешного
// ответа декодируется в out (может быть nil).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	const op = "client.do"

	var body []byte
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		body = raw
	}

	// Один повтор на исходный запрос: флаг гарантирует не больше одной
	// попытки обновления, сколько бы 401 ни пришло.
	retried := false

	// Токен для повтора приходит из самого протокола обновления, а не из
	// хранилища: при отказе записи новой пары хранилище ещё держит старый
	// токен, и перечитывание отправило бы повтор с ним.
	var retryToken string

	for {
		req, err := c.newRequest(ctx, method, path, query, body)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		token, hasToken := c.store.AccessToken(ctx)
		if retryToken != "" {
			token, hasToken = retryToken, true
		}
		if hasToken {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		// Восстановление — только для аутентифицированных запросов: 401 на
		// запрос без токена (например, неверный пароль на login) — обычный
		// ответ бэкенда, а не признак протухшей сессии.
		if resp.StatusCode == http.StatusUnauthorized && hasToken && !retried {
			drainClose(resp.Body)
			retried = true

			fresh, err := c.refreshAccess(ctx)
			if err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
			retryToken = fresh

			continue
		}

		return decodeResponse(resp, out)
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body []byte) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if rid := requestIDFrom(ctx); rid != "" {
		req.Header.Set("X-Request-Id", rid)
	}

	return req, nil
}

// decodeResponse разбирает конверт ответа; не-2xx превращается в UpstreamError.
func decodeResponse(resp *http.Response, out any) error {
	const op = "client.decodeResponse"

	defer drainClose(resp.Body)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var env envelope
	// Тело может отсутствовать или не быть конвертом (например, у logout) —
	// это не ошибка само по себе.
	_ = json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s: %w", op, newUpstreamError(resp.StatusCode, env.Message))
	}

	// Бэкенд может ответить 200 с кодом ошибки внутри конверта.
	if env.Status != 0 && (env.Status < 200 || env.Status > 299) {
		return fmt.Errorf("%s: %w", op, newUpstreamError(env.Status, env.Message))
	}

	if out == nil {
		return nil
	}

	if len(env.Data) == 0 {
		return fmt.Errorf("%s: empty response data", op)
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// mustJSON — сериализация собственных структур запроса; ошибка здесь
// невозможна по построению типов.
func mustJSON(v any) []byte {
	raw, _ := json.Marshal(v)
	return raw
}

func drainClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 1<<20))
	_ = body.Close()
}
