// httperr стандартизирует ответы об ошибках HTTP-слоя фронтенда.
// На вход он принимает ошибку (обычно от клиента бэкенда),
// а на выход даёт:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки деталей.
//
// Таксономия входных ошибок — internal/client/errors.go.
package httperr

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pengunin/blog-frontend/internal/client"
)

// ErrInternal — собственная ошибка HTTP-слоя (паника, программный дефект);
// маппится в 500/internal, в отличие от сетевых ошибок апстрима (502).
var ErrInternal = errors.New("internal")

// APIError — единый формат ошибки для фронта.
// Code — короткий стабильный код для машиночитаемой обработки.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP конвертирует входную ошибку в HTTP-статус и унифицированный ответ.
//
// Поведение:
//   - err == nil — программная ошибка вызова: 500/internal, чтобы не послать
//     "200 OK" с телом ошибки и не маскировать баг;
//   - client.ErrSessionExpired — 401/session_expired: клиенту остаётся
//     только заново войти;
//   - *client.UpstreamError — статус и код бэкенда пробрасываются как есть,
//     message берётся из бэкенда (он сам отвечает безопасными текстами);
//   - context deadline — 504;
//   - прочее (сеть и т.п.) — 502/bad_gateway без деталей.
func ToHTTP(err error) (int, ErrorResponse) {
	switch {
	case err == nil, errors.Is(err, ErrInternal):
		return http.StatusInternalServerError, ErrorResponse{
			Error: APIError{Code: "internal", Message: "internal error"},
		}

	case errors.Is(err, client.ErrSessionExpired):
		return http.StatusUnauthorized, ErrorResponse{
			Error: APIError{Code: "session_expired", Message: "session expired, please sign in again"},
		}

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrorResponse{
			Error: APIError{Code: "deadline_exceeded", Message: "upstream timeout"},
		}
	}

	var ue *client.UpstreamError
	if errors.As(err, &ue) {
		return ue.Status, ErrorResponse{
			Error: APIError{Code: ue.Code, Message: ue.Message},
		}
	}

	return http.StatusBadGateway, ErrorResponse{
		Error: APIError{Code: "bad_gateway", Message: "upstream unavailable"},
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	// request_id — для репортов с привязкой к трассе.
	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// WriteStatus — ответ с заданным статусом и кодом без исходной ошибки
// (валидация входных данных хендлеров).
func WriteStatus(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	resp := ErrorResponse{Error: APIError{Code: code, Message: message}}
	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
