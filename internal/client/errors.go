// Ошибки клиента бэкенда.
//
// Таксономия:
//   - ErrSessionExpired — протокол обновления завершился невосстановимо
//     (нет refresh-токена, отказ/таймаут эндпойнта обновления); сессия
//     очищена, пользователю остаётся только заново войти;
//   - UpstreamError — любой не-2xx ответ бэкенда, включая 401 по запросу,
//     который уже был повторён (второй раз не восстанавливаем);
//   - прочие ошибки (сеть, контекст) пробрасываются как есть.
package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrSessionExpired — невосстановимый отказ обновления токенов.
// HTTP-слой маппит его в редирект на точку входа /login.
var ErrSessionExpired = errors.New("session expired")

// UpstreamError — ошибка, которой ответил бэкенд.
// Code — короткий стабильный код для машиночитаемой обработки.
type UpstreamError struct {
	Status  int
	Code    string
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %d (%s): %s", e.Status, e.Code, e.Message)
}

// newUpstreamError строит UpstreamError по HTTP-статусу и сообщению бэкенда.
func newUpstreamError(status int, message string) *UpstreamError {
	if message == "" {
		message = http.StatusText(status)
	}

	return &UpstreamError{Status: status, Code: codeFromStatus(status), Message: message}
}

// codeFromStatus — маппинг HTTP-статуса бэкенда в стабильный код.
func codeFromStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "invalid_argument"
	case http.StatusUnauthorized:
		return "unauthenticated"
	case http.StatusForbidden:
		return "permission_denied"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "already_exists"
	case http.StatusPreconditionFailed:
		return "failed_precondition"
	case http.StatusTooManyRequests:
		return "resource_exhausted"
	case http.StatusServiceUnavailable:
		return "unavailable"
	case http.StatusGatewayTimeout:
		return "deadline_exceeded"
	default:
		if status >= 500 {
			return "internal"
		}
		return "unknown"
	}
}
