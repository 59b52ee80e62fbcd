// identity извлекает идентичность пользователя из payload access-токена.
//
// Подпись токена здесь сознательно НЕ проверяется: извлечённые claims
// используются только для персонализации UI, границей доверия остаётся
// сервер — он независимо авторизует каждый запрос. Любое решение о доступе
// по этим данным было бы ошибкой.
package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pengunin/blog-frontend/internal/models"
)

// ErrInvalidToken — токен не разбирается (не три сегмента, битый base64,
// некорректный JSON payload). Фатально для операции, использующей токен:
// повторять бессмысленно.
var ErrInvalidToken = errors.New("invalid token")

var parser = jwt.NewParser()

// Decode разбирает payload access-токена в User.
// Username — claim "sub", Roles — claim "roles" (пустой список, если
// отсутствует), остальные claims попадают в User.Claims как есть.
func Decode(accessToken string) (*models.User, error) {
	const op = "identity.Decode"

	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(accessToken, claims); err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	u := &models.User{
		Username: sub,
		Roles:    rolesClaim(claims),
		Claims:   make(map[string]any, len(claims)),
	}

	for k, v := range claims {
		if k == "sub" || k == "roles" {
			continue
		}
		u.Claims[k] = v
	}

	return u, nil
}

// ExpiresAt возвращает момент истечения access-токена из claim "exp".
// Второй результат — false, если claim отсутствует.
func ExpiresAt(accessToken string) (time.Time, bool, error) {
	const op = "identity.ExpiresAt"

	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(accessToken, claims); err != nil {
		return time.Time{}, false, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	if exp == nil {
		return time.Time{}, false, nil
	}

	return exp.Time, true, nil
}

func rolesClaim(claims jwt.MapClaims) []string {
	raw, ok := claims["roles"]
	if !ok {
		return []string{}
	}

	items, ok := raw.([]any)
	if !ok {
		return []string{}
	}

	roles := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			roles = append(roles, s)
		}
	}

	return roles
}
