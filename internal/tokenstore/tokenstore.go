// tokenstore — долговременное key-value хранилище пары токенов и
// кэшированной идентичности пользователя (аналог localStorage исходного SPA).
//
// Контракт (важно для вызывающих):
//   - операции чтения никогда не возвращают ошибку: отсутствие ключа и любая
//     ошибка нижележащего хранилища выглядят одинаково — «значения нет»
//     (ошибка при этом логируется);
//   - RemoveTokens очищает все три ключа; по-ключевые ошибки проглатываются
//     и логируются, для вызывающего очистка всегда успешна;
//   - пара токенов сохраняется только целиком (SaveTokens), по одному
//     токену записать нельзя.
package tokenstore

import (
	"context"

	"github.com/pengunin/blog-frontend/internal/models"
)

// Ключи хранилища; итоговое имя — prefix+key, неймспейс защищает от
// коллизий с чужими данными в разделяемом хранилище.
const (
	keyAccessToken  = "accessToken"
	keyRefreshToken = "refreshToken"
	keyUser         = "user"
)

// Store задаёт контракт хранилища сессионных данных.
type Store interface {
	// SaveTokens записывает оба токена. При ошибке состояние хранилища
	// считается недоверенным: откат не выполняется, вызывающий при
	// необходимости повторяет запись.
	SaveTokens(ctx context.Context, pair models.TokenPair) error
	// AccessToken возвращает access-токен и признак его наличия.
	AccessToken(ctx context.Context) (string, bool)
	// RefreshToken возвращает refresh-токен и признак его наличия.
	RefreshToken(ctx context.Context) (string, bool)
	// SaveUser сохраняет кэш идентичности (JSON-текст).
	SaveUser(ctx context.Context, user *models.User) error
	// User возвращает кэш идентичности; ошибка разбора — «значения нет».
	User(ctx context.Context) (*models.User, bool)
	// RemoveTokens очищает access-токен, refresh-токен и кэш пользователя.
	RemoveTokens(ctx context.Context)
	// Close освобождает ресурсы хранилища.
	Close() error
}
