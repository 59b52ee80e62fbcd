// session — контроллер сессии приложения: единственный владелец вопроса
// «кто сейчас вошёл».
//
// Контроллер связывает три нижних слоя: клиент бэкенда (сетевые вызовы входа
// и выхода), хранилище токенов (персистентность пары) и декодер identity
// (пользователь из полезной нагрузки access-токена). Все публичные методы
// безопасны для конкурентного вызова.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pengunin/blog-frontend/internal/client"
	"github.com/pengunin/blog-frontend/internal/identity"
	"github.com/pengunin/blog-frontend/internal/models"
	"github.com/pengunin/blog-frontend/internal/tokenstore"
	"github.com/pengunin/blog-frontend/pkg/log"
)

// State — снимок состояния сессии на момент вызова.
type State struct {
	// Initialized — завершился ли Init; до этого момента состояние
	// аутентификации неизвестно и полагаться на него нельзя.
	Initialized bool
	// Authenticated — есть ли действующая сессия.
	Authenticated bool
	// User — данные вошедшего пользователя; nil, если Authenticated == false.
	User *models.User
}

// Manager — контроллер сессии. Создаётся один раз на процесс.
type Manager struct {
	client *client.Client
	store  tokenstore.Store

	mu            sync.RWMutex
	initialized   bool
	authenticated bool
	user          *models.User
}

// New создаёт контроллер. Init нужно вызвать до обслуживания запросов.
func New(cl *client.Client, store tokenstore.Store) (*Manager, error) {
	const op = "session.New"

	if cl == nil {
		return nil, fmt.Errorf("%s: nil client", op)
	}
	if store == nil {
		return nil, fmt.Errorf("%s: nil token store", op)
	}

	return &Manager{client: cl, store: store}, nil
}

// Init восстанавливает сессию из хранилища без сетевых вызовов.
//
// Логика восстановления:
//   - восстановление требует всех трёх значений: access-токена,
//     refresh-токена и кэша пользователя; отсутствие любого из них —
//     неаутентифицированное состояние, остатки удаляются;
//   - access-токен не декодируется — состояние считается испорченным
//     и удаляется целиком;
//   - access-токен истёк — состояние всё равно аутентифицированное
//     (оптимистичное восстановление): первый же запрос к бэкенду получит 401
//     и прозрачно пройдёт через обновление; если обновление откажет, сессия
//     истечёт штатным путём.
//
// Init идемпотентен и всегда завершается успешно: любой дефект сохранённого
// состояния означает «не вошёл», а не ошибку старта.
func (m *Manager) Init(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lg := log.From(ctx)
	defer func() { m.initialized = true }()

	access, okA := m.store.AccessToken(ctx)
	_, okR := m.store.RefreshToken(ctx)
	user, okU := m.store.User(ctx)

	if !okA || !okR || !okU {
		// Неполное состояние бесполезно: access без refresh не переживёт
		// первый 401, refresh без access не с чем предъявить, а без кэша
		// пользователя нечего показывать до первого запроса.
		if okA || okR || okU {
			lg.Warn("session: partial state in store, clearing")
			m.store.RemoveTokens(ctx)
		}
		m.setUnauthenticatedLocked()

		return
	}

	if _, err := identity.Decode(access); err != nil {
		lg.Warn("session: stored access token is not decodable, clearing",
			"err", err)
		m.store.RemoveTokens(ctx)
		m.setUnauthenticatedLocked()

		return
	}

	if exp, ok, _ := identity.ExpiresAt(access); ok && exp.Before(time.Now()) {
		lg.Info("session: restored with expired access token, refresh deferred",
			"username", user.Username)
	} else {
		lg.Info("session: restored", "username", user.Username)
	}

	m.authenticated = true
	m.user = user
}

// Login выполняет вход: сетевой вызов, декодирование пользователя,
// персистентность пары и перевод состояния. Ошибка на любом шаге оставляет
// состояние неаутентифицированным.
func (m *Manager) Login(ctx context.Context, username, password string) (*models.User, error) {
	const op = "session.Login"

	pair, err := m.client.Login(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := identity.Decode(pair.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := m.store.SaveTokens(ctx, pair); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	// Кэш пользователя — обязательная часть восстанавливаемого состояния
	// (Init требует все три значения). Отказ записи не валит текущую
	// сессию, но после перезапуска восстановления не будет.
	if err := m.store.SaveUser(ctx, user); err != nil {
		log.From(ctx).Warn("session: failed to cache user", "err", err)
	}

	m.mu.Lock()
	m.authenticated = true
	m.user = user
	m.mu.Unlock()

	return user, nil
}

// Logout завершает сессию. Уведомление бэкенда — best-effort: его отказ
// логируется, но локальное состояние и хранилище очищаются безусловно.
// Идемпотентен: повторный вызов на завершённой сессии — no-op без сети.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	wasAuthenticated := m.authenticated
	m.setUnauthenticatedLocked()
	m.mu.Unlock()

	if wasAuthenticated {
		if err := m.client.Logout(ctx); err != nil {
			log.From(ctx).Warn("session: logout notification failed", "err", err)
		}
	}

	m.store.RemoveTokens(ctx)
}

// Expire переводит сессию в неаутентифицированное состояние без сетевого
// вызова — хук для OnSessionExpired клиента (хранилище к этому моменту
// уже очищено протоколом обновления).
func (m *Manager) Expire(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.authenticated {
		return
	}

	log.From(ctx).Info("session: expired")
	m.setUnauthenticatedLocked()
}

// State возвращает снимок текущего состояния.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return State{
		Initialized:   m.initialized,
		Authenticated: m.authenticated,
		User:          m.user,
	}
}

// IsAuthenticated — короткий срез State для охраны маршрутов.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.authenticated
}

// CurrentUser возвращает вошедшего пользователя или nil.
func (m *Manager) CurrentUser() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.user
}

func (m *Manager) setUnauthenticatedLocked() {
	m.authenticated = false
	m.user = nil
}
