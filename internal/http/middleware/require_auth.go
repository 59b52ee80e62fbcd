package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/pengunin/blog-frontend/internal/httperr"
	"github.com/pengunin/blog-frontend/internal/session"
)

// SessionState — минимальный срез контроллера сессии, нужный охране маршрутов.
type SessionState interface {
	State() session.State
}

// RequireAuth охраняет защищённую группу маршрутов:
//   - сессия ещё не инициализирована — 503: решение «вошёл / не вошёл»
//     принимать рано, пусть клиент повторит;
//   - не вошёл — браузерная навигация получает 302 на /login с исходным
//     адресом в ?next, API-запросы (Accept: application/json) — 401.
//
// Запросы вошедшего пользователя проходят без изменений; авторизацию действий
// по ролям выполняет бэкенд, здесь решается только «пускать ли на маршрут».
func RequireAuth(s SessionState) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			st := s.State()

			if !st.Initialized {
				httperr.WriteStatus(w, r, http.StatusServiceUnavailable,
					"session_not_ready", "session is initializing, retry shortly")
				return
			}

			if !st.Authenticated {
				if wantsJSON(r) {
					httperr.WriteStatus(w, r, http.StatusUnauthorized,
						"unauthenticated", "authentication required")
					return
				}

				target := r.URL.RequestURI()
				http.Redirect(w, r, "/login?next="+url.QueryEscape(target),
					http.StatusFound)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// wantsJSON — просит ли клиент JSON: медиатипы Accept разбираются по
// списку, параметры (;q=…) отбрасываются.
func wantsJSON(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mt := strings.TrimSpace(part)
		if i := strings.IndexByte(mt, ';'); i >= 0 {
			mt = strings.TrimSpace(mt[:i])
		}
		if mt == "application/json" {
			return true
		}
	}

	return false
}
