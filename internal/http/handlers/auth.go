package handlers

import (
	"net/http"

	"github.com/pengunin/blog-frontend/internal/httperr"
	"github.com/pengunin/blog-frontend/internal/models"
)

// loginPage — минимальная точка входа для браузерной навигации: страница,
// на которую RequireAuth редиректит невошедших (?next= сохраняет исходный
// адрес). Сама аутентификация идёт через POST /auth/login.
const loginPage = `<!doctype html>
<html lang="ru">
<head><meta charset="utf-8"><title>Вход</title></head>
<body>
<form id="login">
<input name="username" placeholder="Имя пользователя" autocomplete="username">
<input name="password" type="password" placeholder="Пароль" autocomplete="current-password">
<button type="submit">Войти</button>
</form>
<script>
document.getElementById('login').addEventListener('submit', async (e) => {
  e.preventDefault();
  const f = new FormData(e.target);
  const resp = await fetch('/auth/login', {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify({username: f.get('username'), password: f.get('password')}),
  });
  if (resp.ok) {
    const next = new URLSearchParams(location.search).get('next') || '/';
    location.assign(next);
  }
});
</script>
</body>
</html>`

func (h *Handlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(loginPage))
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var in models.LoginRequest
	if err := decodeStrict(r, &in); err != nil {
		writeInvalidArgument(w, r)
		return
	}
	if in.Username == "" || in.Password == "" {
		writeInvalidArgument(w, r)
		return
	}

	user, err := h.Session.Login(r.Context(), in.Username, in.Password)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.SessionResponse{
		IsAuthenticated: true,
		User:            user,
	})
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	// Выход не ошибается: локальное состояние очищается безусловно,
	// отказ уведомления бэкенда остаётся в логах.
	h.Session.Logout(r.Context())
	writeJSON(w, http.StatusOK, models.SessionResponse{IsAuthenticated: false})
}

// SessionState отдаёт текущее состояние сессии — UI-оболочка опрашивает его
// при старте и после операций входа/выхода.
func (h *Handlers) SessionState(w http.ResponseWriter, r *http.Request) {
	st := h.Session.State()

	if !st.Initialized {
		httperr.WriteStatus(w, r, http.StatusServiceUnavailable,
			"session_not_ready", "session is initializing, retry shortly")
		return
	}

	writeJSON(w, http.StatusOK, models.SessionResponse{
		IsAuthenticated: st.Authenticated,
		User:            st.User,
	})
}
