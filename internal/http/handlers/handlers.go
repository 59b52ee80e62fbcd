package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/pengunin/blog-frontend/internal/client"
	"github.com/pengunin/blog-frontend/internal/httperr"
	"github.com/pengunin/blog-frontend/internal/session"
)

// Handlers агрегирует зависимости (клиент бэкенда и контроллер сессии).
type Handlers struct {
	Client  *client.Client
	Session *session.Manager
}

func New(cl *client.Client, sm *session.Manager) *Handlers {
	return &Handlers{Client: cl, Session: sm}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через httperr.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// writeInvalidArgument — вспомогалка: локальная ошибка парсинга -> 400.
func writeInvalidArgument(w http.ResponseWriter, r *http.Request) {
	httperr.WriteStatus(w, r, http.StatusBadRequest,
		"invalid_argument", "invalid argument")
}
