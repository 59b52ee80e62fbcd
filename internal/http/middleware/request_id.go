package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/pengunin/blog-frontend/internal/client"
)

// RequestID обеспечивает наличие X-Request-Id:
//  1. читает заголовок X-Request-Id, если есть;
//  2. иначе генерирует новый uuid;
//  3. кладёт id в Response Header, Request Header (для удобства) и в контекст
//     по ключу client.CtxRequestID (его читает клиент бэкенда и прокидывает
//     дальше в исходящие запросы).
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-Id")
			if id == "" {
				id = uuid.NewString()
				// добавим в запрос — чтобы httperr.WriteError мог его забрать.
				r.Header.Set("X-Request-Id", id)
			}
			w.Header().Set("X-Request-Id", id)

			ctx := context.WithValue(r.Context(), client.CtxRequestID, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
