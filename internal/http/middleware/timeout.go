package middleware

import (
	"context"
	"net/http"
	"time"
)

// Timeout навешивает на запрос общий дедлайн d, если вызывающий не принёс
// свой. Уже существующий дедлайн не трогается, каким бы он ни был.
// d <= 0 отключает мидлвар.
func Timeout(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := r.Context().Deadline(); ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
