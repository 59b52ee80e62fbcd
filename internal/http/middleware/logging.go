package middleware

import (
	"log/slog"
	"net/http"
	"time"

	logctx "github.com/pengunin/blog-frontend/pkg/log"
)

// Logging кладёт request-scoped логгер (обогащённый request_id) в контекст
// и пишет одну access-запись на запрос: метод, путь, статус, длительность,
// объём ответа. Нижние слои — client, session — достают тот же логгер
// через logctx.From и пишут события запроса с его request_id.
func Logging(l *slog.Logger) Middleware {
	if l == nil {
		l = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lg := l
			if rid := r.Header.Get("X-Request-Id"); rid != "" {
				lg = lg.With(slog.String("request_id", rid))
			}
			r = r.WithContext(logctx.Into(r.Context(), lg))

			sw := newStatusWriter(w)
			start := time.Now()
			next.ServeHTTP(sw, r)

			lg.LogAttrs(r.Context(), slog.LevelInfo, "http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote", r.RemoteAddr),
				slog.Int("status", sw.status),
				slog.Duration("dur", time.Since(start)),
				slog.Int("bytes", sw.written),
			)
		})
	}
}
