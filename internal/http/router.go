package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pengunin/blog-frontend/internal/client"
	"github.com/pengunin/blog-frontend/internal/http/handlers"
	"github.com/pengunin/blog-frontend/internal/http/middleware"
	"github.com/pengunin/blog-frontend/internal/session"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger  *slog.Logger
	Timeout time.Duration
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
//
// Маршруты делятся на две группы:
//   - публичные: чтение контента, вход/выход, состояние сессии;
//   - /admin: операции редактирования, под охраной RequireAuth.
func NewRouter(cl *client.Client, sm *session.Manager, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	h := handlers.New(cl, sm)

	// Публичные маршруты.
	root.Post("/auth/login", h.Login)
	root.Post("/auth/logout", h.Logout)
	root.Get("/auth/session", h.SessionState)
	root.Get("/login", h.LoginPage)

	root.Get("/posts", h.ListPosts)
	root.Get("/posts/by-category", h.PostsByCategory)
	root.Get("/posts/by-tag", h.PostsByTag)
	root.Get("/posts/s/{slug}", h.PostBySlug)
	root.Get("/categories", h.ListCategories)
	root.Get("/categories/{id}", h.GetCategory)
	root.Get("/tags", h.ListTags)
	root.Get("/tags/{id}", h.GetTag)

	// Защищённая группа: редактирование контента.
	root.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireAuth(sm))

		r.Post("/posts", h.CreatePost)
		r.Put("/posts/{id}", h.UpdatePost)
		r.Delete("/posts/{id}", h.DeletePost)

		r.Post("/categories", h.CreateCategory)
		r.Put("/categories/{id}", h.UpdateCategory)
		r.Delete("/categories/{id}", h.DeleteCategory)

		r.Post("/tags", h.CreateTag)
		r.Put("/tags/{id}", h.UpdateTag)
		r.Delete("/tags/{id}", h.DeleteTag)
	})

	return root
}
