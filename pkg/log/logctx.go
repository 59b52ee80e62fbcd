// log — прокидывание request-scoped логгера через context.
//
// HTTP-мидлвар кладёт логгер, уже обогащённый request_id, в контекст
// запроса; нижние слои (client, session, tokenstore) достают его через
// From и пишут события в рамках того же запроса, ничего не зная о HTTP.
package log

import (
	"context"
	"log/slog"
)

// Неэкспортированный тип ключа исключает коллизии с чужими значениями
// контекста.
type ctxKey struct{}

// Into возвращает контекст с логгером l.
func Into(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From достаёт логгер из контекста. Если логгера в контексте нет (фоновая
// работа вне запроса, тесты) — slog.Default(), вызывающему не нужно
// проверять nil.
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
		return l
	}

	return slog.Default()
}
