package tokenstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pengunin/blog-frontend/internal/models"
)

// TestMemory_RoundTrip — сохранение и чтение пары и кэша пользователя.
func TestMemory_RoundTrip(t *testing.T) {
	t.Parallel()

	st := NewMemory("pengunin_")
	ctx := context.Background()

	require.NoError(t, st.SaveTokens(ctx, models.TokenPair{AccessToken: "a1", RefreshToken: "r1"}))
	require.NoError(t, st.SaveUser(ctx, &models.User{Username: "bob", Roles: []string{"editor"}}))

	access, ok := st.AccessToken(ctx)
	require.True(t, ok)
	require.Equal(t, "a1", access)

	refresh, ok := st.RefreshToken(ctx)
	require.True(t, ok)
	require.Equal(t, "r1", refresh)

	u, ok := st.User(ctx)
	require.True(t, ok)
	require.Equal(t, "bob", u.Username)
}

// TestMemory_RemoveTokens_Idempotent — повторная очистка пустого хранилища
// безопасна.
func TestMemory_RemoveTokens_Idempotent(t *testing.T) {
	t.Parallel()

	st := NewMemory("pengunin_")
	ctx := context.Background()

	st.RemoveTokens(ctx)
	st.RemoveTokens(ctx)

	_, ok := st.AccessToken(ctx)
	require.False(t, ok)
}

// TestMemory_PrefixIsolation — разные префиксы не видят данные друг друга.
func TestMemory_PrefixIsolation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	a := NewMemory("a_")
	require.NoError(t, a.SaveTokens(ctx, models.TokenPair{AccessToken: "a1", RefreshToken: "r1"}))

	b := NewMemory("b_")
	_, ok := b.AccessToken(ctx)
	require.False(t, ok)
}
