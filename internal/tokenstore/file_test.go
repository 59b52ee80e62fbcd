package tokenstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pengunin/blog-frontend/internal/models"
)

func newFileStore(t *testing.T) Store {
	t.Helper()
	st, err := NewFile(filepath.Join(t.TempDir(), "tokens.json"), "pengunin_")
	require.NoError(t, err)
	return st
}

// TestFile_SaveTokens_And_Read — happy-path: пара сохраняется и читается целиком.
func TestFile_SaveTokens_And_Read(t *testing.T) {
	t.Parallel()

	st := newFileStore(t)
	ctx := context.Background()

	require.NoError(t, st.SaveTokens(ctx, models.TokenPair{AccessToken: "a1", RefreshToken: "r1"}))

	access, ok := st.AccessToken(ctx)
	require.True(t, ok)
	require.Equal(t, "a1", access)

	refresh, ok := st.RefreshToken(ctx)
	require.True(t, ok)
	require.Equal(t, "r1", refresh)
}

// TestFile_Read_Empty — на пустом хранилище все чтения возвращают «значения нет»,
// без ошибок.
func TestFile_Read_Empty(t *testing.T) {
	t.Parallel()

	st := newFileStore(t)
	ctx := context.Background()

	_, ok := st.AccessToken(ctx)
	require.False(t, ok)
	_, ok = st.RefreshToken(ctx)
	require.False(t, ok)
	_, ok = st.User(ctx)
	require.False(t, ok)
}

// TestFile_SaveUser_And_Read — кэш идентичности сериализуется в JSON и читается назад.
func TestFile_SaveUser_And_Read(t *testing.T) {
	t.Parallel()

	st := newFileStore(t)
	ctx := context.Background()

	u := &models.User{Username: "alice", Roles: []string{"admin"}}
	require.NoError(t, st.SaveUser(ctx, u))

	got, ok := st.User(ctx)
	require.True(t, ok)
	require.Equal(t, "alice", got.Username)
	require.Equal(t, []string{"admin"}, got.Roles)
}

// TestFile_CorruptFile_ReadsAsEmpty — битый JSON-файл трактуется как пустое
// хранилище, а не как ошибка.
func TestFile_CorruptFile_ReadsAsEmpty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tokens.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))

	st, err := NewFile(path, "pengunin_")
	require.NoError(t, err)

	_, ok := st.AccessToken(context.Background())
	require.False(t, ok)
}

// TestFile_CorruptUserCache_Absent — нечитаемый кэш пользователя выглядит как
// отсутствующий, при живых токенах.
func TestFile_CorruptUserCache_Absent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tokens.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"pengunin_accessToken":"a1","pengunin_refreshToken":"r1","pengunin_user":"{oops"}`), 0o600))

	st, err := NewFile(path, "pengunin_")
	require.NoError(t, err)
	ctx := context.Background()

	_, ok := st.User(ctx)
	require.False(t, ok)

	access, ok := st.AccessToken(ctx)
	require.True(t, ok)
	require.Equal(t, "a1", access)
}

// TestFile_RemoveTokens_ClearsAll — после очистки не остаётся ни токенов,
// ни кэша пользователя.
func TestFile_RemoveTokens_ClearsAll(t *testing.T) {
	t.Parallel()

	st := newFileStore(t)
	ctx := context.Background()

	require.NoError(t, st.SaveTokens(ctx, models.TokenPair{AccessToken: "a1", RefreshToken: "r1"}))
	require.NoError(t, st.SaveUser(ctx, &models.User{Username: "alice"}))

	st.RemoveTokens(ctx)

	_, ok := st.AccessToken(ctx)
	require.False(t, ok)
	_, ok = st.RefreshToken(ctx)
	require.False(t, ok)
	_, ok = st.User(ctx)
	require.False(t, ok)
}

// TestFile_Persistence — новая инстанция над тем же файлом видит сохранённое
// (сессия переживает перезапуск процесса).
func TestFile_Persistence(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tokens.json")
	ctx := context.Background()

	st1, err := NewFile(path, "pengunin_")
	require.NoError(t, err)
	require.NoError(t, st1.SaveTokens(ctx, models.TokenPair{AccessToken: "a1", RefreshToken: "r1"}))

	st2, err := NewFile(path, "pengunin_")
	require.NoError(t, err)

	access, ok := st2.AccessToken(ctx)
	require.True(t, ok)
	require.Equal(t, "a1", access)
}
