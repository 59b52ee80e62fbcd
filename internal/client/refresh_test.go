package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pengunin/blog-frontend/internal/models"
	"github.com/pengunin/blog-frontend/internal/tokenstore"
)

// writeEnvelope — ответ бэкенда в едином конверте {status, message, data}.
func writeEnvelope(w http.ResponseWriter, status int, data any) {
	raw, _ := json.Marshal(data)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  status,
		"message": "",
		"data":    json.RawMessage(raw),
	})
}

type testEnv struct {
	client  *Client
	store   tokenstore.Store
	expired int32
}

// newTestEnv собирает клиент над httptest-бэкендом с memory-хранилищем,
// засеянным парой a1/r1.
func newTestEnv(t *testing.T, handler http.Handler, refreshTimeout time.Duration) *testEnv {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	env := &testEnv{store: tokenstore.NewMemory("t_")}
	require.NoError(t, env.store.SaveTokens(context.Background(),
		models.TokenPair{AccessToken: "a1", RefreshToken: "r1"}))

	cl, err := New(Options{
		BaseURL:        srv.URL,
		Store:          env.store,
		RefreshTimeout: refreshTimeout,
		OnSessionExpired: func(context.Context) {
			atomic.AddInt32(&env.expired, 1)
		},
	})
	require.NoError(t, err)
	env.client = cl

	return env
}

// TestRefresh_SingleFlight — N конкурентных запросов одновременно ловят 401:
// сетевой вызов refresh выполняется ровно один раз, все N запросов в итоге
// успешны и передиспатчены с новым токеном (старый сервер не принимает).
func TestRefresh_SingleFlight(t *testing.T) {
	t.Parallel()

	const n = 8

	var refreshCalls, arrived int32
	unblock := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc("/posts", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer a2" {
			writeEnvelope(w, http.StatusOK, []models.Post{})
			return
		}

		// Барьер: все N запросов со старым токеном получают 401 одновременно.
		if atomic.AddInt32(&arrived, 1) == n {
			close(unblock)
		}
		<-unblock
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)

		var req models.RefreshRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "r1", req.RefreshToken)

		// Держим затвор закрытым, чтобы опоздавшие встали в очередь.
		time.Sleep(250 * time.Millisecond)
		writeEnvelope(w, http.StatusOK, models.TokenPair{AccessToken: "a2", RefreshToken: "r2"})
	})

	env := newTestEnv(t, mux, 5*time.Second)

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.client.ListPosts(context.Background(), models.ListParams{})
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i], "запрос %d", i)
	}

	require.Equal(t, int32(1), atomic.LoadInt32(&refreshCalls))

	access, ok := env.store.AccessToken(context.Background())
	require.True(t, ok)
	require.Equal(t, "a2", access)

	refresh, ok := env.store.RefreshToken(context.Background())
	require.True(t, ok)
	require.Equal(t, "r2", refresh)
}

// TestRefresh_QueueFailure — refresh отказывает: все ожидающие отклоняются
// одной и той же ошибкой, хранилище очищено, хук сработал один раз.
func TestRefresh_QueueFailure(t *testing.T) {
	t.Parallel()

	const n = 6

	var arrived int32
	unblock := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc("/posts", func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&arrived, 1) == n {
			close(unblock)
		}
		<-unblock
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(250 * time.Millisecond)
		w.WriteHeader(http.StatusUnauthorized)
	})

	env := newTestEnv(t, mux, 5*time.Second)

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.client.ListPosts(context.Background(), models.ListParams{})
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.ErrorIs(t, errs[i], ErrSessionExpired, "запрос %d", i)
	}

	_, ok := env.store.AccessToken(context.Background())
	require.False(t, ok)
	_, ok = env.store.RefreshToken(context.Background())
	require.False(t, ok)

	require.Equal(t, int32(1), atomic.LoadInt32(&env.expired))
}

// TestRefresh_NoDoubleRetry — сервер отвечает 401 и на новый токен:
// запрос повторяется ровно один раз, второй 401 уходит вызывающему как
// UpstreamError без второй попытки обновления.
func TestRefresh_NoDoubleRetry(t *testing.T) {
	t.Parallel()

	var refreshCalls, postCalls int32

	mux := http.NewServeMux()
	mux.HandleFunc("/posts", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&postCalls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
		writeEnvelope(w, http.StatusOK, models.TokenPair{AccessToken: "a2", RefreshToken: "r2"})
	})

	env := newTestEnv(t, mux, 5*time.Second)

	_, err := env.client.ListPosts(context.Background(), models.ListParams{})
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrSessionExpired)

	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	require.Equal(t, http.StatusUnauthorized, ue.Status)

	require.Equal(t, int32(1), atomic.LoadInt32(&refreshCalls))
	require.Equal(t, int32(2), atomic.LoadInt32(&postCalls))
}

// TestRefresh_NoRefreshToken — без refresh-токена сетевой вызов обновления
// не выполняется: сразу ErrSessionExpired, хранилище очищено.
func TestRefresh_NoRefreshToken(t *testing.T) {
	t.Parallel()

	var refreshCalls int32

	mux := http.NewServeMux()
	mux.HandleFunc("/posts", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
		writeEnvelope(w, http.StatusOK, models.TokenPair{AccessToken: "a2", RefreshToken: "r2"})
	})

	env := newTestEnv(t, mux, 5*time.Second)
	// Оставляем только access-токен: битое состояние «пол-пары».
	env.store.RemoveTokens(context.Background())
	require.NoError(t, env.store.SaveTokens(context.Background(),
		models.TokenPair{AccessToken: "a1", RefreshToken: ""}))

	_, err := env.client.ListPosts(context.Background(), models.ListParams{})
	require.ErrorIs(t, err, ErrSessionExpired)
	require.Equal(t, int32(0), atomic.LoadInt32(&refreshCalls))

	_, ok := env.store.AccessToken(context.Background())
	require.False(t, ok)
	require.Equal(t, int32(1), atomic.LoadInt32(&env.expired))
}

// TestRefresh_Timeout — зависший эндпойнт обновления: собственный дедлайн
// refresh гарантирует, что затвор освобождается, а ошибка — терминальная.
func TestRefresh_Timeout(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/posts", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
		writeEnvelope(w, http.StatusOK, models.TokenPair{AccessToken: "a2", RefreshToken: "r2"})
	})

	env := newTestEnv(t, mux, 100*time.Millisecond)

	start := time.Now()
	_, err := env.client.ListPosts(context.Background(), models.ListParams{})
	require.ErrorIs(t, err, ErrSessionExpired)
	require.Less(t, time.Since(start), time.Second)

	// Затвор не завис: повторный вызов завершается, а не ждёт вечно.
	require.NoError(t, env.store.SaveTokens(context.Background(),
		models.TokenPair{AccessToken: "a1", RefreshToken: "r1"}))
	_, err = env.client.ListPosts(context.Background(), models.ListParams{})
	require.Error(t, err)
}

// failingSaveStore — хранилище, отклоняющее SaveTokens после начального
// засева: моделирует отказ персистентности в момент обновления пары.
type failingSaveStore struct {
	tokenstore.Store
	sealed atomic.Bool
}

func (s *failingSaveStore) SaveTokens(ctx context.Context, pair models.TokenPair) error {
	if s.sealed.Load() {
		return errors.New("disk full")
	}
	return s.Store.SaveTokens(ctx, pair)
}

// TestRefresh_RetryUsesFreshToken_WhenSaveFails — refresh выдал новую пару,
// но записать её в хранилище не удалось: повтор всё равно уходит с новым
// access-токеном из ответа обновления, а не со старым из хранилища.
func TestRefresh_RetryUsesFreshToken_WhenSaveFails(t *testing.T) {
	t.Parallel()

	var lastAuth atomic.Value

	mux := http.NewServeMux()
	mux.HandleFunc("/posts", func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth != "Bearer a2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		lastAuth.Store(auth)
		writeEnvelope(w, http.StatusOK, []models.Post{})
	})
	mux.HandleFunc("/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, models.TokenPair{AccessToken: "a2", RefreshToken: "r2"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	store := &failingSaveStore{Store: tokenstore.NewMemory("t_")}
	require.NoError(t, store.SaveTokens(context.Background(),
		models.TokenPair{AccessToken: "a1", RefreshToken: "r1"}))
	store.sealed.Store(true)

	cl, err := New(Options{BaseURL: srv.URL, Store: store})
	require.NoError(t, err)

	_, err = cl.ListPosts(context.Background(), models.ListParams{})
	require.NoError(t, err)
	require.Equal(t, "Bearer a2", lastAuth.Load())

	// Хранилище так и держит старую пару — источником токена для повтора
	// был ответ обновления.
	access, ok := store.AccessToken(context.Background())
	require.True(t, ok)
	require.Equal(t, "a1", access)
}

// TestRefresh_Redispatch — сценарий: GET ловит 401, refresh выдаёт новую пару,
// исходный запрос передиспатчен с Authorization: Bearer a2 и успешен.
func TestRefresh_Redispatch(t *testing.T) {
	t.Parallel()

	var lastAuth atomic.Value

	mux := http.NewServeMux()
	mux.HandleFunc("/posts", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer a2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		lastAuth.Store(r.Header.Get("Authorization"))
		writeEnvelope(w, http.StatusOK, []models.Post{{ID: "p1", Title: "hello", Slug: "hello"}})
	})
	mux.HandleFunc("/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, models.TokenPair{AccessToken: "a2", RefreshToken: "r2"})
	})

	env := newTestEnv(t, mux, 5*time.Second)

	posts, err := env.client.ListPosts(context.Background(), models.ListParams{})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.Equal(t, "Bearer a2", lastAuth.Load())
}
