package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pengunin/blog-frontend/internal/client"
	"github.com/pengunin/blog-frontend/internal/config"
	fehttp "github.com/pengunin/blog-frontend/internal/http"
	"github.com/pengunin/blog-frontend/internal/session"
	"github.com/pengunin/blog-frontend/internal/tokenstore"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting blog-frontend", "env", cfg.Env)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	store, err := newStore(cfg)
	if err != nil {
		log.Error("store_init_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if cerr := store.Close(); cerr != nil {
			log.Warn("store_close_failed", slog.String("err", cerr.Error()))
		}
	}()

	var sm *session.Manager

	cl, err := client.New(client.Options{
		BaseURL:        cfg.API.BaseURL,
		Store:          store,
		RefreshTimeout: cfg.Timeouts.Refresh,
		// Хук дергается протоколом обновления при невосстановимом отказе;
		// контроллер к этому моменту уже существует (Init ниже).
		OnSessionExpired: func(ctx context.Context) { sm.Expire(ctx) },
	})
	if err != nil {
		log.Error("client_init_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	sm, err = session.New(cl, store)
	if err != nil {
		log.Error("session_init_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	// Восстановление сессии — до начала обслуживания запросов: охрана
	// маршрутов отвечает 503, пока состояние неизвестно.
	sm.Init(rootCtx)
	log.Info("session_initialized", "authenticated", sm.IsAuthenticated())

	apiHandler := fehttp.NewRouter(cl, sm, fehttp.Options{
		Logger:  log,
		Timeout: cfg.Timeouts.Service,
	})

	var ready int32 // 0 — not ready; 1 — ready

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if atomic.LoadInt32(&ready) == 1 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}

		http.Error(w, "not ready", http.StatusServiceUnavailable)
	})

	mux.Handle("/metrics", promhttp.Handler())

	mux.Handle("/", apiHandler)

	httpAddr := cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", httpAddr)
	if err != nil {
		log.Error("http_listen_failed", slog.String("addr", httpAddr), slog.String("err", err.Error()))
		os.Exit(1)
	}

	log.Info("http_listen_start", slog.String("addr", httpAddr))

	serveErrCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	atomic.StoreInt32(&ready, 1)
	log.Info("frontend_ready")

	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			log.Error("http_serve_failed", slog.String("err", err.Error()))
		}
	}

	atomic.StoreInt32(&ready, 0)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_shutdown_incomplete", slog.String("err", err.Error()))
	} else {
		log.Info("http_stopped")
	}

	log.Info("service_stopped")
}

// newStore выбирает бэкенд хранилища токенов по конфигурации.
func newStore(cfg *config.Config) (tokenstore.Store, error) {
	switch cfg.Store.Backend {
	case "file", "":
		return tokenstore.NewFile(cfg.Store.Path, cfg.Store.Prefix)
	case "memory":
		return tokenstore.NewMemory(cfg.Store.Prefix), nil
	case "redis":
		return tokenstore.NewRedis(cfg.Store.RedisURL, cfg.Store.Prefix)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
