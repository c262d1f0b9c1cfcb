package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"society-platform/internal/audit"
	"society-platform/internal/auth"
	"society-platform/internal/claims"
	"society-platform/internal/config"
	"society-platform/internal/features"
	"society-platform/internal/httpapi"
	"society-platform/internal/metrics"
	"society-platform/internal/remote"
	"society-platform/internal/session"
	"society-platform/pkg/logger"
	"society-platform/pkg/utils"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := config.LoadEnvFile(".env"); err != nil {
		slog.Error("env file load failed", "err", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	var registerer prometheus.Registerer
	if cfg.Metrics.Enabled {
		registerer = reg
	}
	m := metrics.New(cfg.Metrics.Enabled, registerer)

	var authManager *auth.Manager
	if cfg.VerifiedAuth() {
		authManager, err = auth.NewManager(cfg.Auth)
		if err != nil {
			log.Error("auth init failed", "err", err)
			os.Exit(1)
		}
	}

	var (
		store   session.Store
		journal audit.Repository
	)
	switch cfg.Session.Store {
	case config.StoreRedis:
		rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
		if err != nil {
			log.Error("redis init failed", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
		store = session.NewRedisStore(rdb, cfg.Session.TokenKey, cfg.Session.TokenTTL)
		journal = audit.NewRedisRepo(rdb, audit.DefaultRedisKey, audit.DefaultCapacity)
	default:
		store = session.NewMemoryStore()
		journal = audit.NewMemoryRepo(audit.DefaultCapacity)
	}
	tokens := session.NewTokenSource(store)

	extractor := claims.NewExtractor(
		claims.WithStrictDecoding(cfg.Token.StrictDecoding),
		claims.WithLogger(log),
		claims.WithDecodeObserver(m.RecordDecodeFailure),
	)

	var backend features.Backend
	if cfg.Backend.BaseURL != "" {
		client, err := remote.NewClient(remote.Options{
			BaseURL: cfg.Backend.BaseURL,
			Timeout: cfg.Backend.Timeout,
			Logger:  log,
			Token:   tokens.Token,
		})
		if err != nil {
			log.Error("backend client init failed", "err", err)
			os.Exit(1)
		}
		backend = client
	} else {
		log.Warn("BACKEND_BASE_URL not set; features will fail as not configured")
	}

	catalog := features.NewCatalog(backend, features.Env{
		Scope:   features.ScopeFromSession(tokens, extractor),
		Logger:  log,
		Metrics: m,
	})

	h := httpapi.Handlers{
		Auth:      authManager,
		Store:     store,
		Tokens:    tokens,
		Extractor: extractor,
		Features:  catalog.Registry(),
		Audit:     audit.NewService(journal),
	}

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))
	r.Use(auth.AdvisoryScope(extractor))

	registerRoutes(r, cfg, h, reg)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening",
			"addr", srv.Addr,
			"env", cfg.App.Env,
			"session_store", cfg.Session.Store,
			"verified_auth", cfg.VerifiedAuth(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}
