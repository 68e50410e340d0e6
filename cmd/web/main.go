package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/synap5e/homehero-web/internal/api"
	"github.com/synap5e/homehero-web/internal/audit"
	"github.com/synap5e/homehero-web/internal/config"
	dbpkg "github.com/synap5e/homehero-web/internal/db"
	"github.com/synap5e/homehero-web/internal/inflight"
	"github.com/synap5e/homehero-web/internal/logger"
	"github.com/synap5e/homehero-web/internal/middleware"
	"github.com/synap5e/homehero-web/internal/routes"
	"github.com/synap5e/homehero-web/internal/search"
	"github.com/synap5e/homehero-web/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	zap.ReplaceGlobals(zl)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ======================================================
	// 🔧 INFRA
	// ======================================================
	store, closeStore := sessionStore(ctx, cfg, zl)
	defer closeStore()

	db, err := dbpkg.Open(cfg, zl)
	if err != nil {
		zl.Fatal("database", zap.Error(err))
	}

	var (
		sink     audit.Sink = audit.NewZapSink(zl)
		activity *audit.Logger
	)
	if db != nil {
		activity = audit.New(db)
		sink = activity
	}
	dispatcher := audit.NewDispatcher(sink, zl)

	searches := search.NewRegistry(cfg.SearchDebounce, 0, zl)
	go searches.Run(ctx)

	limiter := middleware.NewLimiter(cfg.RateLimitPerMin)
	go limiter.Run(ctx)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.MaxMultipartMemory = 32 << 20

	routes.RegisterRoutes(r, cfg, routes.Infra{
		API:      api.NewClient(cfg.APIBaseURL, cfg.APITimeout, zl),
		Sessions: session.NewManager(store, cfg.SessionTTL),
		Searches: searches,
		Guard:    inflight.New(),
		Limiter:  limiter,
		Recorder: dispatcher,
		Activity: activity,
		Log:      zl,
	})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("server running", zap.String("addr", cfg.Addr()), zap.String("api", cfg.APIBaseURL))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zl.Error("server shutdown", zap.Error(err))
	}
	dispatcher.Close()
}

// sessionStore picks redis or memory per SESSION_STORE. Redis must answer
// a ping at startup.
func sessionStore(ctx context.Context, cfg *config.Config, zl *zap.Logger) (session.Store, func()) {
	if cfg.SessionStore != "redis" {
		zl.Warn("using in-memory session store")
		return session.NewMemoryStore(), func() {}
	}

	client := session.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	store := session.NewRedisStore(client)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		zl.Fatal("redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}
	return store, func() { _ = client.Close() }
}
