package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coinboard/coinboard-go/internal/config"
	"github.com/coinboard/coinboard-go/internal/crypto"
	"github.com/coinboard/coinboard-go/internal/handler"
	"github.com/coinboard/coinboard-go/internal/middleware"
	"github.com/coinboard/coinboard-go/internal/repository"
	"github.com/coinboard/coinboard-go/internal/service"
	"github.com/joho/godotenv"
)

const memoryDSN = "memory"

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()
	slog.SetDefault(newLogger(cfg))

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	users, articles, closeStore := openStore(ctx, cfg)
	defer closeStore()

	denylist := crypto.NewDenylist()
	authService := service.NewAuthService(users, denylist, cfg.JWTSecret, cfg.JWTExpiry)
	articleService := service.NewArticleService(articles, users)

	limiter := middleware.NewRateLimiter(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst)

	router := handler.NewRouter(handler.Routes{
		Auth: handler.NewAuthHandler(authService, handler.CookieConfig{
			Name:   cfg.CookieName,
			Secure: cfg.IsProduction(),
		}),
		Articles:   handler.NewArticleHandler(articleService),
		JWTSecret:  cfg.JWTSecret,
		CookieName: cfg.CookieName,
		Denylist:   denylist,
		Guard: middleware.GuardConfig{
			Secret:     cfg.JWTSecret,
			CookieName: cfg.CookieName,
			LoginPath:  cfg.LoginPath,
			Prefixes:   cfg.ProtectedPaths,
		},
		RateLimit: limiter.Middleware,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

func newLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// openStore returns the user and article stores along with a close func.
func openStore(ctx context.Context, cfg config.Config) (service.UserStore, service.ArticleStore, func()) {
	if cfg.DatabaseDSN == memoryDSN {
		slog.Warn("using in-memory store, data is lost on restart")
		store := repository.NewMemoryStore()
		return store.Users(), store.Articles(), func() {}
	}

	db, err := repository.NewDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database setup failed", "error", err)
		os.Exit(1)
	}

	if cfg.MigrateOnStart {
		if err := repository.Migrate(ctx, db); err != nil {
			slog.Error("migration failed", "error", err)
			os.Exit(1)
		}
	}

	return repository.NewUserRepository(db), repository.NewArticleRepository(db), func() {
		if err := db.Close(); err != nil {
			slog.Warn("database close failed", "error", err)
		}
	}
}
