package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookreview/internal/auth"
	"bookreview/internal/author"
	"bookreview/internal/book"
	"bookreview/internal/config"
	"bookreview/internal/httpx"
	"bookreview/internal/logging"
	"bookreview/internal/platform/objectstore"
	"bookreview/internal/review"
	"bookreview/internal/session"
	"bookreview/internal/user"
	"bookreview/internal/web"

	"github.com/jackc/pgx/v5/pgxpool"
)

const blacklistCleanupInterval = time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("cannot load config")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: os.Stdout})
	if err := cfg.ValidateServer(); err != nil {
		logging.Fatal().Err(err).Msg("invalid config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool := mustOpenDB(ctx, cfg.DBDSN)
	defer dbPool.Close()

	covers, media, err := openCoverStore(cfg)
	if err != nil {
		logging.Fatal().Err(err).Str("backend", cfg.StorageBackend).Msg("cannot open cover store")
	}

	render, err := web.NewRenderer()
	if err != nil {
		logging.Fatal().Err(err).Msg("cannot parse templates")
	}

	userRepository := user.NewPostgresRepo(dbPool, cfg.DBTimeout)
	authorRepository := author.NewPostgresRepo(dbPool, cfg.DBTimeout)
	bookRepository := book.NewPostgresRepo(dbPool, cfg.DBTimeout)
	reviewRepository := review.NewPostgresRepo(dbPool, cfg.DBTimeout)
	blacklistRepository := session.NewBlacklistPostgresRepo(dbPool, cfg.DBTimeout)

	userService := user.NewService(userRepository)
	sessionService := session.NewService(blacklistRepository)
	authService := auth.NewService(cfg.SessionSecret, cfg.SessionTTL, userService, sessionService)
	bookService := book.NewService(bookRepository, reviewRepository)
	authorService := author.NewService(authorRepository, bookRepository)
	reviewService := review.NewService(reviewRepository, bookService, authorService, covers)

	limiter := httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.TrustProxyHeaders)
	defer limiter.Stop()

	router := newRouter(routes{
		auth:         auth.NewHTTPHandler(authService, render, cfg.CookieSecure),
		users:        user.NewHTTPHandler(userService, render),
		books:        book.NewHTTPHandler(bookService, render),
		authors:      author.NewHTTPHandler(authorService, render),
		reviews:      review.NewHTTPHandler(reviewService, render),
		sessions:     authService,
		limiter:      limiter,
		render:       render,
		ready:        dbPool.Ping,
		media:        media,
		mediaURL:     cfg.MediaURL,
		maxBodyBytes: cfg.MaxBodyBytes,
		hsts:         cfg.CookieSecure,
	})

	go sessionService.RunCleanup(ctx, blacklistCleanupInterval)

	httpServer := &http.Server{
		Addr:              cfg.AppAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", cfg.AppAddr).Str("storage", covers.Backend()).Msg("starting server")
		serverErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("server error")
		}
	case <-ctx.Done():
		logging.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logging.Error().Err(err).Msg("graceful shutdown failed")
		}
	}
}

func mustOpenDB(ctx context.Context, dsn string) *pgxpool.Pool {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logging.Fatal().Err(err).Msg("cannot create db pool")
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		logging.Fatal().Err(err).Str("dsn", config.RedactDSN(dsn)).Msg("cannot ping database")
	}
	logging.Info().Msg("database connection OK")
	return pool
}

// openCoverStore returns the configured store and, for local storage, the
// handler serving its files.
func openCoverStore(cfg *config.Config) (objectstore.Store, http.Handler, error) {
	if cfg.StorageBackend == "cloudinary" {
		store, err := objectstore.NewCloudinaryStore(cfg.CloudinaryURL)
		return store, nil, err
	}
	store, err := objectstore.NewLocalStore(cfg.MediaDir, cfg.MediaURL)
	if err != nil {
		return nil, nil, err
	}
	return store, store.Handler(), nil
}
