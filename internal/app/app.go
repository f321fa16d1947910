package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/clozedeck-backend/internal/adapter/postgres"
	"github.com/heartmarshall/clozedeck-backend/internal/adapter/postgres/review"
	"github.com/heartmarshall/clozedeck-backend/internal/adapter/postgres/sentence"
	"github.com/heartmarshall/clozedeck-backend/internal/auth"
	"github.com/heartmarshall/clozedeck-backend/internal/config"
	"github.com/heartmarshall/clozedeck-backend/internal/service/deck"
	"github.com/heartmarshall/clozedeck-backend/internal/service/profile"
	"github.com/heartmarshall/clozedeck-backend/internal/service/study"
	"github.com/heartmarshall/clozedeck-backend/internal/transport/middleware"
	"github.com/heartmarshall/clozedeck-backend/internal/transport/rest"
)

// Run is the server entry point. It loads configuration, connects to the
// database, wires services and serves HTTP until ctx is cancelled, then
// shuts down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	version := BuildVersion()

	logger.Info("starting application",
		slog.String("version", version),
		slog.String("log_level", cfg.Log.Level),
		slog.Any("languages", cfg.Study.Languages),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	st := newStack(cfg, pool, logger, version)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      st.handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			st.close(context.Background())
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", slog.String("error", err.Error()))
	}

	// Pending review writes are flushed before the pool closes.
	if err := st.close(shutdownCtx); err != nil {
		logger.Error("review writer shutdown", slog.String("error", err.Error()))
	}

	logger.Info("stopped")
	return nil
}

// stack is the wired HTTP application and the background components that
// must be stopped with it.
type stack struct {
	handler http.Handler
	writer  *study.ReviewWriter
	limiter *middleware.RateLimiter
}

func newStack(cfg *config.Config, pool *pgxpool.Pool, logger *slog.Logger, version string) *stack {
	// Repositories.
	sentenceRepo := sentence.New(pool)
	reviewRepo := review.New(pool)
	txm := postgres.NewTxManager(pool)

	// Study runtime.
	writer := study.NewReviewWriter(logger, reviewRepo, cfg.Study.Location, cfg.Study.WriteTimeout)
	registry := study.NewRegistry(cfg.Study.SessionTTL)
	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))

	// Services.
	studySvc := study.NewService(logger, sentenceRepo, reviewRepo, writer, registry, rng, study.Config{
		Builder: study.BuilderConfig{
			DailyGoal:       cfg.Study.DailyGoal,
			BonusQuota:      cfg.Study.BonusQuota,
			FreeReviewLimit: cfg.Study.FreeReviewLimit,
		},
		Location:  cfg.Study.Location,
		Languages: cfg.Study.Languages,
	})
	deckSvc := deck.NewService(logger, sentenceRepo, cfg.Study.Languages)
	profileSvc := profile.NewService(logger, reviewRepo, registry, txm)

	// Transport.
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	st := &stack{writer: writer}

	var limit middleware.Middleware
	if cfg.RateLimit.Enabled {
		st.limiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.CleanupInterval)
		limit = st.limiter.Middleware()
	}

	router := rest.NewRouter(rest.Handlers{
		Health:  rest.NewHealthHandler(pool, registry, version),
		Study:   rest.NewStudyHandler(studySvc, logger),
		Deck:    rest.NewDeckHandler(deckSvc, logger),
		Profile: rest.NewProfileHandler(profileSvc, logger),
	}, middleware.Chain(
		middleware.Auth(jwtManager, logger),
		limit,
	))

	st.handler = middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
	)(router)

	return st
}

func (s *stack) close(ctx context.Context) error {
	if s.limiter != nil {
		s.limiter.Stop()
	}
	return s.writer.Close(ctx)
}
