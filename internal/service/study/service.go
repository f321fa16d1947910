package study

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/heartmarshall/clozedeck-backend/internal/domain"
	"github.com/heartmarshall/clozedeck-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type sentenceRepo interface {
	ListByLanguage(ctx context.Context, languageCode string) ([]domain.Sentence, error)
}

type reviewRepo interface {
	ListByUserAndSentences(ctx context.Context, userID uuid.UUID, sentenceIDs []uuid.UUID) ([]domain.ReviewRecord, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// poolFetchTimeout bounds a coalesced sentence pool fetch.
const poolFetchTimeout = 10 * time.Second

// Config holds the study service settings.
type Config struct {
	Builder   BuilderConfig
	Location  *time.Location
	Languages []string
}

// Service builds sessions and drives their runtimes.
type Service struct {
	sentences sentenceRepo
	reviews   reviewRepo
	saver     resultSaver
	builder   *Builder
	registry  *Registry
	clock     clock
	loc       *time.Location
	languages []string
	pools     singleflight.Group
	log       *slog.Logger
}

// NewService creates a new study service.
func NewService(
	log *slog.Logger,
	sentences sentenceRepo,
	reviews reviewRepo,
	saver resultSaver,
	registry *Registry,
	rng Shuffler,
	cfg Config,
) *Service {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		sentences: sentences,
		reviews:   reviews,
		saver:     saver,
		builder:   NewBuilder(rng, cfg.Builder),
		registry:  registry,
		clock:     systemClock{},
		loc:       loc,
		languages: cfg.Languages,
		log:       log.With("service", "study"),
	}
}

// Languages returns the supported language codes.
func (s *Service) Languages() []string {
	return s.languages
}

// StartSession builds a queue for the learner and registers a new runtime.
// An empty queue yields a session that is already Done.
func (s *Service) StartSession(ctx context.Context, input StartSessionInput) (Snapshot, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return Snapshot{}, domain.ErrUnauthorized
	}
	if err := input.Validate(s.languages); err != nil {
		return Snapshot{}, err
	}

	pool, history, err := s.load(ctx, userID, input.Language)
	if err != nil {
		return Snapshot{}, err
	}

	queue := s.builder.Build(BuildInput{
		UserID:   userID,
		Language: input.Language,
		Mode:     input.Mode,
		History:  history,
		Pool:     pool,
		Now:      s.clock.Now().In(s.loc),
	})

	rt := NewRuntime(userID, input.Language, input.Mode, queue, s.saver, s.log)
	s.registry.Put(rt)

	s.log.InfoContext(ctx, "session started",
		slog.String("user_id", userID.String()),
		slog.String("session_id", rt.ID().String()),
		slog.String("language", input.Language),
		slog.String("mode", input.Mode.String()),
		slog.Int("cards", len(queue)),
	)

	return rt.Snapshot(), nil
}

// GetSession returns the current view of a learner's session.
func (s *Service) GetSession(ctx context.Context, sessionID uuid.UUID) (Snapshot, error) {
	rt, err := s.runtime(ctx, sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	return rt.Snapshot(), nil
}

// SubmitAnswer judges an answer for the current card.
func (s *Service) SubmitAnswer(ctx context.Context, input SubmitAnswerInput) (Snapshot, error) {
	if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
		return Snapshot{}, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return Snapshot{}, err
	}

	rt, err := s.runtime(ctx, input.SessionID)
	if err != nil {
		return Snapshot{}, err
	}
	if _, err := rt.Submit(ctx, input.Answer); err != nil {
		return Snapshot{}, err
	}
	return rt.Snapshot(), nil
}

// GiveUp resolves the current card as failed.
func (s *Service) GiveUp(ctx context.Context, sessionID uuid.UUID) (Snapshot, error) {
	rt, err := s.runtime(ctx, sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	if _, err := rt.GiveUp(ctx); err != nil {
		return Snapshot{}, err
	}
	return rt.Snapshot(), nil
}

// Advance moves a resolved session to its next card.
func (s *Service) Advance(ctx context.Context, sessionID uuid.UUID) (Snapshot, error) {
	rt, err := s.runtime(ctx, sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	return rt.Advance()
}

// GetDashboard summarizes the learner's state for one language.
func (s *Service) GetDashboard(ctx context.Context, input DashboardInput) (domain.Dashboard, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.Dashboard{}, domain.ErrUnauthorized
	}
	if err := input.Validate(s.languages); err != nil {
		return domain.Dashboard{}, err
	}

	pool, history, err := s.load(ctx, userID, input.Language)
	if err != nil {
		return domain.Dashboard{}, err
	}
	return s.builder.Summarize(input.Language, history, pool, s.clock.Now().In(s.loc)), nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (s *Service) runtime(ctx context.Context, sessionID uuid.UUID) (*Runtime, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	rt, err := s.registry.Get(userID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	return rt, nil
}

// load fetches the language pool and the learner's history for it.
// Concurrent pool fetches for the same language share one query.
func (s *Service) load(ctx context.Context, userID uuid.UUID, language string) ([]domain.Sentence, []domain.ReviewRecord, error) {
	// The shared fetch outlives any single caller; each caller waits on its own ctx.
	ch := s.pools.DoChan(language, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), poolFetchTimeout)
		defer cancel()
		return s.sentences.ListByLanguage(fetchCtx, language)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, nil, fmt.Errorf("list sentences: %w", ctx.Err())
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, nil, fmt.Errorf("list sentences: %w", res.Err)
	}
	pool := res.Val.([]domain.Sentence)
	if len(pool) == 0 {
		return pool, nil, nil
	}

	ids := make([]uuid.UUID, len(pool))
	for i := range pool {
		ids[i] = pool[i].ID
	}

	history, err := s.reviews.ListByUserAndSentences(ctx, userID, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("list reviews: %w", err)
	}
	return pool, history, nil
}
