package study

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/clozedeck-backend/internal/domain"
)

type reviewStore interface {
	Upsert(ctx context.Context, userID, sentenceID uuid.UUID, params domain.ReviewUpsert) (*domain.ReviewRecord, error)
}

type clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type writeKey struct {
	userID     uuid.UUID
	sentenceID uuid.UUID
}

type writeJob struct {
	ctx        context.Context
	req        SaveRequest
	resolvedAt time.Time
}

// ReviewWriter persists settled answers off the request path. Writes for the
// same (user, sentence) pair run one at a time in submission order; writes
// for different pairs run concurrently. A failed write is logged and dropped.
type ReviewWriter struct {
	store   reviewStore
	clock   clock
	loc     *time.Location
	timeout time.Duration
	log     *slog.Logger

	mu      sync.Mutex
	pending map[writeKey][]writeJob
	closed  bool
	wg      sync.WaitGroup
}

// NewReviewWriter creates a writer. Next review dates are computed in loc.
func NewReviewWriter(log *slog.Logger, store reviewStore, loc *time.Location, timeout time.Duration) *ReviewWriter {
	if loc == nil {
		loc = time.UTC
	}
	return &ReviewWriter{
		store:   store,
		clock:   systemClock{},
		loc:     loc,
		timeout: timeout,
		log:     log.With("component", "review_writer"),
		pending: make(map[writeKey][]writeJob),
	}
}

// Enqueue schedules req for persistence and returns immediately.
func (w *ReviewWriter) Enqueue(ctx context.Context, req SaveRequest) {
	if req.UserID == uuid.Nil {
		w.log.WarnContext(ctx, "review write without learner ignored")
		return
	}

	job := writeJob{
		ctx:        context.WithoutCancel(ctx),
		req:        req,
		resolvedAt: w.clock.Now().In(w.loc),
	}
	key := writeKey{userID: req.UserID, sentenceID: req.SentenceID}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		w.log.WarnContext(ctx, "review write dropped after shutdown",
			slog.String("sentence_id", req.SentenceID.String()))
		return
	}

	queued, running := w.pending[key]
	w.pending[key] = append(queued, job)
	if running {
		return
	}

	w.wg.Add(1)
	go w.drain(key)
}

// drain runs the jobs of key until its queue is empty.
func (w *ReviewWriter) drain(key writeKey) {
	defer w.wg.Done()

	for {
		w.mu.Lock()
		jobs := w.pending[key]
		if len(jobs) == 0 {
			delete(w.pending, key)
			w.mu.Unlock()
			return
		}
		job := jobs[0]
		w.pending[key] = jobs[1:]
		w.mu.Unlock()

		w.write(job)
	}
}

func (w *ReviewWriter) write(job writeJob) {
	ctx := job.ctx
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	state := NextState(job.req.WasCorrect, job.req.CurrentInterval)
	params := domain.ReviewUpsert{
		Interval:       state.Interval,
		EaseFactor:     state.EaseFactor,
		NextReviewDate: NextReviewDate(job.resolvedAt, state.Interval),
		LastReviewedAt: job.resolvedAt,
	}

	rec, err := w.store.Upsert(ctx, job.req.UserID, job.req.SentenceID, params)
	if err != nil {
		w.log.ErrorContext(ctx, "review write failed",
			slog.String("user_id", job.req.UserID.String()),
			slog.String("sentence_id", job.req.SentenceID.String()),
			slog.Int("interval", state.Interval),
			slog.String("error", err.Error()),
		)
		return
	}

	w.log.DebugContext(ctx, "review saved",
		slog.String("review_id", rec.ID.String()),
		slog.Int("interval", rec.Interval),
		slog.Time("next_review_date", rec.NextReviewDate),
	)
}

// Wait blocks until every write enqueued so far has finished.
func (w *ReviewWriter) Wait() {
	w.wg.Wait()
}

// Close stops accepting writes and waits for in-flight ones, or for ctx.
func (w *ReviewWriter) Close(ctx context.Context) error {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
