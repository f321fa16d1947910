package study

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/clozedeck-backend/internal/domain"
)

// Requeue offsets, counted from the current queue position.
const (
	RetryOffset   = 3
	ConfirmOffset = 5
)

// ErrInvalidTransition is returned when an action does not fit the runtime state.
var ErrInvalidTransition = fmt.Errorf("invalid session transition: %w", domain.ErrConflict)

// RuntimeState is the state of a session runtime.
type RuntimeState string

const (
	StateIdle     RuntimeState = "idle"
	StateResolved RuntimeState = "resolved"
	StateDone     RuntimeState = "done"
)

// Outcome classifies the feedback for a resolved card.
type Outcome string

const (
	OutcomeCorrect      Outcome = "correct"
	OutcomeIncorrect    Outcome = "incorrect"
	OutcomeConfirmLater Outcome = "confirm_later"
)

// Feedback describes how the current card was resolved.
type Feedback struct {
	Outcome      Outcome
	Input        string
	AnswerTarget string
	// RequeuedAt is the queue index of the reinserted clone, -1 if none.
	RequeuedAt int
	// Saved reports whether a review write was issued for this resolution.
	Saved bool
}

// SaveRequest is one settled answer to persist.
type SaveRequest struct {
	UserID          uuid.UUID
	SentenceID      uuid.UUID
	ReviewID        *uuid.UUID
	CurrentInterval int
	WasCorrect      bool
}

// resultSaver accepts settled answers. Enqueue must not block on storage.
type resultSaver interface {
	Enqueue(ctx context.Context, req SaveRequest)
}

// Runtime walks one learner through one session queue. The queue is owned
// by the runtime and only grows by reinsertion.
type Runtime struct {
	mu       sync.Mutex
	id       uuid.UUID
	userID   uuid.UUID
	language string
	mode     domain.SessionMode
	queue    []domain.SessionCard
	index    int
	state    RuntimeState
	feedback *Feedback
	saver    resultSaver
	log      *slog.Logger
}

// NewRuntime creates a runtime over queue. An empty queue starts Done.
func NewRuntime(userID uuid.UUID, language string, mode domain.SessionMode, queue []domain.SessionCard, saver resultSaver, log *slog.Logger) *Runtime {
	state := StateIdle
	if len(queue) == 0 {
		state = StateDone
	}
	id := uuid.New()
	return &Runtime{
		id:       id,
		userID:   userID,
		language: language,
		mode:     mode,
		queue:    slices.Clone(queue),
		state:    state,
		saver:    saver,
		log: log.With(
			slog.String("session_id", id.String()),
			slog.String("language", language),
			slog.String("mode", mode.String()),
		),
	}
}

// ID returns the session identifier.
func (r *Runtime) ID() uuid.UUID { return r.id }

// UserID returns the owning learner.
func (r *Runtime) UserID() uuid.UUID { return r.userID }

// Snapshot is a read-only view of a runtime.
type Snapshot struct {
	ID       uuid.UUID
	Language string
	Mode     domain.SessionMode
	State    RuntimeState
	Position int
	Length   int
	Current  *domain.SessionCard
	Feedback *Feedback
}

// Snapshot returns the current view of the runtime.
func (r *Runtime) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Runtime) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:       r.id,
		Language: r.language,
		Mode:     r.mode,
		State:    r.state,
		Position: r.index,
		Length:   len(r.queue),
	}
	if r.state != StateDone {
		card := r.queue[r.index]
		snap.Current = &card
	}
	if r.feedback != nil {
		fb := *r.feedback
		snap.Feedback = &fb
	}
	return snap
}

// Queue returns a copy of the queue.
func (r *Runtime) Queue() []domain.SessionCard {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.queue)
}

// Submit judges answer against the current card.
func (r *Runtime) Submit(ctx context.Context, answer string) (Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateIdle {
		return Feedback{}, ErrInvalidTransition
	}
	card := r.queue[r.index]
	return r.resolveLocked(ctx, card, answer, domain.AnswerMatches(answer, card.AnswerTarget)), nil
}

// GiveUp resolves the current card as incorrect with an empty input.
func (r *Runtime) GiveUp(ctx context.Context) (Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateIdle {
		return Feedback{}, ErrInvalidTransition
	}
	return r.resolveLocked(ctx, r.queue[r.index], "", false), nil
}

// Advance leaves the Resolved state for the next card, or Done.
func (r *Runtime) Advance() (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateResolved {
		return Snapshot{}, ErrInvalidTransition
	}

	r.feedback = nil
	r.index++
	if r.index >= len(r.queue) {
		r.state = StateDone
		r.log.Info("session completed", slog.Int("cards_seen", len(r.queue)))
	} else {
		r.state = StateIdle
	}
	return r.snapshotLocked(), nil
}

func (r *Runtime) resolveLocked(ctx context.Context, card domain.SessionCard, input string, correct bool) Feedback {
	fb := Feedback{
		Input:        input,
		AnswerTarget: card.AnswerTarget,
		RequeuedAt:   -1,
	}

	switch {
	case !correct:
		fb.Outcome = OutcomeIncorrect
		retry := card
		retry.IsRetry = true
		fb.RequeuedAt = r.insertLocked(RetryOffset, retry)

	case !card.Persists():
		fb.Outcome = OutcomeCorrect

	case card.NeedsConfirmation():
		fb.Outcome = OutcomeConfirmLater
		confirm := card
		confirm.LearningStep2 = true
		fb.RequeuedAt = r.insertLocked(ConfirmOffset, confirm)

	default:
		fb.Outcome = OutcomeCorrect
		interval := card.Interval
		if card.IsRetry {
			interval = 0
		}
		r.saver.Enqueue(ctx, SaveRequest{
			UserID:          r.userID,
			SentenceID:      card.ID,
			ReviewID:        card.ReviewID,
			CurrentInterval: interval,
			WasCorrect:      true,
		})
		fb.Saved = true
	}

	r.state = StateResolved
	r.feedback = &fb

	r.log.Debug("card resolved",
		slog.String("sentence_id", card.ID.String()),
		slog.String("outcome", string(fb.Outcome)),
		slog.Bool("retry", card.IsRetry),
		slog.Bool("saved", fb.Saved),
	)
	return fb
}

// insertLocked splices card at min(index+offset, len(queue)) and returns the index used.
func (r *Runtime) insertLocked(offset int, card domain.SessionCard) int {
	at := min(r.index+offset, len(r.queue))
	r.queue = slices.Insert(r.queue, at, card)
	return at
}
