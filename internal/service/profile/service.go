// Package profile holds learner-wide operations that are not tied to a session.
package profile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/clozedeck-backend/internal/domain"
	"github.com/heartmarshall/clozedeck-backend/pkg/ctxutil"
)

type reviewRepo interface {
	DeleteAllByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

type sessionRegistry interface {
	DropUser(userID uuid.UUID)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides profile operations.
type Service struct {
	reviews  reviewRepo
	sessions sessionRegistry
	tx       txManager
	log      *slog.Logger
}

// NewService creates a new profile service.
func NewService(log *slog.Logger, reviews reviewRepo, sessions sessionRegistry, tx txManager) *Service {
	return &Service{
		reviews:  reviews,
		sessions: sessions,
		tx:       tx,
		log:      log.With("service", "profile"),
	}
}

// ResetProgress deletes every review record of the authenticated learner and
// ends the learner's live session, so that no queued card reports against the
// wiped history. It returns the number of deleted records.
func (s *Service) ResetProgress(ctx context.Context) (int64, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return 0, domain.ErrUnauthorized
	}
	return s.ResetProgressFor(ctx, userID)
}

// ResetProgressFor is ResetProgress for an explicit learner, used by the CLI.
func (s *Service) ResetProgressFor(ctx context.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, domain.NewValidationError("user_id", "required")
	}

	s.sessions.DropUser(userID)

	var deleted int64
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		n, err := s.reviews.DeleteAllByUser(ctx, userID)
		if err != nil {
			return err
		}
		deleted = n
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("reset progress: %w", err)
	}

	s.log.InfoContext(ctx, "progress reset",
		slog.String("user_id", userID.String()),
		slog.Int64("deleted", deleted),
	)
	return deleted, nil
}
