package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultEaseFactor is stored on every review record. The scheduler does not vary it.
const DefaultEaseFactor = 2.5

// ReviewRecord is the learning state of one learner for one sentence.
// There is at most one record per (UserID, SentenceID).
type ReviewRecord struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	SentenceID      uuid.UUID
	Interval        int
	EaseFactor      float64
	NextReviewDate  time.Time
	RepetitionCount int
	FirstStudiedAt  *time.Time
	LastReviewedAt  time.Time
}

// ResolutionTime is the timestamp used for the daily new-card quota:
// FirstStudiedAt when present, LastReviewedAt otherwise.
func (r *ReviewRecord) ResolutionTime() time.Time {
	if r.FirstStudiedAt != nil {
		return *r.FirstStudiedAt
	}
	return r.LastReviewedAt
}

// IsDue reports whether the record is scheduled on or before cutoff.
func (r *ReviewRecord) IsDue(cutoff time.Time) bool {
	return !r.NextReviewDate.After(cutoff)
}

// ReviewUpsert holds the scheduling fields written after a resolved answer.
type ReviewUpsert struct {
	Interval       int
	EaseFactor     float64
	NextReviewDate time.Time
	LastReviewedAt time.Time
}
