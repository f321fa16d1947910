package domain

import (
	"github.com/google/uuid"
)

// SessionCard wraps a Sentence for the lifetime of one session queue.
// It is never persisted.
type SessionCard struct {
	Sentence
	Type          CardType
	ReviewID      *uuid.UUID
	Interval      int
	IsRetry       bool
	LearningStep2 bool
	Mode          CardMode
}

// Persists reports whether resolving this card may write a review record.
func (c *SessionCard) Persists() bool {
	return c.Mode != CardModeFree
}

// NeedsConfirmation reports whether a correct answer only moves the card to
// its second learning step instead of settling it.
func (c *SessionCard) NeedsConfirmation() bool {
	return c.Mode != CardModeFree && c.Type == CardTypeNew && !c.IsRetry && !c.LearningStep2
}

// Dashboard summarizes a learner's state for one language, using the same
// rules the session builder applies.
type Dashboard struct {
	LanguageCode string
	DueCount     int
	NewAvailable int
	StudiedToday int
	SeenCards    int
	TotalCards   int
}
