package study

import (
	"math"
	"time"

	"github.com/heartmarshall/clozedeck-backend/internal/domain"
)

// SRSState is the scheduling state produced by NextState.
type SRSState struct {
	Interval   int
	EaseFactor float64
}

// NextState is the simplified repetition policy. Pure and total.
//
//   - incorrect: due again in 1 day
//   - correct from 0: 1 day
//   - correct from 1: 3 days
//   - correct otherwise: round(interval × ease)
//
// The ease factor is always domain.DefaultEaseFactor.
func NextState(wasCorrect bool, currentInterval int) SRSState {
	ease := domain.DefaultEaseFactor
	current := max(0, currentInterval)

	if !wasCorrect {
		return SRSState{Interval: 1, EaseFactor: ease}
	}

	var next int
	switch current {
	case 0:
		next = 1
	case 1:
		next = 3
	default:
		next = int(math.Round(float64(current) * ease))
	}

	return SRSState{Interval: next, EaseFactor: ease}
}

// NextReviewDate returns now shifted by interval calendar days.
// AddDate keeps the wall-clock time across DST changes, Add(24h) does not.
func NextReviewDate(now time.Time, interval int) time.Time {
	return now.AddDate(0, 0, interval)
}
