package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/clozedeck-backend/internal/cloze"
	"github.com/heartmarshall/clozedeck-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedLanguage creates a language with a unique code so that tests running
// in parallel on the shared database see disjoint sentence pools.
func SeedLanguage(t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()

	code := "t-" + uniqueSuffix()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO languages (code, name) VALUES ($1, $2)`,
		code, "Test "+code,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedLanguage: %v", err)
	}
	return code
}

// SeedSentence inserts a sentence parsed from raw into language lang.
// createdAt orders the pool; pass the zero time for now().
func SeedSentence(t *testing.T, pool *pgxpool.Pool, lang, raw string, createdAt time.Time) domain.Sentence {
	t.Helper()

	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	createdAt = createdAt.UTC().Truncate(time.Microsecond)

	parsed := cloze.Parse(raw)
	s := domain.Sentence{
		ID:           uuid.New(),
		LanguageCode: lang,
		ExternalID:   "ext-" + uniqueSuffix(),
		RawContent:   raw,
		DisplayText:  parsed.DisplayText,
		AnswerTarget: parsed.AnswerTarget,
		Hint:         parsed.Hint,
		CreatedAt:    createdAt,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO sentences (id, external_id, language_code, content_raw, display_text, answer_target, hint, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
		s.ID, s.ExternalID, s.LanguageCode, s.RawContent, s.DisplayText, s.AnswerTarget, s.Hint, s.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedSentence: %v", err)
	}
	return s
}

// SeedReview inserts a review record for userID on sentenceID.
func SeedReview(t *testing.T, pool *pgxpool.Pool, userID, sentenceID uuid.UUID, interval int, next time.Time) domain.ReviewRecord {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	r := domain.ReviewRecord{
		ID:              uuid.New(),
		UserID:          userID,
		SentenceID:      sentenceID,
		Interval:        interval,
		EaseFactor:      domain.DefaultEaseFactor,
		NextReviewDate:  next.UTC().Truncate(time.Microsecond),
		RepetitionCount: 1,
		FirstStudiedAt:  &now,
		LastReviewedAt:  now,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO reviews (id, user_id, sentence_id, interval_days, ease_factor, next_review_date,
		                      repetition_count, first_studied_at, last_reviewed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		r.ID, r.UserID, r.SentenceID, r.Interval, r.EaseFactor, r.NextReviewDate,
		r.RepetitionCount, r.FirstStudiedAt, r.LastReviewedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedReview: %v", err)
	}
	return r
}
