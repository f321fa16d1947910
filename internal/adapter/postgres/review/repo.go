// Package review implements the review record repository using PostgreSQL.
// There is at most one record per (user, sentence); writes are upserts.
package review

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/clozedeck-backend/internal/adapter/postgres"
	"github.com/heartmarshall/clozedeck-backend/internal/domain"
)

var columns = []string{
	"id", "user_id", "sentence_id", "interval_days", "ease_factor", "next_review_date",
	"repetition_count", "first_studied_at", "last_reviewed_at",
}

// Repo provides review record persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new review repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// first_studied_at is only written on insert.
const upsertSQL = `
INSERT INTO reviews (user_id, sentence_id, interval_days, ease_factor, next_review_date,
                     repetition_count, first_studied_at, last_reviewed_at)
VALUES ($1, $2, $3, $4, $5, 1, $6, $6)
ON CONFLICT (user_id, sentence_id) DO UPDATE SET
    interval_days    = EXCLUDED.interval_days,
    ease_factor      = EXCLUDED.ease_factor,
    next_review_date = EXCLUDED.next_review_date,
    repetition_count = reviews.repetition_count + 1,
    last_reviewed_at = EXCLUDED.last_reviewed_at
RETURNING id, user_id, sentence_id, interval_days, ease_factor, next_review_date,
          repetition_count, first_studied_at, last_reviewed_at`

// ListByUserAndSentences returns the learner's records for the given sentences.
// Sentences never studied have no record.
func (r *Repo) ListByUserAndSentences(ctx context.Context, userID uuid.UUID, sentenceIDs []uuid.UUID) ([]domain.ReviewRecord, error) {
	if len(sentenceIDs) == 0 {
		return []domain.ReviewRecord{}, nil
	}

	sql, args, err := postgres.Builder().
		Select(columns...).
		From("reviews").
		Where(squirrel.Eq{"user_id": userID, "sentence_id": sentenceIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list reviews query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "reviews of user", userID)
	}

	out, err := pgx.CollectRows(rows, collectRecord)
	if err != nil {
		return nil, postgres.MapError(err, "reviews of user", userID)
	}
	if out == nil {
		out = []domain.ReviewRecord{}
	}
	return out, nil
}

// Upsert writes the scheduling state of one resolution. It creates the record
// on first resolution and otherwise updates it, bumping the repetition count.
// An unknown sentence yields domain.ErrNotFound.
func (r *Repo) Upsert(ctx context.Context, userID, sentenceID uuid.UUID, in domain.ReviewUpsert) (*domain.ReviewRecord, error) {
	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, upsertSQL,
		userID, sentenceID, in.Interval, in.EaseFactor, in.NextReviewDate, in.LastReviewedAt,
	)

	rec, err := scanRecord(row)
	if err != nil {
		return nil, postgres.MapError(err, "review of sentence", sentenceID)
	}
	return &rec, nil
}

// DeleteAllByUser removes every record of the learner and returns how many were deleted.
func (r *Repo) DeleteAllByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	sql, args, err := postgres.Builder().
		Delete("reviews").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete reviews query: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, sql, args...)
	if err != nil {
		return 0, postgres.MapError(err, "reviews of user", userID)
	}
	return tag.RowsAffected(), nil
}

func collectRecord(row pgx.CollectableRow) (domain.ReviewRecord, error) {
	return scanRecord(row)
}

func scanRecord(row pgx.Row) (domain.ReviewRecord, error) {
	var rec domain.ReviewRecord
	err := row.Scan(&rec.ID, &rec.UserID, &rec.SentenceID, &rec.Interval, &rec.EaseFactor,
		&rec.NextReviewDate, &rec.RepetitionCount, &rec.FirstStudiedAt, &rec.LastReviewedAt)
	if err != nil {
		return domain.ReviewRecord{}, err
	}
	rec.NextReviewDate = rec.NextReviewDate.UTC()
	rec.LastReviewedAt = rec.LastReviewedAt.UTC()
	if rec.FirstStudiedAt != nil {
		t := rec.FirstStudiedAt.UTC()
		rec.FirstStudiedAt = &t
	}
	return rec, nil
}
