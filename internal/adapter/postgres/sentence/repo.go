// Package sentence implements the sentence repository using PostgreSQL.
// Sentences are written by the importer and read by the study and deck services.
package sentence

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/clozedeck-backend/internal/adapter/postgres"
	"github.com/heartmarshall/clozedeck-backend/internal/domain"
)

const defaultSearchLimit = 50

var columns = []string{
	"id", "language_code", "external_id", "content_raw", "display_text",
	"answer_target", "hint", "part_of_speech", "grammar_notes", "created_at",
}

// Repo provides sentence persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new sentence repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Raw SQL
// ---------------------------------------------------------------------------

// The guarded update leaves unchanged rows untouched, so re-running an
// import reports them as not affected. A NULL grammar_notes keeps the
// stored notes.
const upsertSQL = `
INSERT INTO sentences (external_id, language_code, content_raw, display_text, answer_target,
                       hint, part_of_speech, grammar_notes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (external_id) DO UPDATE SET
    language_code  = EXCLUDED.language_code,
    content_raw    = EXCLUDED.content_raw,
    display_text   = EXCLUDED.display_text,
    answer_target  = EXCLUDED.answer_target,
    hint           = EXCLUDED.hint,
    part_of_speech = EXCLUDED.part_of_speech,
    grammar_notes  = COALESCE(EXCLUDED.grammar_notes, sentences.grammar_notes),
    updated_at     = now()
WHERE (sentences.language_code, sentences.content_raw, sentences.display_text, sentences.answer_target,
       sentences.hint, sentences.part_of_speech, sentences.grammar_notes)
      IS DISTINCT FROM
      (EXCLUDED.language_code, EXCLUDED.content_raw, EXCLUDED.display_text, EXCLUDED.answer_target,
       EXCLUDED.hint, EXCLUDED.part_of_speech, COALESCE(EXCLUDED.grammar_notes, sentences.grammar_notes))`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// ListByLanguage returns every sentence of a language, oldest first.
func (r *Repo) ListByLanguage(ctx context.Context, lang string) ([]domain.Sentence, error) {
	query := postgres.Builder().
		Select(columns...).
		From("sentences").
		Where(squirrel.Eq{"language_code": lang}).
		OrderBy("created_at", "id")

	return r.list(ctx, query, "sentences of language", lang)
}

// Search returns sentences of f.LanguageCode ordered by answer. A non-empty
// f.Query matches answer_target or display_text case-insensitively.
func (r *Repo) Search(ctx context.Context, f domain.SentenceFilter) ([]domain.Sentence, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	query := postgres.Builder().
		Select(columns...).
		From("sentences").
		Where(squirrel.Eq{"language_code": f.LanguageCode}).
		OrderBy("answer_target", "id").
		Limit(uint64(limit))

	if q := strings.TrimSpace(f.Query); q != "" {
		pattern := "%" + escapeLike(q) + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"answer_target": pattern},
			squirrel.ILike{"display_text": pattern},
		})
	}

	return r.list(ctx, query, "search sentences of language", f.LanguageCode)
}

// CountByLanguage returns the number of sentences per language code.
// Languages without sentences are absent from the map.
func (r *Repo) CountByLanguage(ctx context.Context) (map[string]int, error) {
	sql, args, err := postgres.Builder().
		Select("language_code", "count(*)").
		From("sentences").
		GroupBy("language_code").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build count query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "count sentences", nil)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			code string
			n    int
		)
		if err := rows.Scan(&code, &n); err != nil {
			return nil, postgres.MapError(err, "count sentences", nil)
		}
		counts[code] = n
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "count sentences", nil)
	}

	return counts, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// UpsertByExternalID inserts or updates the sentence keyed by ExternalID.
// It reports whether a row was inserted or changed.
func (r *Repo) UpsertByExternalID(ctx context.Context, in domain.SentenceUpsert) (bool, error) {
	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, upsertSQL,
		in.ExternalID, in.LanguageCode, in.RawContent, in.DisplayText, in.AnswerTarget,
		in.Hint, in.PartOfSpeech, in.GrammarNotes,
	)
	if err != nil {
		return false, postgres.MapError(err, "sentence", in.ExternalID)
	}
	return tag.RowsAffected() > 0, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (r *Repo) list(ctx context.Context, query squirrel.SelectBuilder, entity string, key any) ([]domain.Sentence, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", entity, err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, entity, key)
	}

	out, err := pgx.CollectRows(rows, scanSentence)
	if err != nil {
		return nil, postgres.MapError(err, entity, key)
	}
	if out == nil {
		out = []domain.Sentence{}
	}
	return out, nil
}

func scanSentence(row pgx.CollectableRow) (domain.Sentence, error) {
	var s domain.Sentence
	err := row.Scan(&s.ID, &s.LanguageCode, &s.ExternalID, &s.RawContent, &s.DisplayText,
		&s.AnswerTarget, &s.Hint, &s.PartOfSpeech, &s.GrammarNotes, &s.CreatedAt)
	if err != nil {
		return domain.Sentence{}, err
	}
	s.CreatedAt = s.CreatedAt.UTC()
	return s, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
