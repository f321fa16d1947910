// Package deck lists the sentences of a language for browsing, independent
// of any learner's progress.
package deck

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/heartmarshall/clozedeck-backend/internal/domain"
	"github.com/heartmarshall/clozedeck-backend/pkg/ctxutil"
)

const (
	DefaultLimit   = 50
	MaxLimit       = 200
	maxQueryLength = 100
)

type sentenceRepo interface {
	Search(ctx context.Context, f domain.SentenceFilter) ([]domain.Sentence, error)
	CountByLanguage(ctx context.Context) (map[string]int, error)
}

// Service provides deck browsing operations.
type Service struct {
	sentences sentenceRepo
	languages []string
	log       *slog.Logger
}

// NewService creates a new deck service over the configured languages.
func NewService(log *slog.Logger, sentences sentenceRepo, languages []string) *Service {
	return &Service{
		sentences: sentences,
		languages: languages,
		log:       log.With("service", "deck"),
	}
}

// SearchInput narrows a deck listing.
type SearchInput struct {
	Language string
	Query    string
	Limit    int
}

// Validate checks all fields and collects all errors.
func (i *SearchInput) Validate(languages []string) error {
	var errs []domain.FieldError

	switch {
	case i.Language == "":
		errs = append(errs, domain.FieldError{Field: "language", Message: "required"})
	case !slices.Contains(languages, i.Language):
		errs = append(errs, domain.FieldError{Field: "language", Message: "unsupported language"})
	}
	if utf8.RuneCountInString(i.Query) > maxQueryLength {
		errs = append(errs, domain.FieldError{Field: "q", Message: fmt.Sprintf("max %d characters", maxQueryLength)})
	}
	if i.Limit < 0 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must not be negative"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// Search returns the sentences of a language ordered by answer. A zero limit
// means DefaultLimit; limits above MaxLimit are clamped.
func (s *Service) Search(ctx context.Context, input SearchInput) ([]domain.Sentence, error) {
	if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(s.languages); err != nil {
		return nil, err
	}

	limit := input.Limit
	switch {
	case limit == 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	out, err := s.sentences.Search(ctx, domain.SentenceFilter{
		LanguageCode: input.Language,
		Query:        strings.TrimSpace(input.Query),
		Limit:        limit,
	})
	if err != nil {
		return nil, fmt.Errorf("search sentences: %w", err)
	}
	return out, nil
}

// Language is a configured language with the size of its deck.
type Language struct {
	Code          string
	SentenceCount int
}

// Languages returns every configured language in configuration order,
// including languages whose deck is still empty.
func (s *Service) Languages(ctx context.Context) ([]Language, error) {
	counts, err := s.sentences.CountByLanguage(ctx)
	if err != nil {
		return nil, fmt.Errorf("count sentences: %w", err)
	}

	out := make([]Language, len(s.languages))
	for i, code := range s.languages {
		out[i] = Language{Code: code, SentenceCount: counts[code]}
	}
	return out, nil
}
