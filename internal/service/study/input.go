package study

import (
	"slices"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/heartmarshall/clozedeck-backend/internal/domain"
)

// maxAnswerLength is the longest accepted answer, in characters.
const maxAnswerLength = 500

// StartSessionInput holds the parameters for starting a session.
type StartSessionInput struct {
	Language string
	Mode     domain.SessionMode
}

// Validate checks all fields against the configured languages.
func (i *StartSessionInput) Validate(languages []string) error {
	var errs []domain.FieldError

	if fe := validateLanguage(i.Language, languages); fe != nil {
		errs = append(errs, *fe)
	}
	if !i.Mode.IsValid() {
		errs = append(errs, domain.FieldError{Field: "mode", Message: "must be standard, bonus, or review_all"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// SubmitAnswerInput holds an answer for the current card of a session.
type SubmitAnswerInput struct {
	SessionID uuid.UUID
	Answer    string
}

// Validate checks all fields and collects all errors.
func (i *SubmitAnswerInput) Validate() error {
	var errs []domain.FieldError

	if i.SessionID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "session_id", Message: "required"})
	}
	if utf8.RuneCountInString(i.Answer) > maxAnswerLength {
		errs = append(errs, domain.FieldError{Field: "answer", Message: "max 500 characters"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// DashboardInput selects the language of a dashboard.
type DashboardInput struct {
	Language string
}

// Validate checks the language against the configured languages.
func (i *DashboardInput) Validate(languages []string) error {
	if fe := validateLanguage(i.Language, languages); fe != nil {
		return domain.NewValidationErrors([]domain.FieldError{*fe})
	}
	return nil
}

func validateLanguage(lang string, languages []string) *domain.FieldError {
	if lang == "" {
		return &domain.FieldError{Field: "language", Message: "required"}
	}
	if !slices.Contains(languages, lang) {
		return &domain.FieldError{Field: "language", Message: "unsupported language"}
	}
	return nil
}
