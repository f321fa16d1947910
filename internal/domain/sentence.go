package domain

import (
	"time"

	"github.com/google/uuid"
)

// Sentence is an immutable cloze card authored for one language.
// It is written by the importer and never mutated by the learning flow.
type Sentence struct {
	ID           uuid.UUID
	LanguageCode string
	ExternalID   string
	RawContent   string
	DisplayText  string
	AnswerTarget string
	Hint         *string
	PartOfSpeech *string
	GrammarNotes *string
	CreatedAt    time.Time
}

// SentenceUpsert holds the fields written by an import run, keyed by ExternalID.
type SentenceUpsert struct {
	ExternalID   string
	LanguageCode string
	RawContent   string
	DisplayText  string
	AnswerTarget string
	Hint         *string
	PartOfSpeech *string
	GrammarNotes *string
}

// SentenceFilter narrows a deck listing.
type SentenceFilter struct {
	LanguageCode string
	Query        string
	Limit        int
}
