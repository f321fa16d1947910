package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/heartmarshall/clozedeck-backend/internal/domain"
	"github.com/heartmarshall/clozedeck-backend/internal/service/deck"
)

type deckService interface {
	Search(ctx context.Context, input deck.SearchInput) ([]domain.Sentence, error)
	Languages(ctx context.Context) ([]deck.Language, error)
}

// DeckHandler serves language and deck browsing endpoints.
type DeckHandler struct {
	svc deckService
	log *slog.Logger
}

// NewDeckHandler creates a DeckHandler.
func NewDeckHandler(svc deckService, logger *slog.Logger) *DeckHandler {
	return &DeckHandler{svc: svc, log: logger.With("handler", "deck")}
}

type languageResponse struct {
	Code          string `json:"code"`
	SentenceCount int    `json:"sentenceCount"`
}

type sentenceResponse struct {
	ID           string  `json:"id"`
	ExternalID   string  `json:"externalId"`
	DisplayText  string  `json:"displayText"`
	AnswerTarget string  `json:"answerTarget"`
	Hint         *string `json:"hint,omitempty"`
	PartOfSpeech *string `json:"partOfSpeech,omitempty"`
	GrammarNotes *string `json:"grammarNotes,omitempty"`
}

// Languages handles GET /api/languages.
func (h *DeckHandler) Languages(w http.ResponseWriter, r *http.Request) {
	langs, err := h.svc.Languages(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := make([]languageResponse, len(langs))
	for i, l := range langs {
		resp[i] = languageResponse{Code: l.Code, SentenceCount: l.SentenceCount}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Search handles GET /api/languages/{lang}/deck?q=&limit=.
func (h *DeckHandler) Search(w http.ResponseWriter, r *http.Request) {
	input := deck.SearchInput{
		Language: r.PathValue("lang"),
		Query:    r.URL.Query().Get("q"),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			handleError(h.log, w, r, domain.NewValidationError("limit", "must be an integer"))
			return
		}
		input.Limit = n
	}

	sentences, err := h.svc.Search(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := make([]sentenceResponse, len(sentences))
	for i, s := range sentences {
		resp[i] = sentenceResponse{
			ID:           s.ID.String(),
			ExternalID:   s.ExternalID,
			DisplayText:  s.DisplayText,
			AnswerTarget: s.AnswerTarget,
			Hint:         s.Hint,
			PartOfSpeech: s.PartOfSpeech,
			GrammarNotes: s.GrammarNotes,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
