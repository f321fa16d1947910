package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/clozedeck-backend/internal/domain"
	"github.com/heartmarshall/clozedeck-backend/internal/service/study"
)

type studyService interface {
	StartSession(ctx context.Context, input study.StartSessionInput) (study.Snapshot, error)
	GetSession(ctx context.Context, sessionID uuid.UUID) (study.Snapshot, error)
	SubmitAnswer(ctx context.Context, input study.SubmitAnswerInput) (study.Snapshot, error)
	GiveUp(ctx context.Context, sessionID uuid.UUID) (study.Snapshot, error)
	Advance(ctx context.Context, sessionID uuid.UUID) (study.Snapshot, error)
	GetDashboard(ctx context.Context, input study.DashboardInput) (domain.Dashboard, error)
}

// StudyHandler serves session and dashboard endpoints.
type StudyHandler struct {
	svc studyService
	log *slog.Logger
}

// NewStudyHandler creates a StudyHandler.
func NewStudyHandler(svc studyService, logger *slog.Logger) *StudyHandler {
	return &StudyHandler{svc: svc, log: logger.With("handler", "study")}
}

type startSessionRequest struct {
	Mode string `json:"mode"`
}

type answerRequest struct {
	Answer string `json:"answer"`
}

type sessionResponse struct {
	ID       string            `json:"id"`
	Language string            `json:"language"`
	Mode     string            `json:"mode"`
	State    string            `json:"state"`
	Position int               `json:"position"`
	Length   int               `json:"length"`
	Current  *cardResponse     `json:"current,omitempty"`
	Feedback *feedbackResponse `json:"feedback,omitempty"`
}

// cardResponse never carries the answer; it is revealed in feedback.
type cardResponse struct {
	ID            string  `json:"id"`
	DisplayText   string  `json:"displayText"`
	Hint          *string `json:"hint,omitempty"`
	PartOfSpeech  *string `json:"partOfSpeech,omitempty"`
	GrammarNotes  *string `json:"grammarNotes,omitempty"`
	Type          string  `json:"type"`
	Interval      int     `json:"interval"`
	IsRetry       bool    `json:"isRetry"`
	LearningStep2 bool    `json:"learningStep2"`
	Practice      bool    `json:"practice"`
}

type feedbackResponse struct {
	Outcome      string `json:"outcome"`
	Input        string `json:"input"`
	AnswerTarget string `json:"answerTarget"`
	RequeuedAt   *int   `json:"requeuedAt,omitempty"`
	Saved        bool   `json:"saved"`
}

type dashboardResponse struct {
	Language     string `json:"language"`
	DueCount     int    `json:"dueCount"`
	NewAvailable int    `json:"newAvailable"`
	StudiedToday int    `json:"studiedToday"`
	SeenCards    int    `json:"seenCards"`
	TotalCards   int    `json:"totalCards"`
}

// StartSession handles POST /api/languages/{lang}/sessions.
// An empty body starts a standard session.
func (h *StudyHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	req := startSessionRequest{Mode: string(domain.SessionModeStandard)}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snap, err := h.svc.StartSession(r.Context(), study.StartSessionInput{
		Language: r.PathValue("lang"),
		Mode:     domain.SessionMode(req.Mode),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSessionResponse(snap))
}

// GetSession handles GET /api/sessions/{id}.
func (h *StudyHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, h.svc.GetSession)
}

// GiveUp handles POST /api/sessions/{id}/give-up.
func (h *StudyHandler) GiveUp(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, h.svc.GiveUp)
}

// Advance handles POST /api/sessions/{id}/next.
func (h *StudyHandler) Advance(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, h.svc.Advance)
}

// SubmitAnswer handles POST /api/sessions/{id}/answer.
func (h *StudyHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req answerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snap, err := h.svc.SubmitAnswer(r.Context(), study.SubmitAnswerInput{SessionID: id, Answer: req.Answer})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(snap))
}

// Dashboard handles GET /api/languages/{lang}/dashboard.
func (h *StudyHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.GetDashboard(r.Context(), study.DashboardInput{Language: r.PathValue("lang")})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		Language:     d.LanguageCode,
		DueCount:     d.DueCount,
		NewAvailable: d.NewAvailable,
		StudiedToday: d.StudiedToday,
		SeenCards:    d.SeenCards,
		TotalCards:   d.TotalCards,
	})
}

func (h *StudyHandler) withSession(w http.ResponseWriter, r *http.Request, op func(context.Context, uuid.UUID) (study.Snapshot, error)) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	snap, err := op(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(snap))
}

func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return uuid.Nil, false
	}
	return id, true
}

func toSessionResponse(s study.Snapshot) sessionResponse {
	resp := sessionResponse{
		ID:       s.ID.String(),
		Language: s.Language,
		Mode:     s.Mode.String(),
		State:    string(s.State),
		Position: s.Position,
		Length:   s.Length,
	}

	if c := s.Current; c != nil {
		resp.Current = &cardResponse{
			ID:            c.ID.String(),
			DisplayText:   c.DisplayText,
			Hint:          c.Hint,
			PartOfSpeech:  c.PartOfSpeech,
			GrammarNotes:  c.GrammarNotes,
			Type:          c.Type.String(),
			Interval:      c.Interval,
			IsRetry:       c.IsRetry,
			LearningStep2: c.LearningStep2,
			Practice:      !c.Persists(),
		}
	}

	if f := s.Feedback; f != nil {
		fb := &feedbackResponse{
			Outcome:      string(f.Outcome),
			Input:        f.Input,
			AnswerTarget: f.AnswerTarget,
			Saved:        f.Saved,
		}
		if f.RequeuedAt >= 0 {
			at := f.RequeuedAt
			fb.RequeuedAt = &at
		}
		resp.Feedback = fb
	}

	return resp
}
