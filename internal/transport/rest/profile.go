package rest

import (
	"context"
	"log/slog"
	"net/http"
)

type profileService interface {
	ResetProgress(ctx context.Context) (int64, error)
}

// ProfileHandler serves learner profile endpoints.
type ProfileHandler struct {
	svc profileService
	log *slog.Logger
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(svc profileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{svc: svc, log: logger.With("handler", "profile")}
}

type resetResponse struct {
	Deleted int64 `json:"deleted"`
}

// ResetProgress handles DELETE /api/profile/progress.
func (h *ProfileHandler) ResetProgress(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.ResetProgress(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resetResponse{Deleted: n})
}
