package rest

import "net/http"

// Handlers groups the route handlers mounted by NewRouter.
type Handlers struct {
	Health  *HealthHandler
	Study   *StudyHandler
	Deck    *DeckHandler
	Profile *ProfileHandler
}

// NewRouter mounts every endpoint on a ServeMux. Probes are served as is;
// /api routes are wrapped with api.
func NewRouter(h Handlers, api func(http.Handler) http.Handler) http.Handler {
	apiMux := http.NewServeMux()
	apiMux.HandleFunc("GET /api/languages", h.Deck.Languages)
	apiMux.HandleFunc("GET /api/languages/{lang}/deck", h.Deck.Search)
	apiMux.HandleFunc("GET /api/languages/{lang}/dashboard", h.Study.Dashboard)
	apiMux.HandleFunc("POST /api/languages/{lang}/sessions", h.Study.StartSession)
	apiMux.HandleFunc("GET /api/sessions/{id}", h.Study.GetSession)
	apiMux.HandleFunc("POST /api/sessions/{id}/answer", h.Study.SubmitAnswer)
	apiMux.HandleFunc("POST /api/sessions/{id}/give-up", h.Study.GiveUp)
	apiMux.HandleFunc("POST /api/sessions/{id}/next", h.Study.Advance)
	apiMux.HandleFunc("DELETE /api/profile/progress", h.Profile.ResetProgress)

	var apiHandler http.Handler = apiMux
	if api != nil {
		apiHandler = api(apiMux)
	}

	root := http.NewServeMux()
	root.HandleFunc("GET /live", h.Health.Live)
	root.HandleFunc("GET /ready", h.Health.Ready)
	root.HandleFunc("GET /health", h.Health.Health)
	root.Handle("/api/", apiHandler)
	return root
}
