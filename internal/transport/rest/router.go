package rest

import "net/http"

// NewRouter wires all REST handlers onto a ServeMux. Auth is applied by the
// middleware chain around the mux, not here.
func NewRouter(
	health *HealthHandler,
	prefs *PreferencesHandler,
	editing *EditingHandler,
	learned *LearnedHandler,
) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", health.Live)
	mux.HandleFunc("GET /ready", health.Ready)
	mux.HandleFunc("GET /health", health.Health)

	mux.HandleFunc("GET /preferences", prefs.Get)
	mux.HandleFunc("POST /preferences/values", prefs.AddValue)
	mux.HandleFunc("DELETE /preferences/values", prefs.RemoveValue)

	mux.HandleFunc("POST /preferences/edit", editing.Start)
	mux.HandleFunc("GET /preferences/diff", editing.Diff)
	mux.HandleFunc("POST /preferences/category", editing.SubmitCategory)
	mux.HandleFunc("POST /preferences/commit", editing.Commit)
	mux.HandleFunc("POST /preferences/discard", editing.Discard)

	mux.HandleFunc("PUT /constraints", prefs.ReplaceConstraints)
	mux.HandleFunc("POST /constraints", prefs.AddConstraint)
	mux.HandleFunc("DELETE /constraints/{id}", prefs.RemoveConstraint)

	mux.HandleFunc("GET /learned", learned.List)
	mux.HandleFunc("POST /learned/approve", learned.Approve)
	mux.HandleFunc("POST /learned/dismiss", learned.Dismiss)

	return mux
}
