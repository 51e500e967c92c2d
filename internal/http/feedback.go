package http

import (
	"net/http"

	"github.com/goliatone/go-cms-ui/internal/feedback"
)

func (a *UIServicesAPI) registerFeedbackRoutes(mux *http.ServeMux, base string) {
	mux.HandleFunc("GET "+joinPath(base, "feedback"), a.handleFeedbackFlush)
}

// handleFeedbackFlush returns and clears the queued feedback.
func (a *UIServicesAPI) handleFeedbackFlush(w http.ResponseWriter, r *http.Request) {
	if a.feedback == nil {
		writeJSON(w, http.StatusOK, []feedback.Envelope{})
		return
	}
	writeJSON(w, http.StatusOK, a.feedback.Flush(r.Context()))
}
