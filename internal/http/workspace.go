package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/goliatone/go-cms-ui/internal/logging"
	"github.com/goliatone/go-cms-ui/internal/store"
)

type actionPayload struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func (a *UIServicesAPI) registerWorkspaceRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, "workspace")
	mux.HandleFunc("GET "+root, a.handleWorkspaceState)
	mux.HandleFunc("POST "+root+"/actions", a.handleWorkspaceAction)
	mux.HandleFunc("GET "+root+"/sync-button", a.handleSyncButton)
	mux.HandleFunc("POST "+root+"/sync-button/open", a.handleSyncButtonOpen)
	if a.streamEnabled {
		mux.HandleFunc("GET "+root+"/stream", a.handleWorkspaceStream)
	}
}

func (a *UIServicesAPI) handleWorkspaceState(w http.ResponseWriter, r *http.Request) {
	if a.store == nil {
		unavailable(w)
		return
	}
	writeJSON(w, http.StatusOK, a.store.State())
}

func (a *UIServicesAPI) handleWorkspaceAction(w http.ResponseWriter, r *http.Request) {
	if a.store == nil {
		unavailable(w)
		return
	}
	var payload actionPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	actionType := strings.TrimSpace(payload.Type)
	if actionType == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "type required"})
		return
	}

	action, err := store.DecodeAction(actionType, payload.Payload)
	if err != nil {
		if !errors.Is(err, store.ErrUnknownAction) {
			err = errors.Join(errBadRequest, err)
		}
		writeError(w, err)
		return
	}
	if err := a.store.Dispatch(r.Context(), action); err != nil {
		logging.WithAction(a.logger, actionType).Warn("http.workspace.action_failed", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a.store.State())
}

func (a *UIServicesAPI) handleSyncButton(w http.ResponseWriter, r *http.Request) {
	if a.syncButton == nil {
		unavailable(w)
		return
	}
	markup, err := a.syncButton.HTML()
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(markup))
}

func (a *UIServicesAPI) handleSyncButtonOpen(w http.ResponseWriter, r *http.Request) {
	if a.syncButton == nil || a.store == nil {
		unavailable(w)
		return
	}
	if err := a.syncButton.OnClick(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a.store.State())
}
