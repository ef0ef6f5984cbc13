// Package server exposes the safety core over HTTP: contact management,
// location ingestion, the safety timer, panic triggers, and the session
// access endpoint contacts follow from alert messages.
package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"safeguard/backend/internal/config"
	contactservice "safeguard/backend/internal/contact/service"
	"safeguard/backend/internal/location"
	"safeguard/backend/internal/media"
	sessionservice "safeguard/backend/internal/session/service"
	"safeguard/backend/internal/snapshot"
	"safeguard/backend/internal/threat"
	"safeguard/backend/internal/timer"
)

// Deps are the collaborators the server routes to.
type Deps struct {
	Config     *config.Config
	Registry   *contactservice.Registry
	Broker     *sessionservice.Broker
	Track      *location.Track
	Analyzer   *threat.Analyzer
	Timer      *timer.SafetyTimer
	Recordings *media.Library
	Profile    *snapshot.Profile
}

// Server is the HTTP API.
type Server struct {
	deps Deps
}

// New returns a Server over the given dependencies.
func New(deps Deps) *Server {
	return &Server{deps: deps}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/contacts", s.handleAddContact).Methods(http.MethodPost)
	api.HandleFunc("/contacts", s.handleListContacts).Methods(http.MethodGet)
	api.HandleFunc("/contacts/{id}/verify", s.handleVerifyContact).Methods(http.MethodPost)
	api.HandleFunc("/contacts/{id}/permissions", s.handleSetPermissions).Methods(http.MethodPatch)
	api.HandleFunc("/contacts/{id}/revoke", s.handleRevokeContact).Methods(http.MethodPost)
	api.HandleFunc("/contacts/{id}", s.handleRemoveContact).Methods(http.MethodDelete)

	api.HandleFunc("/location", s.handleRecordLocation).Methods(http.MethodPost)
	api.HandleFunc("/location/speed", s.handleSpeed).Methods(http.MethodGet)
	api.HandleFunc("/threat", s.handleThreat).Methods(http.MethodGet)

	api.HandleFunc("/timer/start", s.handleTimerStart).Methods(http.MethodPost)
	api.HandleFunc("/timer/checkin", s.handleTimerCheckIn).Methods(http.MethodPost)
	api.HandleFunc("/timer", s.handleTimerStatus).Methods(http.MethodGet)

	api.HandleFunc("/panic", s.handlePanic).Methods(http.MethodPost)
	api.HandleFunc("/panic/cancel", s.handlePanicCancel).Methods(http.MethodPost)
	api.HandleFunc("/sessions", s.handleListSessions).Methods(http.MethodGet)

	r.HandleFunc("/access/{sessionID}", s.handleAccess).Methods(http.MethodGet)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: encoding response: %v", err)
	}
}

// writeError maps service sentinel errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, contactservice.ErrValidation),
		errors.Is(err, timer.ErrInvalidDuration),
		errors.Is(err, location.ErrInvalidSample):
		status = http.StatusBadRequest
	case errors.Is(err, contactservice.ErrNotFound),
		errors.Is(err, sessionservice.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, sessionservice.ErrExpired):
		status = http.StatusGone
	case errors.Is(err, timer.ErrNotRunning):
		status = http.StatusConflict
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
