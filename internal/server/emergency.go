package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"safeguard/backend/internal/media"
	sessiondomain "safeguard/backend/internal/session/domain"
	"safeguard/backend/internal/snapshot"
)

// Trigger reasons. The timer reason matches the wording contacts see.
const (
	ReasonPanic        = "Panic button activated"
	ReasonTimerExpired = "Safety timer expired - no check-in received"
)

// snapshotInputs gathers the current client state for a session snapshot.
// Every field degrades to a placeholder downstream, so gathering never fails.
func (s *Server) snapshotInputs() snapshot.Inputs {
	in := snapshot.Inputs{
		Now:     time.Now().UTC(),
		Profile: s.deps.Profile,
		Settings: map[string]bool{
			"silentMode":         s.deps.Config.SilentMode,
			"autoRecord":         s.deps.Config.AutoRecord,
			"autoStartTracking":  s.deps.Config.AutoStartTracking,
			"backgroundLocation": s.deps.Config.BackgroundLocation,
			"aiMonitoring":       s.deps.Config.AIMonitoring,
		},
	}
	if cur, ok := s.deps.Track.Current(); ok {
		in.Current = &cur
	}
	in.History = s.deps.Track.History(snapshot.HistoryLimit)
	if s.deps.Recordings != nil {
		in.Recordings = s.deps.Recordings.List(0)
	}
	if s.deps.Config.AIMonitoring {
		a := s.deps.Analyzer.Latest()
		in.Threat = &a
	}
	return in
}

// TriggerEmergency opens an emergency session for the given reason. Exposed
// for the timer-expiry path as well as the panic handler.
func (s *Server) TriggerEmergency(ctx context.Context, reason string) (*sessiondomain.Session, string, error) {
	if s.deps.Config.AutoRecord && s.deps.Recordings != nil {
		rec := media.Recording{Type: "audio", Timestamp: time.Now().UTC()}
		if cur, ok := s.deps.Track.Current(); ok {
			rec.Location = &cur
		}
		s.deps.Recordings.Add(rec)
	}
	return s.deps.Broker.Trigger(ctx, reason, s.snapshotInputs())
}

// OnTimerExpired is the safety-timer expiry callback.
func (s *Server) OnTimerExpired() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, _, err := s.TriggerEmergency(ctx, ReasonTimerExpired); err != nil {
		// Nothing above us to report to; the trigger path logs its own detail.
		return
	}
}

// OnTimerCheckIn is the safety-timer check-in callback.
func (s *Server) OnTimerCheckIn() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.deps.Broker.NotifyCheckIn(ctx, s.snapshotInputs())
}

type panicRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) handlePanic(w http.ResponseWriter, r *http.Request) {
	req := panicRequest{}
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
	}
	if req.Reason == "" {
		req.Reason = ReasonPanic
	}
	session, accessURL, err := s.TriggerEmergency(r.Context(), req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"sessionId": session.ID,
		"expiresAt": session.ExpiresAt,
		"accessUrl": accessURL,
	})
}

func (s *Server) handlePanicCancel(w http.ResponseWriter, r *http.Request) {
	session, err := s.deps.Broker.CancelLatest(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessionId": session.ID, "active": session.Active})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	list, err := s.deps.Broker.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	summaries := make([]map[string]any, 0, len(list))
	for _, sess := range list {
		summaries = append(summaries, map[string]any{
			"sessionId":   sess.ID,
			"reason":      sess.Reason,
			"createdAt":   sess.CreatedAt,
			"expiresAt":   sess.ExpiresAt,
			"active":      sess.Active,
			"accessCount": sess.AccessCount,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": summaries})
}

// handleAccess is the endpoint behind the opaque URL contacts receive in alert
// messages. The contact query parameter identifies the requester; the returned
// package carries only what that contact's permissions allow.
func (s *Server) handleAccess(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionID"]
	contactID := r.URL.Query().Get("contact")
	if contactID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "contact query parameter is required"})
		return
	}
	pkg, err := s.deps.Broker.Resolve(r.Context(), sessionID, contactID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pkg)
}
