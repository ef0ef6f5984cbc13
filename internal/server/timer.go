package server

import "net/http"

type timerStartRequest struct {
	Minutes int `json:"minutes"`
}

func (s *Server) handleTimerStart(w http.ResponseWriter, r *http.Request) {
	req := timerStartRequest{Minutes: s.deps.Config.EmergencyTimeoutSeconds / 60}
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
	}
	if err := s.deps.Timer.Start(req.Minutes); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.timerStatus())
}

func (s *Server) handleTimerCheckIn(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Timer.CheckIn(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.timerStatus())
}

func (s *Server) handleTimerStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.timerStatus())
}

func (s *Server) timerStatus() map[string]any {
	return map[string]any{
		"active":           s.deps.Timer.Active(),
		"remainingSeconds": s.deps.Timer.Remaining(),
		"durationSeconds":  s.deps.Timer.Duration(),
	}
}
