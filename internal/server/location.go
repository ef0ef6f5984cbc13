package server

import (
	"net/http"
	"time"

	"safeguard/backend/internal/location"
)

func (s *Server) handleRecordLocation(w http.ResponseWriter, r *http.Request) {
	var sample location.Sample
	if err := decodeJSON(r, &sample); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if sample.CapturedAt.IsZero() {
		sample.CapturedAt = time.Now().UTC()
	}

	// With background tracking off, samples are only kept while a countdown is
	// in progress.
	if !s.deps.Config.BackgroundLocation && !s.deps.Timer.Active() {
		writeJSON(w, http.StatusOK, map[string]any{"recorded": false})
		return
	}

	if err := s.deps.Track.Record(sample); err != nil {
		writeError(w, err)
		return
	}

	resp := map[string]any{
		"recorded":      true,
		"historyLength": s.deps.Track.Len(),
		"speed":         s.deps.Track.Speed(),
	}
	if s.deps.Config.AIMonitoring {
		resp["threat"] = s.deps.Analyzer.Assess(s.deps.Track, sample, sample.CapturedAt.UTC().Hour())
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Track.Speed())
}

// handleThreat returns the latest assessment without recomputing it.
func (s *Server) handleThreat(w http.ResponseWriter, r *http.Request) {
	if !s.deps.Config.AIMonitoring {
		writeJSON(w, http.StatusOK, map[string]any{"monitoring": false})
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Analyzer.Latest())
}
