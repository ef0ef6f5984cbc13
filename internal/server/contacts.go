package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"safeguard/backend/internal/contact/domain"
)

type addContactRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Relation string `json:"relation"`
}

func (s *Server) handleAddContact(w http.ResponseWriter, r *http.Request) {
	var req addContactRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	c, err := s.deps.Registry.Add(r.Context(), req.Name, req.Phone, req.Relation)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	list, err := s.deps.Registry.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"contacts": list})
}

func (s *Server) handleVerifyContact(w http.ResponseWriter, r *http.Request) {
	c, err := s.deps.Registry.Verify(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleRemoveContact(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Registry.Remove(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetPermissions(w http.ResponseWriter, r *http.Request) {
	var patch domain.PermissionPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	c, err := s.deps.Registry.SetPermissions(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleRevokeContact(w http.ResponseWriter, r *http.Request) {
	c, err := s.deps.Registry.Revoke(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
