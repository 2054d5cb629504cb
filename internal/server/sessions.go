package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
)

const maxSessionBodyBytes = 1 << 20

type sessionStatePayload struct {
	State map[string]any `json:"state"`
}

func decodeSessionState(r *http.Request) (map[string]any, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxSessionBodyBytes))
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, nil
	}

	var payload sessionStatePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errors.New("request body must be JSON with a 'state' object")
	}
	return payload.State, nil
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	state, err := decodeSessionState(r)
	if err != nil {
		writeBadRequest(w, r, err.Error())
		return
	}

	sess, err := s.sessions.Create(r.Context(), state)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.sessions.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	state, err := decodeSessionState(r)
	if err != nil {
		writeBadRequest(w, r, err.Error())
		return
	}

	sess, err := s.sessions.Update(r.Context(), chi.URLParam(r, "id"), state)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
