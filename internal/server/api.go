package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleStation(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeBadRequest(w, r, "query parameter 'name' is required")
		return
	}

	station, err := s.engine.Anitabi.StationInfo(r.Context(), name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, station)
}

func (s *Server) handleNear(w http.ResponseWriter, r *http.Request) {
	station := strings.TrimSpace(r.URL.Query().Get("station"))
	if station == "" {
		writeBadRequest(w, r, "query parameter 'station' is required")
		return
	}

	radiusKm := 0.0
	if raw := r.URL.Query().Get("radius_km"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			writeBadRequest(w, r, "query parameter 'radius_km' must be a positive number")
			return
		}
		radiusKm = parsed
	}

	result, err := s.engine.SearchNearStation(r.Context(), station, radiusKm)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handlePoints(w http.ResponseWriter, r *http.Request) {
	bangumiID := chi.URLParam(r, "id")

	points, err := s.engine.FetchBangumiPoints(r.Context(), bangumiID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"bangumi_id": bangumiID,
		"points":     points,
	})
}

func (s *Server) handleSearchSubjects(w http.ResponseWriter, r *http.Request) {
	keyword := strings.TrimSpace(r.URL.Query().Get("keyword"))
	if keyword == "" {
		writeBadRequest(w, r, "query parameter 'keyword' is required")
		return
	}

	subjectType := 0
	if raw := r.URL.Query().Get("type"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeBadRequest(w, r, "query parameter 'type' must be a positive integer")
			return
		}
		subjectType = parsed
	}

	maxResults := 0
	if raw := r.URL.Query().Get("max_results"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeBadRequest(w, r, "query parameter 'max_results' must be a positive integer")
			return
		}
		maxResults = parsed
	}

	subjects, err := s.engine.SearchSubjects(r.Context(), keyword, subjectType, maxResults)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"keyword":  keyword,
		"subjects": subjects,
	})
}

func (s *Server) handleGetSubject(w http.ResponseWriter, r *http.Request) {
	subjectID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || subjectID <= 0 {
		writeBadRequest(w, r, "subject id must be a positive integer")
		return
	}

	subject, err := s.engine.GetSubject(r.Context(), subjectID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, subject)
}
