package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hyperjump/pheddit/internal/models"
	"github.com/hyperjump/pheddit/internal/search"
	"go.uber.org/zap"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("search request", zap.String("query", req.Query))

	started := time.Now()
	matched := s.engine.Search(r.Context(), req.Query)
	response := models.SearchResponse{
		Query:     req.Query,
		Total:     len(matched),
		Results:   views(matched),
		QueryTime: time.Since(started).Milliseconds(),
	}
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleCandidates(w http.ResponseWriter, r *http.Request) {
	bucket, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "bucket must be an integer")
		return
	}
	start, end, total, matched, err := s.engine.Candidates(r.Context(), bucket)
	if err != nil {
		if errors.Is(err, search.ErrInvalidBucket) {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("candidates failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, models.CandidatesResponse{
		Bucket:  bucket,
		Start:   start,
		End:     end,
		Total:   total,
		Results: views(matched),
	})
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	post, ok := s.engine.Lookup(id)
	if !ok {
		s.respondError(w, http.StatusNotFound, "post not found")
		return
	}
	s.respondJSON(w, http.StatusOK, post.View())
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, models.StatusResponse{
		Posts:       s.engine.PostCount(),
		TopicGroups: s.engine.TopicGroupCount(),
		Workers:     s.engine.Workers(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func views(posts []models.Post) []models.PostView {
	out := make([]models.PostView, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.View())
	}
	return out
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
