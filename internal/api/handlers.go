// Package api provides HTTP handlers for SafeSpace endpoints.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/safespace-app/safespace/internal/models"
)

// analyzeHandler handles POST /mood/analyze: crisis check, mood
// normalization, history append, and activity selection.
func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	slog.Debug("Server.analyzeHandler: processing analyze request", "method", r.Method, "path", r.URL.Path)
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		slog.Warn("Server.analyzeHandler: method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var input models.MoodInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		slog.Warn("Server.analyzeHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if err := input.Validate(); err != nil {
		slog.Warn("Server.analyzeHandler: validation failed", "error", err, "source", input.Source)
		writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
		return
	}

	outcome, err := s.orchestrator.Analyze(r.Context(), userID(r), input)
	if err != nil {
		slog.Error("Server.analyzeHandler: pipeline failed", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to analyze mood"))
		return
	}

	// A triggered crisis flag supersedes the normal response; the
	// escalation payload is structurally distinct from a mood result.
	if outcome.Crisis != nil {
		slog.Info("Server.analyzeHandler: returning crisis escalation")
		writeJSONResponse(w, http.StatusOK, models.Success(outcome.Crisis))
		return
	}

	result := models.MoodAnalysisResult{
		Label:       outcome.Assessment.Label,
		Intensity:   outcome.Assessment.Intensity,
		Confidence:  outcome.Assessment.Confidence,
		Message:     outcome.Message,
		Suggestions: outcome.Suggestions,
	}
	slog.Info("Server.analyzeHandler: mood analyzed", "label", result.Label, "intensity", result.Intensity)
	writeJSONResponse(w, http.StatusOK, models.Success(result))
}

// playlistHandler handles POST /music/playlist.
func (s *Server) playlistHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	slog.Debug("Server.playlistHandler: processing playlist request", "method", r.Method, "path", r.URL.Path)
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		slog.Warn("Server.playlistHandler: method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req models.PlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.playlistHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if err := req.Validate(); err != nil {
		slog.Warn("Server.playlistHandler: validation failed", "error", err, "mood_type", req.MoodType)
		writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
		return
	}

	generated := s.generator.Generate(r.Context(), models.ContentRequest{
		Kind:            models.KindPlaylist,
		Mood:            req.MoodType,
		Intensity:       models.ClampIntensity(req.Intensity),
		DurationMinutes: req.DurationMinutes,
		RequestedAt:     time.Now().UTC(),
	})

	result := models.PlaylistResult{
		ID:          generated.Playlist.ID,
		Name:        generated.Playlist.Name,
		Description: generated.Playlist.Description,
		Tracks:      generated.Playlist.Tracks,
		Provenance:  generated.Provenance,
	}
	slog.Info("Server.playlistHandler: playlist generated", "mood_type", req.MoodType,
		"provenance", generated.Provenance, "tracks", len(result.Tracks))
	writeJSONResponse(w, http.StatusOK, models.Success(result))
}

// affirmationsHandler handles POST /ai/affirmations.
func (s *Server) affirmationsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	slog.Debug("Server.affirmationsHandler: processing affirmations request", "method", r.Method, "path", r.URL.Path)
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		slog.Warn("Server.affirmationsHandler: method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req models.AffirmationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.affirmationsHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if err := req.Validate(); err != nil {
		slog.Warn("Server.affirmationsHandler: validation failed", "error", err, "mood_type", req.MoodType)
		writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
		return
	}

	generated := s.generator.Generate(r.Context(), models.ContentRequest{
		Kind:        models.KindAffirmationSet,
		Mood:        req.MoodType,
		Intensity:   models.ClampIntensity(req.Intensity),
		RequestedAt: time.Now().UTC(),
	})

	result := models.AffirmationsResult{
		Affirmations:         generated.Affirmations.Affirmations,
		PersonalizedMessage:  generated.Affirmations.PersonalizedMessage,
		BreathingInstruction: generated.Affirmations.BreathingInstruction,
		Provenance:           generated.Provenance,
	}
	slog.Info("Server.affirmationsHandler: affirmations generated", "mood_type", req.MoodType,
		"provenance", generated.Provenance, "count", len(result.Affirmations))
	writeJSONResponse(w, http.StatusOK, models.Success(result))
}

// historyHandler handles GET /mood/history: the caller's mood trail,
// most-recent-first.
func (s *Server) historyHandler(w http.ResponseWriter, r *http.Request) {
	slog.Debug("Server.historyHandler: processing history request", "method", r.Method, "path", r.URL.Path)
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		slog.Warn("Server.historyHandler: method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			writeJSONResponse(w, http.StatusBadRequest, models.Error("limit must be a positive integer"))
			return
		}
		limit = v
	}

	entries, err := s.store.List(r.Context(), userID(r), limit)
	if err != nil {
		slog.Error("Server.historyHandler: failed to fetch history", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to fetch mood history"))
		return
	}
	slog.Debug("Server.historyHandler: history fetched", "count", len(entries))
	writeJSONResponse(w, http.StatusOK, models.Success(entries))
}

// healthHandler provides a liveness probe with no business logic.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
