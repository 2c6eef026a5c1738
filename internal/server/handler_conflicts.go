package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/me/studyplan/pkg/model"
)

type checkConflictsRequest struct {
	TaskID          string `json:"task_id"`
	Date            string `json:"date"`
	StartMinutes    int    `json:"start_minutes"`
	DurationMinutes int    `json:"duration_minutes"`
}

func (s *Server) handleCheckConflicts(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	var req checkConflictsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, reqID, http.StatusBadRequest, &model.APIError{
			Code:    model.ErrValidation,
			Message: "Invalid JSON body: " + err.Error(),
		})
		return
	}

	result, err := s.scheduler.CheckConflicts(r.Context(), req.TaskID, req.Date, req.StartMinutes, req.DurationMinutes)
	if err != nil {
		respondAppError(w, reqID, err)
		return
	}
	respondOK(w, reqID, result)
}

func (s *Server) handleResolutionOptions(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	opts, err := s.scheduler.ResolutionOptions(id)
	if err != nil {
		respondAppError(w, reqID, err)
		return
	}
	respondOK(w, reqID, map[string]any{"conflict_id": id, "options": opts})
}

func (s *Server) handleResolveConflict(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req struct {
		OptionID string `json:"option_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, reqID, http.StatusBadRequest, &model.APIError{
			Code:    model.ErrValidation,
			Message: "Invalid JSON body: " + err.Error(),
		})
		return
	}
	if req.OptionID == "" {
		respondError(w, reqID, http.StatusBadRequest,
			model.NewValidationError("missing option",
				model.FieldError{Field: "option_id", Message: "option_id is required"}))
		return
	}

	result, err := s.scheduler.ResolveConflict(r.Context(), id, model.ResolutionAction(req.OptionID))
	if err != nil {
		respondAppError(w, reqID, err)
		return
	}
	respondOK(w, reqID, result)
}
