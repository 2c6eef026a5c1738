package server

import (
	"encoding/json"
	"net/http"

	"github.com/me/studyplan/pkg/model"
)

type autoScheduleRequest struct {
	TaskIDs     []string                    `json:"task_ids"`
	Preferences model.SchedulingPreferences `json:"preferences"`
}

func (s *Server) handleAutoSchedule(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	var req autoScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, reqID, http.StatusBadRequest, &model.APIError{
			Code:    model.ErrValidation,
			Message: "Invalid JSON body: " + err.Error(),
		})
		return
	}

	result, err := s.scheduler.AutoSchedule(r.Context(), req.TaskIDs, req.Preferences)
	if err != nil {
		respondAppError(w, reqID, err)
		return
	}
	respondOK(w, reqID, result)
}

func (s *Server) handleCommitSchedule(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	var req struct {
		Schedule []model.ScheduleEntry `json:"schedule"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, reqID, http.StatusBadRequest, &model.APIError{
			Code:    model.ErrValidation,
			Message: "Invalid JSON body: " + err.Error(),
		})
		return
	}

	blocks, err := s.scheduler.CommitSchedule(r.Context(), req.Schedule)
	if err != nil {
		respondAppError(w, reqID, err)
		return
	}
	respondCreated(w, reqID, map[string]any{"blocks": blocks})
}
