package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/me/studyplan/internal/engine"
	"github.com/me/studyplan/pkg/model"
)

type taskRequest struct {
	Title            string `json:"title"`
	Subject          string `json:"subject"`
	Priority         int    `json:"priority"`
	Deadline         string `json:"deadline"`
	EstimatedMinutes int    `json:"estimated_minutes"`
	Status           string `json:"status"`
}

func (req *taskRequest) validate() *model.APIError {
	var fields []model.FieldError
	if req.Title == "" {
		fields = append(fields, model.FieldError{Field: "title", Message: "title is required"})
	}
	if req.EstimatedMinutes <= 0 {
		fields = append(fields, model.FieldError{Field: "estimated_minutes", Message: "must be a positive number of minutes"})
	}
	if req.Priority < 0 || req.Priority > 5 {
		fields = append(fields, model.FieldError{Field: "priority", Message: "must be between 1 and 5"})
	}
	if req.Deadline != "" {
		if _, err := engine.ParseDate(req.Deadline); err != nil {
			fields = append(fields, model.FieldError{Field: "deadline", Message: "must be YYYY-MM-DD"})
		}
	}
	if req.Status != "" && !model.TaskStatus(req.Status).Valid() {
		fields = append(fields, model.FieldError{Field: "status", Message: "unknown status " + req.Status})
	}
	if len(fields) > 0 {
		return model.NewValidationError("invalid task", fields...)
	}
	return nil
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	opts := model.DefaultListOptions()
	if v := r.URL.Query().Get("limit"); v != "" {
		opts.Limit, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		opts.Offset, _ = strconv.Atoi(v)
	}
	opts.Status = r.URL.Query().Get("status")
	opts.Clamp()

	if opts.Status != "" && !model.TaskStatus(opts.Status).Valid() {
		respondError(w, reqID, http.StatusBadRequest,
			model.NewValidationError("invalid filter",
				model.FieldError{Field: "status", Message: "unknown status " + opts.Status}))
		return
	}

	tasks, total, err := s.store.ListTasks(r.Context(), opts)
	if err != nil {
		respondError(w, reqID, http.StatusInternalServerError,
			&model.APIError{Code: model.ErrInternal, Message: err.Error()})
		return
	}

	respondList(w, reqID, tasks, &model.Pagination{
		Total:   total,
		Limit:   opts.Limit,
		Offset:  opts.Offset,
		HasMore: opts.Offset+len(tasks) < total,
	})
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, reqID, http.StatusBadRequest, &model.APIError{
			Code:    model.ErrValidation,
			Message: "Invalid JSON body: " + err.Error(),
		})
		return
	}
	if apiErr := req.validate(); apiErr != nil {
		respondError(w, reqID, http.StatusBadRequest, apiErr)
		return
	}

	now := time.Now().UTC()
	task := &model.Task{
		ID:               "task_" + uuid.New().String()[:8],
		Title:            req.Title,
		Subject:          req.Subject,
		Priority:         req.Priority,
		Deadline:         req.Deadline,
		EstimatedMinutes: req.EstimatedMinutes,
		Status:           model.TaskStatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if req.Status != "" {
		task.Status = model.TaskStatus(req.Status)
	}

	if err := s.store.CreateTask(r.Context(), task); err != nil {
		respondAppError(w, reqID, err)
		return
	}
	respondCreated(w, reqID, task)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	task, err := s.store.GetTask(r.Context(), id)
	if err != nil {
		respondError(w, reqID, http.StatusInternalServerError,
			&model.APIError{Code: model.ErrInternal, Message: err.Error()})
		return
	}
	if task == nil {
		respondError(w, reqID, http.StatusNotFound, model.NewNotFoundError("task", id))
		return
	}
	respondOK(w, reqID, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	task, err := s.store.GetTask(r.Context(), id)
	if err != nil {
		respondError(w, reqID, http.StatusInternalServerError,
			&model.APIError{Code: model.ErrInternal, Message: err.Error()})
		return
	}
	if task == nil {
		respondError(w, reqID, http.StatusNotFound, model.NewNotFoundError("task", id))
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, reqID, http.StatusBadRequest, &model.APIError{
			Code:    model.ErrValidation,
			Message: "Invalid JSON body: " + err.Error(),
		})
		return
	}
	if apiErr := req.validate(); apiErr != nil {
		respondError(w, reqID, http.StatusBadRequest, apiErr)
		return
	}

	task.Title = req.Title
	task.Subject = req.Subject
	task.Priority = req.Priority
	task.Deadline = req.Deadline
	task.EstimatedMinutes = req.EstimatedMinutes
	if req.Status != "" {
		task.Status = model.TaskStatus(req.Status)
	}
	task.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateTask(r.Context(), task); err != nil {
		respondAppError(w, reqID, err)
		return
	}
	respondOK(w, reqID, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	task, err := s.store.GetTask(r.Context(), id)
	if err != nil {
		respondError(w, reqID, http.StatusInternalServerError,
			&model.APIError{Code: model.ErrInternal, Message: err.Error()})
		return
	}
	if task == nil {
		respondError(w, reqID, http.StatusNotFound, model.NewNotFoundError("task", id))
		return
	}

	if err := s.store.DeleteTask(r.Context(), id); err != nil {
		respondAppError(w, reqID, err)
		return
	}
	respondOK(w, reqID, map[string]any{"deleted": true})
}
