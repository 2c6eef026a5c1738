package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/me/studyplan/internal/engine"
	"github.com/me/studyplan/pkg/model"
)

type blockRequest struct {
	TaskID          string `json:"task_id"`
	Date            string `json:"date"`
	StartMinutes    int    `json:"start_minutes"`
	DurationMinutes int    `json:"duration_minutes"`
	Type            string `json:"type"`
	Title           string `json:"title"`
}

func (req *blockRequest) validate() *model.APIError {
	var fields []model.FieldError
	if _, err := engine.ParseDate(req.Date); err != nil {
		fields = append(fields, model.FieldError{Field: "date", Message: "must be YYYY-MM-DD"})
	}
	if req.StartMinutes < 0 || req.StartMinutes >= 24*60 {
		fields = append(fields, model.FieldError{Field: "start_minutes", Message: "must be within 0..1439"})
	}
	if req.DurationMinutes <= 0 {
		fields = append(fields, model.FieldError{Field: "duration_minutes", Message: "must be a positive number of minutes"})
	}
	if req.Type != "" && !model.BlockType(req.Type).Valid() {
		fields = append(fields, model.FieldError{Field: "type", Message: "unknown block type " + req.Type})
	}
	if len(fields) > 0 {
		return model.NewValidationError("invalid time block", fields...)
	}
	return nil
}

func (s *Server) handleListBlocks(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	date := r.URL.Query().Get("date")
	if _, err := engine.ParseDate(date); err != nil {
		respondError(w, reqID, http.StatusBadRequest,
			model.NewValidationError("invalid filter",
				model.FieldError{Field: "date", Message: "query parameter date=YYYY-MM-DD is required"}))
		return
	}

	blocks, err := s.store.ListTimeBlocksByDate(r.Context(), date)
	if err != nil {
		respondError(w, reqID, http.StatusInternalServerError,
			&model.APIError{Code: model.ErrInternal, Message: err.Error()})
		return
	}

	respondList(w, reqID, blocks, &model.Pagination{
		Total:   len(blocks),
		Limit:   len(blocks),
		Offset:  0,
		HasMore: false,
	})
}

func (s *Server) handleCreateBlock(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	var req blockRequest
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

	blockType := model.BlockTypeTask
	if req.Type != "" {
		blockType = model.BlockType(req.Type)
	}

	block := &model.TimeBlock{
		ID:              "blk_" + uuid.New().String()[:8],
		TaskID:          req.TaskID,
		Date:            req.Date,
		StartMinutes:    req.StartMinutes,
		DurationMinutes: req.DurationMinutes,
		Type:            blockType,
		Title:           req.Title,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.store.CreateTimeBlock(r.Context(), block); err != nil {
		respondAppError(w, reqID, err)
		return
	}
	respondCreated(w, reqID, block)
}

func (s *Server) handleGetBlock(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	block, err := s.store.GetTimeBlock(r.Context(), id)
	if err != nil {
		respondError(w, reqID, http.StatusInternalServerError,
			&model.APIError{Code: model.ErrInternal, Message: err.Error()})
		return
	}
	if block == nil {
		respondError(w, reqID, http.StatusNotFound, model.NewNotFoundError("time block", id))
		return
	}
	respondOK(w, reqID, block)
}

func (s *Server) handleUpdateBlock(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	block, err := s.store.GetTimeBlock(r.Context(), id)
	if err != nil {
		respondError(w, reqID, http.StatusInternalServerError,
			&model.APIError{Code: model.ErrInternal, Message: err.Error()})
		return
	}
	if block == nil {
		respondError(w, reqID, http.StatusNotFound, model.NewNotFoundError("time block", id))
		return
	}

	var req blockRequest
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

	block.TaskID = req.TaskID
	block.Date = req.Date
	block.StartMinutes = req.StartMinutes
	block.DurationMinutes = req.DurationMinutes
	if req.Type != "" {
		block.Type = model.BlockType(req.Type)
	}
	block.Title = req.Title

	if err := s.store.UpdateTimeBlock(r.Context(), block); err != nil {
		respondAppError(w, reqID, err)
		return
	}
	respondOK(w, reqID, block)
}

func (s *Server) handleMoveBlock(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req struct {
		StartMinutes int `json:"start_minutes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, reqID, http.StatusBadRequest, &model.APIError{
			Code:    model.ErrValidation,
			Message: "Invalid JSON body: " + err.Error(),
		})
		return
	}

	block, err := s.store.GetTimeBlock(r.Context(), id)
	if err != nil {
		respondError(w, reqID, http.StatusInternalServerError,
			&model.APIError{Code: model.ErrInternal, Message: err.Error()})
		return
	}
	if block == nil {
		respondError(w, reqID, http.StatusNotFound, model.NewNotFoundError("time block", id))
		return
	}
	if req.StartMinutes < 0 || req.StartMinutes+block.DurationMinutes > 24*60 {
		respondError(w, reqID, http.StatusBadRequest,
			model.NewValidationError("invalid move",
				model.FieldError{Field: "start_minutes", Message: "block must stay within its day"}))
		return
	}

	moved, err := s.store.MoveTimeBlock(r.Context(), id, req.StartMinutes)
	if err != nil {
		respondAppError(w, reqID, err)
		return
	}
	respondOK(w, reqID, moved)
}

func (s *Server) handleDeleteBlock(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	block, err := s.store.GetTimeBlock(r.Context(), id)
	if err != nil {
		respondError(w, reqID, http.StatusInternalServerError,
			&model.APIError{Code: model.ErrInternal, Message: err.Error()})
		return
	}
	if block == nil {
		respondError(w, reqID, http.StatusNotFound, model.NewNotFoundError("time block", id))
		return
	}

	if err := s.store.DeleteTimeBlock(r.Context(), id); err != nil {
		respondAppError(w, reqID, err)
		return
	}
	respondOK(w, reqID, map[string]any{"deleted": true})
}
