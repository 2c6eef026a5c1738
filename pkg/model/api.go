package model

import "time"

// Response is the standard API response envelope.
type Response struct {
	Status     string      `json:"status"`
	RequestID  string      `json:"request_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Data       any         `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Error      *APIError   `json:"error"`
}

// Pagination holds pagination metadata for list endpoints.
type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// ListOptions configures list queries with pagination and filtering.
type ListOptions struct {
	Limit  int
	Offset int
	Status string // Optional task status filter
}

// DefaultListOptions returns sensible defaults.
func DefaultListOptions() ListOptions {
	return ListOptions{Limit: 20, Offset: 0}
}

// Clamp enforces limits (max 100, min 1).
func (o *ListOptions) Clamp() {
	if o.Limit <= 0 {
		o.Limit = 20
	}
	if o.Limit > 100 {
		o.Limit = 100
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
}

// CheckConflictsResult is the payload returned by the conflict-check
// operation.
type CheckConflictsResult struct {
	HasConflicts     bool       `json:"has_conflicts"`
	Conflicts        []Conflict `json:"conflicts"`
	AlternativeSlots []int      `json:"alternative_slots"`
}

// AutoScheduleResult is the payload returned by the auto-schedule operation.
type AutoScheduleResult struct {
	Schedule []ScheduleEntry `json:"schedule"`
	Insights *Insights       `json:"insights,omitempty"`
	Message  string          `json:"message"`
}

// ResolveConflictResult is the payload returned after applying a resolution
// option. UpdatedTasks and UpdatedBlocks carry the entities the single
// committed mutation touched.
type ResolveConflictResult struct {
	Success       bool        `json:"success"`
	Applied       string      `json:"applied"`
	UpdatedTasks  []Task      `json:"updated_tasks,omitempty"`
	UpdatedBlocks []TimeBlock `json:"updated_blocks,omitempty"`
}
