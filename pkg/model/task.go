package model

import "time"

// Task is a user-owned unit of work with a priority, an optional deadline,
// and an estimated duration. Tasks are owned by the task store; the
// scheduling engine reads them and only mutates them through resolution
// actions.
type Task struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Subject          string     `json:"subject,omitempty"`
	Priority         int        `json:"priority"`
	Deadline         string     `json:"deadline,omitempty"` // civil date YYYY-MM-DD, empty when none
	EstimatedMinutes int        `json:"estimated_minutes"`
	Status           TaskStatus `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TaskStatus represents the lifecycle state of a Task.
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusScheduled TaskStatus = "scheduled"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusDelegated TaskStatus = "delegated"
)

// String returns the string representation of the task status.
func (s TaskStatus) String() string {
	return string(s)
}

// Valid reports whether s is a known task status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusScheduled, TaskStatusCompleted, TaskStatusDelegated:
		return true
	}
	return false
}

// TimeBlock is a concrete placement of work (or a break) on a specific date.
// Times of day are minutes since midnight; a block never crosses midnight.
type TimeBlock struct {
	ID              string    `json:"id"`
	TaskID          string    `json:"task_id,omitempty"`
	Date            string    `json:"date"` // civil date YYYY-MM-DD
	StartMinutes    int       `json:"start_minutes"`
	DurationMinutes int       `json:"duration_minutes"`
	Type            BlockType `json:"type"`
	Title           string    `json:"title,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// EndMinutes returns the block's end time of day (exclusive).
func (b *TimeBlock) EndMinutes() int {
	return b.StartMinutes + b.DurationMinutes
}

// BlockType classifies a TimeBlock.
type BlockType string

const (
	BlockTypeTask       BlockType = "task"
	BlockTypeStudy      BlockType = "study"
	BlockTypeAssignment BlockType = "assignment"
	BlockTypeBreak      BlockType = "break"
	BlockTypeCancelled  BlockType = "cancelled"
)

// String returns the string representation of the block type.
func (t BlockType) String() string {
	return string(t)
}

// Valid reports whether t is a known block type.
func (t BlockType) Valid() bool {
	switch t {
	case BlockTypeTask, BlockTypeStudy, BlockTypeAssignment, BlockTypeBreak, BlockTypeCancelled:
		return true
	}
	return false
}

// Counts reports whether blocks of this type occupy time: they participate
// in conflict detection and count toward the daily workload capacity.
// Cancelled blocks do not.
func (t BlockType) Counts() bool {
	return t != BlockTypeCancelled
}

// ScheduleEntry is one proposed, not-yet-persisted session produced by the
// auto-scheduler. Committing a plan converts each entry into a TimeBlock.
type ScheduleEntry struct {
	ID                string    `json:"id"`
	TaskID            string    `json:"task_id"`
	Title             string    `json:"title"`
	Date              string    `json:"date"`
	StartMinutes      int       `json:"start_minutes"`
	DurationMinutes   int       `json:"duration_minutes"`
	SuggestedPriority int       `json:"suggested_priority"`
	Part              int       `json:"part,omitempty"`  // 1-based chunk index; 0 for single-session tasks
	Parts             int       `json:"parts,omitempty"` // total chunks; 0 for single-session tasks
	StartsAt          time.Time `json:"starts_at"`
}
