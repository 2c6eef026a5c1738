package store

import (
	"context"

	"github.com/me/studyplan/pkg/model"
)

// Store defines the persistence layer for studyplan entities. It plays the
// role of both the task store and the calendar store the scheduling engine
// is bounded by.
type Store interface {
	// Task CRUD
	CreateTask(ctx context.Context, task *model.Task) error
	GetTask(ctx context.Context, id string) (*model.Task, error)
	ListTasks(ctx context.Context, opts model.ListOptions) ([]*model.Task, int, error)
	UpdateTask(ctx context.Context, task *model.Task) error
	DeleteTask(ctx context.Context, id string) error

	// TimeBlock CRUD
	CreateTimeBlock(ctx context.Context, block *model.TimeBlock) error
	GetTimeBlock(ctx context.Context, id string) (*model.TimeBlock, error)
	ListTimeBlocksByDate(ctx context.Context, date string) ([]*model.TimeBlock, error)
	UpdateTimeBlock(ctx context.Context, block *model.TimeBlock) error
	// MoveTimeBlock changes a block's start time of day; the end time is
	// derived from the unchanged duration. The moved block must still fit
	// inside its day.
	MoveTimeBlock(ctx context.Context, id string, newStartMinutes int) (*model.TimeBlock, error)
	DeleteTimeBlock(ctx context.Context, id string) error

	// Lifecycle
	Close() error
	Migrate(ctx context.Context) error
}
