// Package insight produces the free-text annotations attached to generated
// schedules. The scheduling engine treats everything produced here as an
// opaque pass-through; no planning decision depends on it.
package insight

import (
	"context"

	"github.com/me/studyplan/pkg/model"
)

// Generator annotates a computed schedule.
type Generator interface {
	Generate(ctx context.Context, tasks []model.Task, entries []model.ScheduleEntry) (*model.Insights, error)
}
