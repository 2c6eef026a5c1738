package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/me/studyplan/internal/config"
	"github.com/me/studyplan/internal/engine"
	"github.com/me/studyplan/internal/insight"
	"github.com/me/studyplan/internal/store"
	"github.com/me/studyplan/pkg/model"
)

// Service is the scheduling and conflict-resolution engine, constructed
// explicitly with its dependencies. It owns no durable state: tasks and
// blocks live in the store, conflicts live in a bounded transient cache.
type Service struct {
	store     store.Store
	cfg       config.EngineConfig
	insights  insight.Generator
	logger    *slog.Logger
	now       func() time.Time
	conflicts *conflictCache
}

// Option configures optional Service dependencies.
type Option func(*Service)

// WithClock injects the time source. Tests use this to make planning
// deterministic.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithInsightGenerator overrides the insight generator.
func WithInsightGenerator(g insight.Generator) Option {
	return func(s *Service) {
		s.insights = g
	}
}

// NewService creates a Service with the given store and engine config.
func NewService(st store.Store, cfg config.EngineConfig, logger *slog.Logger, opts ...Option) *Service {
	cfg.Normalize()
	s := &Service{
		store:    st,
		cfg:      cfg,
		insights: insight.NewLocalGenerator(),
		logger:   logger.With("component", "scheduler"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.conflicts = newConflictCache(time.Duration(cfg.ConflictTTLSeconds)*time.Second, s.now)
	return s
}

// CheckConflicts classifies a proposed placement against the committed
// blocks for that date. A failure to read existing blocks degrades to "no
// conflicts found" with a warning: under-reporting is preferred over
// blocking the user.
func (s *Service) CheckConflicts(ctx context.Context, taskID, date string, startMinutes, durationMinutes int) (*model.CheckConflictsResult, error) {
	if _, err := engine.ParseDate(date); err != nil {
		return nil, model.NewValidationError("invalid date",
			model.FieldError{Field: "date", Message: "must be YYYY-MM-DD"})
	}

	cand := engine.Candidate{
		TaskID:          taskID,
		Date:            date,
		StartMinutes:    startMinutes,
		DurationMinutes: durationMinutes,
	}

	stored, err := s.store.ListTimeBlocksByDate(ctx, date)
	if err != nil {
		s.logger.Warn("cannot read existing blocks, reporting no conflicts", "date", date, "error", err)
		return &model.CheckConflictsResult{Conflicts: []model.Conflict{}, AlternativeSlots: []int{}}, nil
	}

	blocks := make([]model.TimeBlock, len(stored))
	for i, b := range stored {
		blocks[i] = *b
	}

	result, err := engine.Check(cand, blocks, s.cfg)
	if err != nil {
		return nil, err
	}

	for _, c := range result.Conflicts {
		s.conflicts.put(c, cand)
	}

	if len(result.Conflicts) > 0 {
		s.logger.Info("conflicts detected", "task_id", taskID, "date", date,
			"count", len(result.Conflicts), "severity", engine.RankSeverity(result.Conflicts))
	}

	out := &model.CheckConflictsResult{
		HasConflicts:     len(result.Conflicts) > 0,
		Conflicts:        result.Conflicts,
		AlternativeSlots: result.AlternativeSlots,
	}
	if out.Conflicts == nil {
		out.Conflicts = []model.Conflict{}
	}
	if out.AlternativeSlots == nil {
		out.AlternativeSlots = []int{}
	}
	return out, nil
}

// AutoSchedule plans the selected tasks and annotates the result with
// insights. The plan is not persisted; CommitSchedule converts an accepted
// plan into time blocks.
func (s *Service) AutoSchedule(ctx context.Context, taskIDs []string, prefs model.SchedulingPreferences) (*model.AutoScheduleResult, error) {
	if len(taskIDs) == 0 {
		return nil, model.NewValidationError("no tasks selected",
			model.FieldError{Field: "task_ids", Message: "select at least one task"})
	}

	tasks := make([]model.Task, 0, len(taskIDs))
	for _, id := range taskIDs {
		task, err := s.store.GetTask(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load task %s: %w", id, err)
		}
		if task == nil {
			return nil, model.NewNotFoundError("task", id)
		}
		tasks = append(tasks, *task)
	}

	entries, err := engine.Plan(tasks, prefs, s.now())
	if err != nil {
		return nil, err
	}

	result := &model.AutoScheduleResult{Schedule: entries}
	if result.Schedule == nil {
		result.Schedule = []model.ScheduleEntry{}
	}

	ins, err := s.insights.Generate(ctx, tasks, entries)
	if err != nil {
		s.logger.Warn("insight generation failed", "error", err)
	} else {
		result.Insights = ins
	}

	if len(entries) == 0 {
		result.Message = "No sessions to schedule."
	} else {
		result.Message = fmt.Sprintf("Scheduled %d session(s) across %d task(s), starting %s at %s.",
			len(entries), len(tasks), entries[0].Date, engine.ClockMinutes(entries[0].StartMinutes))
	}

	s.logger.Info("plan computed", "tasks", len(tasks), "entries", len(entries))
	return result, nil
}

// CommitSchedule persists an accepted plan, one time block per entry, and
// marks the planned tasks as scheduled. On a write failure the blocks
// already created are removed again so no partial plan is kept.
func (s *Service) CommitSchedule(ctx context.Context, entries []model.ScheduleEntry) ([]model.TimeBlock, error) {
	if len(entries) == 0 {
		return nil, model.NewValidationError("empty schedule",
			model.FieldError{Field: "schedule", Message: "nothing to commit"})
	}

	now := s.now().UTC()
	created := make([]model.TimeBlock, 0, len(entries))
	for _, e := range entries {
		block := &model.TimeBlock{
			ID:              newID("blk"),
			TaskID:          e.TaskID,
			Date:            e.Date,
			StartMinutes:    e.StartMinutes,
			DurationMinutes: e.DurationMinutes,
			Type:            model.BlockTypeStudy,
			Title:           e.Title,
			CreatedAt:       now,
		}
		if err := s.store.CreateTimeBlock(ctx, block); err != nil {
			s.rollbackBlocks(ctx, created)
			return nil, fmt.Errorf("persist schedule entry for task %s: %w", e.TaskID, err)
		}
		created = append(created, *block)
	}

	// Mark the planned tasks scheduled. Status is advisory; a failure here
	// does not invalidate the committed blocks.
	seen := make(map[string]bool)
	for _, e := range entries {
		if seen[e.TaskID] {
			continue
		}
		seen[e.TaskID] = true
		task, err := s.store.GetTask(ctx, e.TaskID)
		if err != nil || task == nil {
			continue
		}
		task.Status = model.TaskStatusScheduled
		task.UpdatedAt = now
		if err := s.store.UpdateTask(ctx, task); err != nil {
			s.logger.Warn("cannot mark task scheduled", "task_id", e.TaskID, "error", err)
		}
	}

	s.logger.Info("schedule committed", "blocks", len(created))
	return created, nil
}

// ResolutionOptions returns the remediation menu for a previously detected
// conflict.
func (s *Service) ResolutionOptions(conflictID string) ([]model.ResolutionOption, error) {
	entry, ok := s.conflicts.get(conflictID)
	if !ok {
		return nil, model.NewNotFoundError("conflict", conflictID)
	}
	return engine.GenerateOptions(entry.conflict), nil
}

// ResolveConflict applies one resolution option. Exactly one committed
// mutation is performed; if persistence fails, the conflict stays in the
// cache and nothing local changes.
func (s *Service) ResolveConflict(ctx context.Context, conflictID string, optionID model.ResolutionAction) (*model.ResolveConflictResult, error) {
	entry, ok := s.conflicts.get(conflictID)
	if !ok {
		return nil, model.NewNotFoundError("conflict", conflictID)
	}

	valid := false
	for _, opt := range engine.GenerateOptions(entry.conflict) {
		if opt.ID == optionID {
			valid = true
			break
		}
	}
	if !valid {
		return nil, model.NewValidationError("option not applicable to this conflict",
			model.FieldError{Field: "option_id", Message: string(optionID) + " is not offered for " + string(entry.conflict.Type)})
	}

	result, err := s.apply(ctx, entry, optionID)
	if err != nil {
		return nil, err
	}

	s.conflicts.remove(conflictID)
	s.logger.Info("conflict resolved", "conflict_id", conflictID, "option", optionID)
	result.Success = true
	result.Applied = string(optionID)
	return result, nil
}

func (s *Service) rollbackBlocks(ctx context.Context, blocks []model.TimeBlock) {
	for _, b := range blocks {
		if err := s.store.DeleteTimeBlock(ctx, b.ID); err != nil {
			s.logger.Error("rollback failed", "block_id", b.ID, "error", err)
		}
	}
}
