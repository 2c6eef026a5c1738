package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/me/studyplan/internal/engine"
	"github.com/me/studyplan/pkg/model"
)

func newID(prefix string) string {
	return prefix + "_" + uuid.New().String()[:8]
}

// apply performs the store mutation for one resolution option. Each branch
// commits one remedy; on error the caller keeps the conflict resolvable.
func (s *Service) apply(ctx context.Context, entry cachedConflict, option model.ResolutionAction) (*model.ResolveConflictResult, error) {
	switch option {
	case model.ActionRescheduleFirst, model.ActionAIOptimize:
		return s.placeCandidate(ctx, entry, firstAlternative(entry.conflict))

	case model.ActionRescheduleSecond:
		return s.moveConflictingBlock(ctx, entry)

	case model.ActionSplitTasks:
		return s.splitTask(ctx, entry)

	case model.ActionExtendDeadline:
		return s.mutateTask(ctx, entry, func(t *model.Task) {
			base := t.Deadline
			if base == "" {
				base = entry.candidate.Date
			}
			t.Deadline = engine.AddDays(base, 1)
		})

	case model.ActionReduceScope:
		return s.mutateTask(ctx, entry, func(t *model.Task) {
			reduced := t.EstimatedMinutes * 3 / 4
			if reduced < 15 {
				reduced = 15
			}
			t.EstimatedMinutes = reduced
		})

	case model.ActionDelegateTasks:
		return s.mutateTask(ctx, entry, func(t *model.Task) {
			t.Status = model.TaskStatusDelegated
		})

	case model.ActionReprioritize:
		return s.mutateTask(ctx, entry, func(t *model.Task) {
			if t.Priority < 5 {
				t.Priority++
			}
		})

	case model.ActionSequential:
		return s.placeAfterConflictingBlock(ctx, entry)

	default:
		return nil, model.NewValidationError("unknown resolution option",
			model.FieldError{Field: "option_id", Message: string(option)})
	}
}

// firstAlternative returns the conflict's best alternative slot, or -1.
func firstAlternative(c model.Conflict) int {
	if len(c.AlternativeSlots) == 0 {
		return -1
	}
	return c.AlternativeSlots[0]
}

// placeCandidate commits the candidate placement as a block at the given
// start time of day.
func (s *Service) placeCandidate(ctx context.Context, entry cachedConflict, start int) (*model.ResolveConflictResult, error) {
	if start < 0 {
		return nil, &model.APIError{
			Code:    model.ErrConflict,
			Message: "no free slot available on " + entry.candidate.Date,
		}
	}

	title := ""
	if task, err := s.store.GetTask(ctx, entry.candidate.TaskID); err == nil && task != nil {
		title = task.Title
	}

	block := &model.TimeBlock{
		ID:              newID("blk"),
		TaskID:          entry.candidate.TaskID,
		Date:            entry.candidate.Date,
		StartMinutes:    start,
		DurationMinutes: entry.candidate.DurationMinutes,
		Type:            model.BlockTypeTask,
		Title:           title,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.store.CreateTimeBlock(ctx, block); err != nil {
		return nil, fmt.Errorf("place task %s: %w", entry.candidate.TaskID, err)
	}
	return &model.ResolveConflictResult{UpdatedBlocks: []model.TimeBlock{*block}}, nil
}

// moveConflictingBlock moves the first existing block involved in the
// conflict to the first alternative slot.
func (s *Service) moveConflictingBlock(ctx context.Context, entry cachedConflict) (*model.ResolveConflictResult, error) {
	if len(entry.conflict.BlockIDs) == 0 {
		return nil, &model.APIError{
			Code:    model.ErrConflict,
			Message: "conflict has no movable block",
		}
	}
	start := firstAlternative(entry.conflict)
	if start < 0 {
		return nil, &model.APIError{
			Code:    model.ErrConflict,
			Message: "no free slot available on " + entry.candidate.Date,
		}
	}

	moved, err := s.store.MoveTimeBlock(ctx, entry.conflict.BlockIDs[0], start)
	if err != nil {
		return nil, fmt.Errorf("move block %s: %w", entry.conflict.BlockIDs[0], err)
	}
	return &model.ResolveConflictResult{UpdatedBlocks: []model.TimeBlock{*moved}}, nil
}

// placeAfterConflictingBlock commits the candidate right after the
// conflicting block ends. If that slot runs into another block on the
// same day, or past midnight, it falls back to the conflict's first
// alternative slot.
func (s *Service) placeAfterConflictingBlock(ctx context.Context, entry cachedConflict) (*model.ResolveConflictResult, error) {
	if len(entry.conflict.BlockIDs) == 0 {
		return nil, &model.APIError{
			Code:    model.ErrConflict,
			Message: "conflict has no anchoring block",
		}
	}
	block, err := s.store.GetTimeBlock(ctx, entry.conflict.BlockIDs[0])
	if err != nil {
		return nil, err
	}
	if block == nil {
		return nil, model.NewNotFoundError("time block", entry.conflict.BlockIDs[0])
	}

	start := block.EndMinutes()
	free, err := s.slotIsFree(ctx, entry.candidate, start, block.ID)
	if err != nil {
		return nil, err
	}
	if !free {
		start = firstAlternative(entry.conflict)
	}
	return s.placeCandidate(ctx, entry, start)
}

// slotIsFree reports whether the candidate, placed at start, stays within
// the day and clear of every counting block except the one with skipID.
func (s *Service) slotIsFree(ctx context.Context, cand engine.Candidate, start int, skipID string) (bool, error) {
	end := start + cand.DurationMinutes
	if end > 24*60 {
		return false, nil
	}
	blocks, err := s.store.ListTimeBlocksByDate(ctx, cand.Date)
	if err != nil {
		return false, fmt.Errorf("list blocks on %s: %w", cand.Date, err)
	}
	for _, b := range blocks {
		if b.ID == skipID || !b.Type.Counts() {
			continue
		}
		if engine.Overlaps(start, end, b.StartMinutes, b.EndMinutes()) {
			return false, nil
		}
	}
	return true, nil
}

// splitTask replaces the candidate task's estimate with two halves: the
// original record keeps the first half, a new record carries the second.
// The halves sum to the original estimate exactly.
func (s *Service) splitTask(ctx context.Context, entry cachedConflict) (*model.ResolveConflictResult, error) {
	task, err := s.store.GetTask(ctx, entry.candidate.TaskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, model.NewNotFoundError("task", entry.candidate.TaskID)
	}

	first := (task.EstimatedMinutes + 1) / 2
	second := task.EstimatedMinutes - first
	if second <= 0 {
		return nil, model.NewValidationError("task too short to split",
			model.FieldError{Field: "estimated_minutes", Message: "needs at least 2 minutes"})
	}

	now := s.now().UTC()
	part := &model.Task{
		ID:               newID("task"),
		Title:            task.Title + " (part 2)",
		Subject:          task.Subject,
		Priority:         task.Priority,
		Deadline:         task.Deadline,
		EstimatedMinutes: second,
		Status:           model.TaskStatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.store.CreateTask(ctx, part); err != nil {
		return nil, fmt.Errorf("create split task: %w", err)
	}

	task.Title += " (part 1)"
	task.EstimatedMinutes = first
	task.UpdatedAt = now
	if err := s.store.UpdateTask(ctx, task); err != nil {
		// Undo the create so the split is all-or-nothing.
		if delErr := s.store.DeleteTask(ctx, part.ID); delErr != nil {
			s.logger.Error("split rollback failed", "task_id", part.ID, "error", delErr)
		}
		return nil, fmt.Errorf("shrink original task: %w", err)
	}

	return &model.ResolveConflictResult{UpdatedTasks: []model.Task{*task, *part}}, nil
}

// mutateTask applies fn to the candidate task and persists it.
func (s *Service) mutateTask(ctx context.Context, entry cachedConflict, fn func(*model.Task)) (*model.ResolveConflictResult, error) {
	task, err := s.store.GetTask(ctx, entry.candidate.TaskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, model.NewNotFoundError("task", entry.candidate.TaskID)
	}

	fn(task)
	task.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("update task %s: %w", task.ID, err)
	}
	return &model.ResolveConflictResult{UpdatedTasks: []model.Task{*task}}, nil
}
