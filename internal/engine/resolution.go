package engine

import "github.com/me/studyplan/pkg/model"

// GenerateOptions returns the ranked remediation menu for one conflict.
// The lookup is keyed by the closed conflict-type enum; an unrecognized
// type yields the ai_optimize fallback, so the result is never empty.
func GenerateOptions(conflict model.Conflict) []model.ResolutionOption {
	switch conflict.Type {
	case model.ConflictTypeTime:
		return []model.ResolutionOption{
			{
				ID:          model.ActionRescheduleFirst,
				Title:       "Reschedule this task",
				Description: "Move the proposed placement to the nearest free slot",
				Impact:      model.ImpactLow,
				Effort:      model.EffortEasy,
			},
			{
				ID:          model.ActionRescheduleSecond,
				Title:       "Reschedule the existing block",
				Description: "Move the committed block to the nearest free slot instead",
				Impact:      model.ImpactLow,
				Effort:      model.EffortEasy,
			},
			{
				ID:          model.ActionSplitTasks,
				Title:       "Split the task",
				Description: "Divide the task into two halves that can be placed separately",
				Impact:      model.ImpactMedium,
				Effort:      model.EffortMedium,
			},
		}
	case model.ConflictTypeWorkload:
		return []model.ResolutionOption{
			{
				ID:          model.ActionExtendDeadline,
				Title:       "Extend the deadline",
				Description: "Push the task's deadline out one day to relieve today",
				Impact:      model.ImpactLow,
				Effort:      model.EffortEasy,
			},
			{
				ID:          model.ActionReduceScope,
				Title:       "Reduce scope",
				Description: "Trim the task's estimated duration by a quarter",
				Impact:      model.ImpactMedium,
				Effort:      model.EffortMedium,
			},
			{
				ID:          model.ActionDelegateTasks,
				Title:       "Delegate the task",
				Description: "Hand the task off and remove it from your own workload",
				Impact:      model.ImpactHigh,
				Effort:      model.EffortHard,
			},
		}
	case model.ConflictTypePriority:
		return []model.ResolutionOption{
			{
				ID:          model.ActionReprioritize,
				Title:       "Reprioritize",
				Description: "Raise this task's priority so it is scheduled first",
				Impact:      model.ImpactMedium,
				Effort:      model.EffortEasy,
			},
			{
				ID:          model.ActionSequential,
				Title:       "Work sequentially",
				Description: "Keep both tasks and place this one right after the other",
				Impact:      model.ImpactLow,
				Effort:      model.EffortEasy,
			},
		}
	default:
		return []model.ResolutionOption{
			{
				ID:          model.ActionAIOptimize,
				Title:       "Let the assistant optimize",
				Description: "Ask the insight generator to propose a rearranged day",
				Impact:      model.ImpactLow,
				Effort:      model.EffortEasy,
			},
		}
	}
}
