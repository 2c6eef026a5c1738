package engine

import "github.com/me/studyplan/pkg/model"

// Documented preference defaults. Malformed preferences fall back to these
// rather than failing the whole plan.
const (
	defaultMaxSessionMinutes = 90
	defaultBreakMinutes      = 15

	minSessionMinutes = 30
	maxSessionMinutes = 180
	minBreakMinutes   = 5
	maxBreakMinutes   = 30

	defaultPriority = 3
	minPriority     = 1
	maxPriority     = 5
)

// NormalizePreferences produces a fully-populated preference value. All
// default-coalescing happens here, once, at the boundary; the rest of the
// engine assumes well-formed preferences.
func NormalizePreferences(p model.SchedulingPreferences) model.SchedulingPreferences {
	if p.MaxSessionMinutes == 0 {
		p.MaxSessionMinutes = defaultMaxSessionMinutes
	}
	p.MaxSessionMinutes = clamp(p.MaxSessionMinutes, minSessionMinutes, maxSessionMinutes)

	if p.BreakMinutes == 0 {
		p.BreakMinutes = defaultBreakMinutes
	}
	p.BreakMinutes = clamp(p.BreakMinutes, minBreakMinutes, maxBreakMinutes)

	// Morning/evening bias is mutually exclusive; morning wins a tie.
	if p.PreferMorning && p.PreferEvening {
		p.PreferEvening = false
	}

	return p
}

// NormalizeTask fills the task fields the planner depends on: a missing
// priority becomes the default, out-of-range priorities are clamped, and a
// missing status becomes pending.
func NormalizeTask(t model.Task) model.Task {
	if t.Priority == 0 {
		t.Priority = defaultPriority
	}
	t.Priority = clamp(t.Priority, minPriority, maxPriority)

	if t.Status == "" {
		t.Status = model.TaskStatusPending
	}
	return t
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
