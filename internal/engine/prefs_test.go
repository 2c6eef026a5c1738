package engine

import (
	"testing"

	"github.com/me/studyplan/pkg/model"
)

func TestNormalizePreferences_Defaults(t *testing.T) {
	p := NormalizePreferences(model.SchedulingPreferences{})
	if p.MaxSessionMinutes != 90 {
		t.Errorf("MaxSessionMinutes = %d, want 90", p.MaxSessionMinutes)
	}
	if p.BreakMinutes != 15 {
		t.Errorf("BreakMinutes = %d, want 15", p.BreakMinutes)
	}
	if p.PreferMorning || p.PreferEvening || p.WorkdaysOnly {
		t.Errorf("flags should default to false: %+v", p)
	}
}

func TestNormalizePreferences_Clamping(t *testing.T) {
	p := NormalizePreferences(model.SchedulingPreferences{MaxSessionMinutes: 600, BreakMinutes: 1})
	if p.MaxSessionMinutes != 180 {
		t.Errorf("MaxSessionMinutes = %d, want clamped 180", p.MaxSessionMinutes)
	}
	if p.BreakMinutes != 5 {
		t.Errorf("BreakMinutes = %d, want clamped 5", p.BreakMinutes)
	}

	p = NormalizePreferences(model.SchedulingPreferences{MaxSessionMinutes: 10})
	if p.MaxSessionMinutes != 30 {
		t.Errorf("MaxSessionMinutes = %d, want clamped 30", p.MaxSessionMinutes)
	}
}

func TestNormalizePreferences_MutuallyExclusiveBias(t *testing.T) {
	p := NormalizePreferences(model.SchedulingPreferences{PreferMorning: true, PreferEvening: true})
	if !p.PreferMorning || p.PreferEvening {
		t.Errorf("morning should win the tie: %+v", p)
	}
}

func TestNormalizeTask(t *testing.T) {
	task := NormalizeTask(model.Task{})
	if task.Priority != 3 {
		t.Errorf("Priority = %d, want default 3", task.Priority)
	}
	if task.Status != model.TaskStatusPending {
		t.Errorf("Status = %q, want pending", task.Status)
	}

	task = NormalizeTask(model.Task{Priority: 9})
	if task.Priority != 5 {
		t.Errorf("Priority = %d, want clamped 5", task.Priority)
	}
}
