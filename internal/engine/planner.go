package engine

import (
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/me/studyplan/pkg/model"
)

// Day window bounds by preference bias, minutes since midnight. Sessions
// start inside the window; the last session of a day may run past its end.
const (
	dayStartDefault = 9 * 60
	dayStartMorning = 8 * 60
	dayStartEvening = 18 * 60

	dayEndDefault = 18 * 60
	dayEndEvening = 23 * 60
)

// effectiveDeadlineDays is the deadline assumed for tasks without one.
const effectiveDeadlineDays = 7

// planWindow is the daily placement window derived from preferences.
type planWindow struct {
	start int
	end   int
}

func windowFor(prefs model.SchedulingPreferences) planWindow {
	switch {
	case prefs.PreferEvening:
		return planWindow{start: dayStartEvening, end: dayEndEvening}
	case prefs.PreferMorning:
		return planWindow{start: dayStartMorning, end: dayEndDefault}
	default:
		return planWindow{start: dayStartDefault, end: dayEndDefault}
	}
}

// Plan lays out the selected tasks as a multi-day sequence of non-overlapping
// sessions. Tasks are taken in (priority desc, effective deadline asc) order
// with input order breaking ties; tasks longer than the maximum session
// length are split into chunks that sum to the original estimate exactly.
//
// Plan is deterministic: identical inputs (including now) yield identical
// output apart from generated entry IDs. It does not consult existing
// time blocks; callers compose with the conflict detector per entry.
func Plan(tasks []model.Task, prefs model.SchedulingPreferences, now time.Time) ([]model.ScheduleEntry, error) {
	prefs = NormalizePreferences(prefs)

	for i, t := range tasks {
		if t.EstimatedMinutes <= 0 {
			return nil, model.NewValidationError("task has no estimated duration",
				model.FieldError{Field: "estimated_minutes", Message: "must be positive for task " + indexOrID(t, i)})
		}
	}
	if len(tasks) == 0 {
		return []model.ScheduleEntry{}, nil
	}

	ordered := make([]model.Task, len(tasks))
	for i, t := range tasks {
		ordered[i] = NormalizeTask(t)
	}

	today := FormatDate(now)
	fallbackDeadline := AddDays(today, effectiveDeadlineDays)
	deadlineOf := func(t model.Task) string {
		if t.Deadline == "" {
			return fallbackDeadline
		}
		return t.Deadline
	}

	// Stable sort keeps input order for ties; civil dates compare
	// lexicographically.
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority != ordered[j].Priority {
			return ordered[i].Priority > ordered[j].Priority
		}
		return deadlineOf(ordered[i]) < deadlineOf(ordered[j])
	})

	win := windowFor(prefs)

	cursor := struct {
		date string
		tod  int
	}{date: today, tod: win.start}

	nowTod := now.Hour()*60 + now.Minute()
	if nowTod >= win.end {
		cursor.date = AddDays(cursor.date, 1)
	}
	if prefs.WorkdaysOnly {
		cursor.date = NextWeekday(cursor.date)
	}

	rollover := func() {
		cursor.date = AddDays(cursor.date, 1)
		cursor.tod = win.start
		if prefs.WorkdaysOnly {
			cursor.date = NextWeekday(cursor.date)
		}
	}

	var entries []model.ScheduleEntry
	for _, task := range ordered {
		parts := (task.EstimatedMinutes + prefs.MaxSessionMinutes - 1) / prefs.MaxSessionMinutes
		remaining := task.EstimatedMinutes

		for part := 1; part <= parts; part++ {
			dur := prefs.MaxSessionMinutes
			if remaining < dur {
				dur = remaining
			}

			// Roll to the next day before placing a session that would
			// start outside the window or cross midnight.
			if cursor.tod >= win.end || cursor.tod+dur > minutesPerDay {
				rollover()
			}

			entry := model.ScheduleEntry{
				ID:                "ses_" + uuid.New().String()[:8],
				TaskID:            task.ID,
				Title:             task.Title,
				Date:              cursor.date,
				StartMinutes:      cursor.tod,
				DurationMinutes:   dur,
				SuggestedPriority: task.Priority,
				StartsAt:          At(cursor.date, cursor.tod),
			}
			if parts > 1 {
				entry.Part = part
				entry.Parts = parts
			}
			entries = append(entries, entry)

			remaining -= dur

			tod, carry := AddMinutes(cursor.tod, dur+prefs.BreakMinutes)
			if carry > 0 {
				rollover()
			} else {
				cursor.tod = tod
			}
		}
	}

	return entries, nil
}

func indexOrID(t model.Task, i int) string {
	if t.ID != "" {
		return t.ID
	}
	return "#" + strconv.Itoa(i)
}
