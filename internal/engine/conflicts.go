package engine

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/me/studyplan/internal/config"
	"github.com/me/studyplan/pkg/model"
)

// Candidate is a proposed placement to check against a day's existing
// commitments.
type Candidate struct {
	TaskID          string
	Date            string
	StartMinutes    int
	DurationMinutes int
}

// EndMinutes returns the candidate's end time of day (exclusive).
func (c Candidate) EndMinutes() int {
	return c.StartMinutes + c.DurationMinutes
}

// CheckResult is the outcome of a conflict check.
type CheckResult struct {
	Conflicts        []model.Conflict
	AlternativeSlots []int
}

// Check classifies the conflicts between a candidate placement and the
// existing blocks for that date. Cancelled blocks are ignored. Severity on
// each conflict is filled from the full conflict set, so a single call
// yields ready-to-rank output.
func Check(cand Candidate, blocks []model.TimeBlock, cfg config.EngineConfig) (CheckResult, error) {
	if cand.DurationMinutes <= 0 {
		return CheckResult{}, model.NewValidationError("candidate has no duration",
			model.FieldError{Field: "duration_minutes", Message: "must be positive"})
	}
	if cand.StartMinutes < 0 || cand.EndMinutes() > minutesPerDay {
		return CheckResult{}, model.NewValidationError("candidate does not fit inside one day",
			model.FieldError{Field: "start_minutes", Message: "placement must stay within 00:00-24:00"})
	}

	var conflicts []model.Conflict

	// Time conflicts: one per overlapping block.
	for _, b := range blocks {
		if !b.Type.Counts() {
			continue
		}
		if !Overlaps(cand.StartMinutes, cand.EndMinutes(), b.StartMinutes, b.EndMinutes()) {
			continue
		}
		participants := []string{cand.TaskID}
		if b.TaskID != "" && b.TaskID != cand.TaskID {
			participants = append(participants, b.TaskID)
		}
		conflicts = append(conflicts, model.Conflict{
			ID:                 "cf_" + uuid.New().String()[:8],
			Type:               model.ConflictTypeTime,
			ParticipantTaskIDs: participants,
			BlockIDs:           []string{b.ID},
			Description: fmt.Sprintf("overlaps existing %s block %s-%s",
				b.Type, ClockMinutes(b.StartMinutes), ClockMinutes(b.EndMinutes())),
		})
	}

	// Workload conflict: candidate plus committed minutes exceed capacity.
	committed := 0
	var over []string
	for _, b := range blocks {
		if !b.Type.Counts() {
			continue
		}
		committed += b.DurationMinutes
		over = append(over, b.ID)
	}
	if committed+cand.DurationMinutes > cfg.DailyCapacityMinutes {
		conflicts = append(conflicts, model.Conflict{
			ID:                 "cf_" + uuid.New().String()[:8],
			Type:               model.ConflictTypeWorkload,
			ParticipantTaskIDs: []string{cand.TaskID},
			BlockIDs:           over,
			Description: fmt.Sprintf("day total %d min exceeds capacity of %d min",
				committed+cand.DurationMinutes, cfg.DailyCapacityMinutes),
		})
	}

	severity := RankSeverity(conflicts)
	slots := alternativeSlots(cand, blocks, cfg)
	for i := range conflicts {
		conflicts[i].Severity = severity
		conflicts[i].AlternativeSlots = slots
	}

	return CheckResult{Conflicts: conflicts, AlternativeSlots: slots}, nil
}

// alternativeSlots scans the day in fixed-size steps and returns up to
// MaxAlternativeSlots start times whose windows fit the candidate without
// touching any existing block, ordered by proximity to the requested start.
func alternativeSlots(cand Candidate, blocks []model.TimeBlock, cfg config.EngineConfig) []int {
	var free []int
	for start := cfg.SlotScanStartMinutes; start+cand.DurationMinutes <= cfg.SlotScanEndMinutes; start += cfg.SlotStepMinutes {
		end := start + cand.DurationMinutes
		clear := true
		for _, b := range blocks {
			if !b.Type.Counts() {
				continue
			}
			if Overlaps(start, end, b.StartMinutes, b.EndMinutes()) {
				clear = false
				break
			}
		}
		if clear {
			free = append(free, start)
		}
	}

	sort.SliceStable(free, func(i, j int) bool {
		return abs(free[i]-cand.StartMinutes) < abs(free[j]-cand.StartMinutes)
	})

	if len(free) > cfg.MaxAlternativeSlots {
		free = free[:cfg.MaxAlternativeSlots]
	}
	return free
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
