package scheduler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/me/studyplan/internal/config"
	"github.com/me/studyplan/internal/engine"
	"github.com/me/studyplan/internal/store"
	"github.com/me/studyplan/pkg/model"
)

var fixedNow = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testService(t *testing.T) (*Service, store.Store) {
	t.Helper()
	st, err := store.NewSQLiteStore(":memory:", testLogger())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	svc := NewService(st, config.DefaultEngineConfig(), testLogger(),
		WithClock(func() time.Time { return fixedNow }))
	return svc, st
}

func createTask(t *testing.T, st store.Store, id string, priority, estimate int, deadline string) {
	t.Helper()
	err := st.CreateTask(context.Background(), &model.Task{
		ID:               id,
		Title:            "Task " + id,
		Priority:         priority,
		Deadline:         deadline,
		EstimatedMinutes: estimate,
		Status:           model.TaskStatusPending,
		CreatedAt:        fixedNow,
		UpdatedAt:        fixedNow,
	})
	if err != nil {
		t.Fatalf("create task %s: %v", id, err)
	}
}

func createBlock(t *testing.T, st store.Store, id, taskID, date string, start, dur int) {
	t.Helper()
	err := st.CreateTimeBlock(context.Background(), &model.TimeBlock{
		ID:              id,
		TaskID:          taskID,
		Date:            date,
		StartMinutes:    start,
		DurationMinutes: dur,
		Type:            model.BlockTypeStudy,
		CreatedAt:       fixedNow,
	})
	if err != nil {
		t.Fatalf("create block %s: %v", id, err)
	}
}

func TestAutoSchedule(t *testing.T) {
	svc, st := testService(t)
	ctx := context.Background()

	createTask(t, st, "task_exam", 5, 60, "2024-05-02")
	createTask(t, st, "task_read", 3, 30, "")

	result, err := svc.AutoSchedule(ctx, []string{"task_read", "task_exam"}, model.SchedulingPreferences{})
	if err != nil {
		t.Fatalf("auto schedule: %v", err)
	}
	if len(result.Schedule) != 2 {
		t.Fatalf("schedule = %d entries, want 2", len(result.Schedule))
	}
	if result.Schedule[0].TaskID != "task_exam" {
		t.Errorf("first entry = %s, want task_exam (priority order)", result.Schedule[0].TaskID)
	}
	if result.Schedule[0].Date != "2024-05-01" || result.Schedule[0].StartMinutes != 9*60 {
		t.Errorf("first entry at %s/%d, want 2024-05-01/540", result.Schedule[0].Date, result.Schedule[0].StartMinutes)
	}
	if result.Insights == nil || result.Insights.TotalMinutes != 90 {
		t.Errorf("insights = %+v, want total 90", result.Insights)
	}
	if result.Message == "" {
		t.Error("message is empty")
	}
}

func TestAutoSchedule_EmptySelection(t *testing.T) {
	svc, _ := testService(t)
	if _, err := svc.AutoSchedule(context.Background(), nil, model.SchedulingPreferences{}); err == nil {
		t.Fatal("want validation error for empty selection")
	}
}

func TestAutoSchedule_UnknownTask(t *testing.T) {
	svc, _ := testService(t)
	_, err := svc.AutoSchedule(context.Background(), []string{"task_ghost"}, model.SchedulingPreferences{})
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrNotFound {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
}

func TestCommitSchedule(t *testing.T) {
	svc, st := testService(t)
	ctx := context.Background()

	createTask(t, st, "task_a", 3, 60, "")
	entries := []model.ScheduleEntry{
		{TaskID: "task_a", Title: "Task task_a", Date: "2024-05-01", StartMinutes: 540, DurationMinutes: 60},
	}

	blocks, err := svc.CommitSchedule(ctx, entries)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("blocks = %d, want 1", len(blocks))
	}

	persisted, _ := st.ListTimeBlocksByDate(ctx, "2024-05-01")
	if len(persisted) != 1 {
		t.Fatalf("persisted = %d, want 1", len(persisted))
	}

	task, _ := st.GetTask(ctx, "task_a")
	if task.Status != model.TaskStatusScheduled {
		t.Errorf("task status = %q, want scheduled", task.Status)
	}
}

func TestCommitSchedule_RollbackOnFailure(t *testing.T) {
	svc, st := testService(t)
	ctx := context.Background()

	entries := []model.ScheduleEntry{
		{TaskID: "task_a", Date: "2024-05-01", StartMinutes: 540, DurationMinutes: 60},
		// Crosses midnight: the store rejects it.
		{TaskID: "task_a", Date: "2024-05-01", StartMinutes: 23*60 + 30, DurationMinutes: 60},
	}

	if _, err := svc.CommitSchedule(ctx, entries); err == nil {
		t.Fatal("want error from invalid entry")
	}

	persisted, _ := st.ListTimeBlocksByDate(ctx, "2024-05-01")
	if len(persisted) != 0 {
		t.Errorf("persisted = %d blocks after failed commit, want 0 (no partial state)", len(persisted))
	}
}

func TestCheckConflicts_TimeConflict(t *testing.T) {
	svc, st := testService(t)
	ctx := context.Background()

	createBlock(t, st, "blk_1", "task_b", "2024-05-01", 600, 60)

	result, err := svc.CheckConflicts(ctx, "task_a", "2024-05-01", 600, 60)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !result.HasConflicts || len(result.Conflicts) != 1 {
		t.Fatalf("result = %+v, want one conflict", result)
	}
	if result.Conflicts[0].Type != model.ConflictTypeTime || result.Conflicts[0].Severity != model.SeverityHigh {
		t.Errorf("conflict = %+v, want high time_conflict", result.Conflicts[0])
	}
	if len(result.AlternativeSlots) == 0 {
		t.Error("want alternative slots")
	}
}

func TestCheckConflicts_CleanDay(t *testing.T) {
	svc, _ := testService(t)
	result, err := svc.CheckConflicts(context.Background(), "task_a", "2024-05-01", 600, 60)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if result.HasConflicts {
		t.Errorf("conflicts on an empty day: %+v", result.Conflicts)
	}
	if result.Conflicts == nil || result.AlternativeSlots == nil {
		t.Error("slices must be non-nil for JSON clients")
	}
}

func TestCheckConflicts_InvalidDate(t *testing.T) {
	svc, _ := testService(t)
	if _, err := svc.CheckConflicts(context.Background(), "task_a", "05/01/2024", 600, 60); err == nil {
		t.Fatal("want validation error for malformed date")
	}
}

// failingStore simulates an unreadable calendar store.
type failingStore struct {
	store.Store
}

func (f *failingStore) ListTimeBlocksByDate(ctx context.Context, date string) ([]*model.TimeBlock, error) {
	return nil, errors.New("disk on fire")
}

func TestCheckConflicts_StoreFailureReportsNoConflicts(t *testing.T) {
	_, st := testService(t)
	svc := NewService(&failingStore{Store: st}, config.DefaultEngineConfig(), testLogger(),
		WithClock(func() time.Time { return fixedNow }))

	result, err := svc.CheckConflicts(context.Background(), "task_a", "2024-05-01", 600, 60)
	if err != nil {
		t.Fatalf("check must degrade, not fail: %v", err)
	}
	if result.HasConflicts {
		t.Errorf("under-reporting expected on store failure, got %+v", result)
	}
}

func TestResolveConflict_RescheduleFirst(t *testing.T) {
	svc, st := testService(t)
	ctx := context.Background()

	createTask(t, st, "task_a", 4, 60, "")
	createBlock(t, st, "blk_1", "task_b", "2024-05-01", 600, 60)

	check, err := svc.CheckConflicts(ctx, "task_a", "2024-05-01", 600, 60)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	conflictID := check.Conflicts[0].ID

	result, err := svc.ResolveConflict(ctx, conflictID, model.ActionRescheduleFirst)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !result.Success || len(result.UpdatedBlocks) != 1 {
		t.Fatalf("result = %+v", result)
	}
	placed := result.UpdatedBlocks[0]
	if placed.StartMinutes != check.AlternativeSlots[0] {
		t.Errorf("placed at %d, want first alternative %d", placed.StartMinutes, check.AlternativeSlots[0])
	}

	// The conflict is consumed.
	if _, err := svc.ResolveConflict(ctx, conflictID, model.ActionRescheduleFirst); err == nil {
		t.Error("second resolve of same conflict: want NOT_FOUND")
	}
}

func TestResolveConflict_RescheduleSecond(t *testing.T) {
	svc, st := testService(t)
	ctx := context.Background()

	createTask(t, st, "task_a", 4, 60, "")
	createBlock(t, st, "blk_1", "task_b", "2024-05-01", 600, 60)

	check, _ := svc.CheckConflicts(ctx, "task_a", "2024-05-01", 600, 60)
	result, err := svc.ResolveConflict(ctx, check.Conflicts[0].ID, model.ActionRescheduleSecond)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	moved, _ := st.GetTimeBlock(ctx, "blk_1")
	if moved.StartMinutes == 600 {
		t.Error("existing block was not moved")
	}
	if len(result.UpdatedBlocks) != 1 || result.UpdatedBlocks[0].ID != "blk_1" {
		t.Errorf("result = %+v", result)
	}
}

func TestResolveConflict_SplitTasks(t *testing.T) {
	svc, st := testService(t)
	ctx := context.Background()

	createTask(t, st, "task_a", 4, 125, "")
	createBlock(t, st, "blk_1", "task_b", "2024-05-01", 600, 60)

	check, _ := svc.CheckConflicts(ctx, "task_a", "2024-05-01", 600, 125)
	result, err := svc.ResolveConflict(ctx, check.Conflicts[0].ID, model.ActionSplitTasks)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(result.UpdatedTasks) != 2 {
		t.Fatalf("updated tasks = %d, want 2", len(result.UpdatedTasks))
	}
	sum := result.UpdatedTasks[0].EstimatedMinutes + result.UpdatedTasks[1].EstimatedMinutes
	if sum != 125 {
		t.Errorf("halves sum to %d, want 125", sum)
	}
}

func TestResolveConflict_ExtendDeadline(t *testing.T) {
	svc, st := testService(t)
	ctx := context.Background()

	createTask(t, st, "task_a", 4, 120, "2024-05-03")
	// Fill the day past capacity.
	createBlock(t, st, "blk_1", "task_b", "2024-05-01", 360, 240)
	createBlock(t, st, "blk_2", "task_c", "2024-05-01", 620, 240)

	check, _ := svc.CheckConflicts(ctx, "task_a", "2024-05-01", 880, 120)
	var workload *model.Conflict
	for i := range check.Conflicts {
		if check.Conflicts[i].Type == model.ConflictTypeWorkload {
			workload = &check.Conflicts[i]
		}
	}
	if workload == nil {
		t.Fatalf("no workload conflict in %+v", check.Conflicts)
	}

	result, err := svc.ResolveConflict(ctx, workload.ID, model.ActionExtendDeadline)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if result.UpdatedTasks[0].Deadline != "2024-05-04" {
		t.Errorf("deadline = %s, want 2024-05-04", result.UpdatedTasks[0].Deadline)
	}
}

// putConflict seeds the cache directly so options outside the detector's
// normal output can be exercised.
func putConflict(svc *Service, c model.Conflict, cand engine.Candidate) {
	svc.conflicts.put(c, cand)
}

func TestResolveConflict_SequentialPlacement(t *testing.T) {
	svc, st := testService(t)
	ctx := context.Background()

	createTask(t, st, "task_a", 4, 60, "")
	createBlock(t, st, "blk_anchor", "task_b", "2024-05-01", 600, 60)

	putConflict(svc, model.Conflict{
		ID:               "cf_seq",
		Type:             model.ConflictTypePriority,
		Severity:         model.SeverityLow,
		BlockIDs:         []string{"blk_anchor"},
		AlternativeSlots: []int{540},
	}, engine.Candidate{TaskID: "task_a", Date: "2024-05-01", StartMinutes: 600, DurationMinutes: 60})

	result, err := svc.ResolveConflict(ctx, "cf_seq", model.ActionSequential)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if result.UpdatedBlocks[0].StartMinutes != 660 {
		t.Errorf("placed at %d, want 660 (right after the anchor)", result.UpdatedBlocks[0].StartMinutes)
	}
}

func TestResolveConflict_SequentialAvoidsOccupiedSlot(t *testing.T) {
	svc, st := testService(t)
	ctx := context.Background()

	createTask(t, st, "task_a", 4, 60, "")
	createBlock(t, st, "blk_anchor", "task_b", "2024-05-01", 600, 60)
	// Occupies the slot right after the anchor.
	createBlock(t, st, "blk_next", "task_c", "2024-05-01", 660, 60)

	putConflict(svc, model.Conflict{
		ID:               "cf_seq",
		Type:             model.ConflictTypePriority,
		Severity:         model.SeverityLow,
		BlockIDs:         []string{"blk_anchor"},
		AlternativeSlots: []int{540},
	}, engine.Candidate{TaskID: "task_a", Date: "2024-05-01", StartMinutes: 600, DurationMinutes: 60})

	result, err := svc.ResolveConflict(ctx, "cf_seq", model.ActionSequential)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	placed := result.UpdatedBlocks[0]
	if placed.StartMinutes != 540 {
		t.Errorf("placed at %d, want fallback slot 540", placed.StartMinutes)
	}
	if engine.Overlaps(placed.StartMinutes, placed.EndMinutes(), 660, 720) {
		t.Error("sequential placement overlaps an existing block")
	}
}

func TestResolveConflict_OptionNotApplicable(t *testing.T) {
	svc, st := testService(t)
	ctx := context.Background()

	createTask(t, st, "task_a", 4, 60, "")
	createBlock(t, st, "blk_1", "task_b", "2024-05-01", 600, 60)

	check, _ := svc.CheckConflicts(ctx, "task_a", "2024-05-01", 600, 60)
	// extend_deadline belongs to workload conflicts, not time conflicts.
	_, err := svc.ResolveConflict(ctx, check.Conflicts[0].ID, model.ActionExtendDeadline)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrValidation {
		t.Fatalf("err = %v, want VALIDATION_ERROR", err)
	}
}

func TestResolveConflict_UnknownConflict(t *testing.T) {
	svc, _ := testService(t)
	_, err := svc.ResolveConflict(context.Background(), "cf_ghost", model.ActionRescheduleFirst)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrNotFound {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
}

func TestResolutionOptions(t *testing.T) {
	svc, st := testService(t)
	ctx := context.Background()

	createTask(t, st, "task_a", 4, 60, "")
	createBlock(t, st, "blk_1", "task_b", "2024-05-01", 600, 60)

	check, _ := svc.CheckConflicts(ctx, "task_a", "2024-05-01", 600, 60)
	opts, err := svc.ResolutionOptions(check.Conflicts[0].ID)
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if len(opts) != 3 {
		t.Errorf("options = %d, want 3 for time conflict", len(opts))
	}
}

func TestConflictCache_Expiry(t *testing.T) {
	st, err := store.NewSQLiteStore(":memory:", testLogger())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	current := fixedNow
	cfg := config.DefaultEngineConfig()
	cfg.ConflictTTLSeconds = 60
	svc := NewService(st, cfg, testLogger(), WithClock(func() time.Time { return current }))

	createBlock(t, st, "blk_1", "task_b", "2024-05-01", 600, 60)
	check, _ := svc.CheckConflicts(context.Background(), "task_a", "2024-05-01", 600, 60)

	current = current.Add(2 * time.Minute)
	_, err = svc.ResolveConflict(context.Background(), check.Conflicts[0].ID, model.ActionRescheduleFirst)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrNotFound {
		t.Fatalf("err = %v, want NOT_FOUND after TTL expiry", err)
	}
}
