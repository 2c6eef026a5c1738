package store

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/me/studyplan/pkg/model"
)

func testStore(t *testing.T) *SQLiteStore {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
	st, err := NewSQLiteStore(":memory:", logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return st
}

func sampleTask(id string) *model.Task {
	now := time.Now().UTC()
	return &model.Task{
		ID:               id,
		Title:            "Exam prep",
		Subject:          "math",
		Priority:         4,
		Deadline:         "2024-05-10",
		EstimatedMinutes: 120,
		Status:           model.TaskStatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func sampleBlock(id, date string, start, dur int) *model.TimeBlock {
	return &model.TimeBlock{
		ID:              id,
		Date:            date,
		StartMinutes:    start,
		DurationMinutes: dur,
		Type:            model.BlockTypeStudy,
		Title:           "Study session",
		CreatedAt:       time.Now().UTC(),
	}
}

func TestTaskCRUD(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	task := sampleTask("task_1")
	if err := st.CreateTask(ctx, task); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := st.GetTask(ctx, "task_1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("get: task is nil")
	}
	if got.Title != "Exam prep" || got.Priority != 4 || got.EstimatedMinutes != 120 {
		t.Errorf("got %+v", got)
	}
	if got.Status != model.TaskStatusPending {
		t.Errorf("status = %q, want pending", got.Status)
	}

	got.Status = model.TaskStatusScheduled
	got.Priority = 5
	got.UpdatedAt = time.Now().UTC()
	if err := st.UpdateTask(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}

	updated, _ := st.GetTask(ctx, "task_1")
	if updated.Status != model.TaskStatusScheduled || updated.Priority != 5 {
		t.Errorf("after update: %+v", updated)
	}

	if err := st.DeleteTask(ctx, "task_1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	gone, _ := st.GetTask(ctx, "task_1")
	if gone != nil {
		t.Error("task still present after delete")
	}
}

func TestGetTask_Missing(t *testing.T) {
	st := testStore(t)
	got, err := st.GetTask(context.Background(), "task_missing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("got %+v, want nil", got)
	}
}

func TestListTasks_StatusFilterAndOrder(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	low := sampleTask("task_low")
	low.Priority = 2
	high := sampleTask("task_high")
	high.Priority = 5
	done := sampleTask("task_done")
	done.Status = model.TaskStatusCompleted

	for _, task := range []*model.Task{low, high, done} {
		if err := st.CreateTask(ctx, task); err != nil {
			t.Fatalf("create %s: %v", task.ID, err)
		}
	}

	tasks, total, err := st.ListTasks(ctx, model.ListOptions{Status: "pending"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(tasks) != 2 {
		t.Fatalf("total = %d, len = %d, want 2, 2", total, len(tasks))
	}
	if tasks[0].ID != "task_high" {
		t.Errorf("first task = %s, want task_high (priority order)", tasks[0].ID)
	}
}

func TestTimeBlockCRUD(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	block := sampleBlock("blk_1", "2024-05-01", 600, 60)
	if err := st.CreateTimeBlock(ctx, block); err != nil {
		t.Fatalf("create: %v", err)
	}

	blocks, err := st.ListTimeBlocksByDate(ctx, "2024-05-01")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(blocks) != 1 || blocks[0].ID != "blk_1" {
		t.Fatalf("blocks = %+v", blocks)
	}
	if blocks[0].EndMinutes() != 660 {
		t.Errorf("EndMinutes = %d, want 660", blocks[0].EndMinutes())
	}

	other, err := st.ListTimeBlocksByDate(ctx, "2024-05-02")
	if err != nil {
		t.Fatalf("list other date: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("other date has %d blocks, want 0", len(other))
	}

	if err := st.DeleteTimeBlock(ctx, "blk_1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestListTimeBlocksByDate_Ordered(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	st.CreateTimeBlock(ctx, sampleBlock("blk_b", "2024-05-01", 840, 30))
	st.CreateTimeBlock(ctx, sampleBlock("blk_a", "2024-05-01", 540, 60))

	blocks, err := st.ListTimeBlocksByDate(ctx, "2024-05-01")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(blocks) != 2 || blocks[0].ID != "blk_a" || blocks[1].ID != "blk_b" {
		t.Errorf("blocks not ordered by start: %v, %v", blocks[0].ID, blocks[1].ID)
	}
}

func TestMoveTimeBlock(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	st.CreateTimeBlock(ctx, sampleBlock("blk_1", "2024-05-01", 600, 60))

	moved, err := st.MoveTimeBlock(ctx, "blk_1", 720)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if moved.StartMinutes != 720 || moved.EndMinutes() != 780 {
		t.Errorf("moved = [%d, %d), want [720, 780)", moved.StartMinutes, moved.EndMinutes())
	}

	// Persisted, not just returned.
	got, _ := st.GetTimeBlock(ctx, "blk_1")
	if got.StartMinutes != 720 {
		t.Errorf("persisted start = %d, want 720", got.StartMinutes)
	}
}

func TestMoveTimeBlock_RejectsMidnightCrossing(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	st.CreateTimeBlock(ctx, sampleBlock("blk_1", "2024-05-01", 600, 90))

	if _, err := st.MoveTimeBlock(ctx, "blk_1", 23*60+30); err == nil {
		t.Error("move crossing midnight: want error, got nil")
	}
	// Block unchanged on failure.
	got, _ := st.GetTimeBlock(ctx, "blk_1")
	if got.StartMinutes != 600 {
		t.Errorf("start = %d, want unchanged 600", got.StartMinutes)
	}
}

func TestMoveTimeBlock_Missing(t *testing.T) {
	st := testStore(t)
	if _, err := st.MoveTimeBlock(context.Background(), "blk_missing", 600); err == nil {
		t.Error("move missing block: want error, got nil")
	}
}

func TestCreateTimeBlock_Invalid(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	bad := sampleBlock("blk_neg", "2024-05-01", 600, 0)
	if err := st.CreateTimeBlock(ctx, bad); err == nil {
		t.Error("zero duration: want error, got nil")
	}

	cross := sampleBlock("blk_cross", "2024-05-01", 23*60+30, 60)
	if err := st.CreateTimeBlock(ctx, cross); err == nil {
		t.Error("midnight crossing: want error, got nil")
	}
}
