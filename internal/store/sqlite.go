package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/me/studyplan/pkg/model"

	_ "modernc.org/sqlite"
)

const minutesPerDay = 24 * 60

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and returns
// a Store. Use ":memory:" for an in-memory database (useful in tests).
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger.With("component", "store"),
	}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate creates all required tables and indexes.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	s.logger.Debug("sql", "op", "migrate")
	return migrate(ctx, s.db)
}

// --- Task CRUD ---

func (s *SQLiteStore) CreateTask(ctx context.Context, task *model.Task) error {
	s.logger.Debug("sql", "op", "insert", "table", "tasks", "id", task.ID)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (id, title, subject, priority, deadline, estimated_minutes, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.Title, task.Subject, task.Priority, task.Deadline,
		task.EstimatedMinutes, string(task.Status),
		task.CreatedAt.Format(time.RFC3339Nano), task.UpdatedAt.Format(time.RFC3339Nano),
	)
	return err
}

func (s *SQLiteStore) GetTask(ctx context.Context, id string) (*model.Task, error) {
	s.logger.Debug("sql", "op", "select", "table", "tasks", "id", id)

	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, subject, priority, deadline, estimated_minutes, status, created_at, updated_at
		 FROM tasks WHERE id = ?`, id)

	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *SQLiteStore) ListTasks(ctx context.Context, opts model.ListOptions) ([]*model.Task, int, error) {
	s.logger.Debug("sql", "op", "list", "table", "tasks", "limit", opts.Limit, "offset", opts.Offset)
	opts.Clamp()

	where := ""
	args := []any{}
	if opts.Status != "" {
		where = " WHERE status = ?"
		args = append(args, opts.Status)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, opts.Limit, opts.Offset)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, subject, priority, deadline, estimated_minutes, status, created_at, updated_at
		 FROM tasks`+where+` ORDER BY priority DESC, deadline ASC, created_at ASC LIMIT ? OFFSET ?`,
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var tasks []*model.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, task)
	}
	return tasks, total, rows.Err()
}

func (s *SQLiteStore) UpdateTask(ctx context.Context, task *model.Task) error {
	s.logger.Debug("sql", "op", "update", "table", "tasks", "id", task.ID)

	result, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET title=?, subject=?, priority=?, deadline=?, estimated_minutes=?, status=?, updated_at=?
		 WHERE id=?`,
		task.Title, task.Subject, task.Priority, task.Deadline,
		task.EstimatedMinutes, string(task.Status),
		task.UpdatedAt.Format(time.RFC3339Nano), task.ID,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("task %s not found", task.ID)
	}
	return nil
}

func (s *SQLiteStore) DeleteTask(ctx context.Context, id string) error {
	s.logger.Debug("sql", "op", "delete", "table", "tasks", "id", id)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("task %s not found", id)
	}
	return nil
}

// --- TimeBlock CRUD ---

func (s *SQLiteStore) CreateTimeBlock(ctx context.Context, block *model.TimeBlock) error {
	s.logger.Debug("sql", "op", "insert", "table", "time_blocks", "id", block.ID)

	if block.DurationMinutes <= 0 {
		return fmt.Errorf("time block %s: duration must be positive", block.ID)
	}
	if block.StartMinutes < 0 || block.StartMinutes+block.DurationMinutes > minutesPerDay {
		return fmt.Errorf("time block %s: must not cross midnight", block.ID)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO time_blocks (id, task_id, date, start_minutes, duration_minutes, type, title, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		block.ID, block.TaskID, block.Date, block.StartMinutes, block.DurationMinutes,
		string(block.Type), block.Title, block.CreatedAt.Format(time.RFC3339Nano),
	)
	return err
}

func (s *SQLiteStore) GetTimeBlock(ctx context.Context, id string) (*model.TimeBlock, error) {
	s.logger.Debug("sql", "op", "select", "table", "time_blocks", "id", id)

	row := s.db.QueryRowContext(ctx,
		`SELECT id, task_id, date, start_minutes, duration_minutes, type, title, created_at
		 FROM time_blocks WHERE id = ?`, id)

	block, err := scanTimeBlock(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return block, nil
}

func (s *SQLiteStore) ListTimeBlocksByDate(ctx context.Context, date string) ([]*model.TimeBlock, error) {
	s.logger.Debug("sql", "op", "list_by_date", "table", "time_blocks", "date", date)

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, task_id, date, start_minutes, duration_minutes, type, title, created_at
		 FROM time_blocks WHERE date = ? ORDER BY start_minutes ASC`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blocks []*model.TimeBlock
	for rows.Next() {
		block, err := scanTimeBlock(rows)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}
	return blocks, rows.Err()
}

func (s *SQLiteStore) UpdateTimeBlock(ctx context.Context, block *model.TimeBlock) error {
	s.logger.Debug("sql", "op", "update", "table", "time_blocks", "id", block.ID)

	result, err := s.db.ExecContext(ctx,
		`UPDATE time_blocks SET task_id=?, date=?, start_minutes=?, duration_minutes=?, type=?, title=?
		 WHERE id=?`,
		block.TaskID, block.Date, block.StartMinutes, block.DurationMinutes,
		string(block.Type), block.Title, block.ID,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("time block %s not found", block.ID)
	}
	return nil
}

func (s *SQLiteStore) MoveTimeBlock(ctx context.Context, id string, newStartMinutes int) (*model.TimeBlock, error) {
	s.logger.Debug("sql", "op", "move", "table", "time_blocks", "id", id, "start", newStartMinutes)

	block, err := s.GetTimeBlock(ctx, id)
	if err != nil {
		return nil, err
	}
	if block == nil {
		return nil, fmt.Errorf("time block %s not found", id)
	}
	if newStartMinutes < 0 || newStartMinutes+block.DurationMinutes > minutesPerDay {
		return nil, fmt.Errorf("time block %s: move to %d would cross midnight", id, newStartMinutes)
	}

	block.StartMinutes = newStartMinutes
	if err := s.UpdateTimeBlock(ctx, block); err != nil {
		return nil, err
	}
	return block, nil
}

func (s *SQLiteStore) DeleteTimeBlock(ctx context.Context, id string) error {
	s.logger.Debug("sql", "op", "delete", "table", "time_blocks", "id", id)

	result, err := s.db.ExecContext(ctx, `DELETE FROM time_blocks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("time block %s not found", id)
	}
	return nil
}

// --- scan helpers ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*model.Task, error) {
	var task model.Task
	var status, createdAt, updatedAt string

	if err := row.Scan(
		&task.ID, &task.Title, &task.Subject, &task.Priority, &task.Deadline,
		&task.EstimatedMinutes, &status, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	task.Status = model.TaskStatus(status)
	task.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	task.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return &task, nil
}

func scanTimeBlock(row rowScanner) (*model.TimeBlock, error) {
	var block model.TimeBlock
	var typ, createdAt string

	if err := row.Scan(
		&block.ID, &block.TaskID, &block.Date, &block.StartMinutes,
		&block.DurationMinutes, &typ, &block.Title, &createdAt,
	); err != nil {
		return nil, err
	}

	block.Type = model.BlockType(typ)
	block.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return &block, nil
}
