package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"taskflow-api/internal/model"
)

type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

func (r *TaskRepository) Create(ctx context.Context, t model.Task) (model.Task, error) {
	var created model.Task
	err := r.pool.QueryRow(ctx,
		`INSERT INTO tasks (title, description, status, priority, due_date, user_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, title, description, status, priority, due_date, user_id, created_at, updated_at`,
		t.Title, t.Description, t.Status, t.Priority, t.DueDate, t.UserID).
		Scan(&created.ID, &created.Title, &created.Description, &created.Status,
			&created.Priority, &created.DueDate, &created.UserID, &created.CreatedAt, &created.UpdatedAt)

	if err != nil {
		return model.Task{}, fmt.Errorf("create task: %w", err)
	}
	return created, nil
}

// FindByID is scoped to the owning user; another user's task behaves as if
// it does not exist.
func (r *TaskRepository) FindByID(ctx context.Context, id int64, userID int64) (model.Task, error) {
	var t model.Task
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, description, status, priority, due_date, user_id, created_at, updated_at
		 FROM tasks WHERE id = $1 AND user_id = $2`, id, userID).
		Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority,
			&t.DueDate, &t.UserID, &t.CreatedAt, &t.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Task{}, model.ErrTaskNotFound
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("find task by id: %w", err)
	}
	return t, nil
}

func (r *TaskRepository) List(ctx context.Context, userID int64, filter model.TaskFilter) ([]model.Task, int, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, "status = $"+strconv.Itoa(len(args)))
	}
	if filter.Priority != "" {
		args = append(args, filter.Priority)
		where = append(where, "priority = $"+strconv.Itoa(len(args)))
	}

	clause := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM tasks WHERE `+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := `SELECT id, title, description, status, priority, due_date, user_id, created_at, updated_at
		 FROM tasks WHERE ` + clause +
		` ORDER BY created_at DESC, id DESC LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority,
			&t.DueDate, &t.UserID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, total, rows.Err()
}

func (r *TaskRepository) Update(ctx context.Context, t model.Task) (model.Task, error) {
	var updated model.Task
	err := r.pool.QueryRow(ctx,
		`UPDATE tasks
		 SET title = $3, description = $4, status = $5, priority = $6, due_date = $7, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING id, title, description, status, priority, due_date, user_id, created_at, updated_at`,
		t.ID, t.UserID, t.Title, t.Description, t.Status, t.Priority, t.DueDate).
		Scan(&updated.ID, &updated.Title, &updated.Description, &updated.Status,
			&updated.Priority, &updated.DueDate, &updated.UserID, &updated.CreatedAt, &updated.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Task{}, model.ErrTaskNotFound
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("update task: %w", err)
	}
	return updated, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id int64, userID int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTaskNotFound
	}
	return nil
}
