package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow-api/internal/model"
)

type memoryTaskStore struct {
	mu     sync.Mutex
	nextID int64
	tasks  map[int64]model.Task
}

func newMemoryTaskStore() *memoryTaskStore {
	return &memoryTaskStore{tasks: map[int64]model.Task{}}
}

func (s *memoryTaskStore) Create(_ context.Context, t model.Task) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	now := time.Now().UTC()
	t.ID = s.nextID
	t.CreatedAt = now
	t.UpdatedAt = now
	s.tasks[t.ID] = t
	return t, nil
}

func (s *memoryTaskStore) FindByID(_ context.Context, id int64, userID int64) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok || t.UserID != userID {
		return model.Task{}, model.ErrTaskNotFound
	}
	return t, nil
}

func (s *memoryTaskStore) List(_ context.Context, userID int64, filter model.TaskFilter) ([]model.Task, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]model.Task, 0)
	for _, t := range s.tasks {
		if t.UserID != userID {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && t.Priority != filter.Priority {
			continue
		}
		matched = append(matched, t)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := len(matched)
	start := (filter.Page - 1) * filter.Limit
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (s *memoryTaskStore) Update(_ context.Context, t model.Task) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.tasks[t.ID]
	if !ok || existing.UserID != t.UserID {
		return model.Task{}, model.ErrTaskNotFound
	}

	t.UpdatedAt = time.Now().UTC()
	s.tasks[t.ID] = t
	return t, nil
}

func (s *memoryTaskStore) Delete(_ context.Context, id int64, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok || t.UserID != userID {
		return model.ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}

func TestTaskService_Create_Defaults(t *testing.T) {
	svc := NewTaskService(newMemoryTaskStore())
	ctx := context.Background()

	task, err := svc.Create(ctx, 1, model.CreateTaskRequest{Title: "  Buy groceries  "})
	require.NoError(t, err)

	assert.Equal(t, "Buy groceries", task.Title)
	assert.Equal(t, model.TaskStatusTodo, task.Status)
	assert.Equal(t, model.TaskPriorityMedium, task.Priority)
	assert.Equal(t, int64(1), task.UserID)
	assert.Nil(t, task.Description)
	assert.Nil(t, task.DueDate)
}

func TestTaskService_Create_Validation(t *testing.T) {
	svc := NewTaskService(newMemoryTaskStore())
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, model.CreateTaskRequest{Title: "   "})
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = svc.Create(ctx, 1, model.CreateTaskRequest{Title: strings.Repeat("x", 201)})
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = svc.Create(ctx, 1, model.CreateTaskRequest{Title: "ok", Status: "archived"})
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = svc.Create(ctx, 1, model.CreateTaskRequest{Title: "ok", Priority: "urgent"})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestTaskService_OwnerScoping(t *testing.T) {
	svc := NewTaskService(newMemoryTaskStore())
	ctx := context.Background()

	task, err := svc.Create(ctx, 1, model.CreateTaskRequest{Title: "mine"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, 2, task.ID)
	assert.ErrorIs(t, err, model.ErrTaskNotFound)

	status := "done"
	_, err = svc.Update(ctx, 2, task.ID, model.UpdateTaskRequest{Status: &status})
	assert.ErrorIs(t, err, model.ErrTaskNotFound)

	err = svc.Delete(ctx, 2, task.ID)
	assert.ErrorIs(t, err, model.ErrTaskNotFound)

	got, err := svc.Get(ctx, 1, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "mine", got.Title)
}

func TestTaskService_Update_Partial(t *testing.T) {
	svc := NewTaskService(newMemoryTaskStore())
	ctx := context.Background()

	task, err := svc.Create(ctx, 1, model.CreateTaskRequest{Title: "write report", Priority: "high"})
	require.NoError(t, err)

	status := "in_progress"
	updated, err := svc.Update(ctx, 1, task.ID, model.UpdateTaskRequest{Status: &status})
	require.NoError(t, err)

	assert.Equal(t, model.TaskStatusInProgress, updated.Status)
	assert.Equal(t, "write report", updated.Title)
	assert.Equal(t, model.TaskPriorityHigh, updated.Priority)

	bad := "blocked"
	_, err = svc.Update(ctx, 1, task.ID, model.UpdateTaskRequest{Status: &bad})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestTaskService_List_FiltersAndPagination(t *testing.T) {
	svc := NewTaskService(newMemoryTaskStore())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, 1, model.CreateTaskRequest{Title: "todo task", Status: "todo"})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, 1, model.CreateTaskRequest{Title: "done task", Status: "done"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, 2, model.CreateTaskRequest{Title: "other user"})
	require.NoError(t, err)

	tasks, meta, err := svc.List(ctx, 1, "todo", "", 1, 2)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
	assert.Equal(t, 3, meta.Total)
	assert.Equal(t, 2, meta.TotalPages)
	assert.Equal(t, 1, meta.Page)

	tasks, meta, err = svc.List(ctx, 1, "", "", 0, 0)
	require.NoError(t, err)
	assert.Len(t, tasks, 4, "defaults applied, other user's task excluded")
	assert.Equal(t, 4, meta.Total)

	_, _, err = svc.List(ctx, 1, "archived", "", 1, 10)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}
