package service

import (
	"context"
	"fmt"
	"strings"

	"taskflow-api/internal/model"
)

const (
	defaultTaskPageLimit = 20
	maxTaskPageLimit     = 100
)

type TaskStore interface {
	Create(ctx context.Context, t model.Task) (model.Task, error)
	FindByID(ctx context.Context, id int64, userID int64) (model.Task, error)
	List(ctx context.Context, userID int64, filter model.TaskFilter) ([]model.Task, int, error)
	Update(ctx context.Context, t model.Task) (model.Task, error)
	Delete(ctx context.Context, id int64, userID int64) error
}

// TaskService owns task validation and ownership scoping. Every operation is
// bound to the authenticated user's id; other users' tasks are invisible.
type TaskService struct {
	tasks TaskStore
}

func NewTaskService(tasks TaskStore) *TaskService {
	return &TaskService{tasks: tasks}
}

func (s *TaskService) Create(ctx context.Context, userID int64, req model.CreateTaskRequest) (model.Task, error) {
	title, err := validateTitle(req.Title)
	if err != nil {
		return model.Task{}, err
	}

	status := model.TaskStatusTodo
	if strings.TrimSpace(req.Status) != "" {
		if status, err = model.ParseTaskStatus(req.Status); err != nil {
			return model.Task{}, err
		}
	}

	priority := model.TaskPriorityMedium
	if strings.TrimSpace(req.Priority) != "" {
		if priority, err = model.ParseTaskPriority(req.Priority); err != nil {
			return model.Task{}, err
		}
	}

	return s.tasks.Create(ctx, model.Task{
		Title:       title,
		Description: req.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     req.DueDate,
		UserID:      userID,
	})
}

func (s *TaskService) Get(ctx context.Context, userID int64, taskID int64) (model.Task, error) {
	return s.tasks.FindByID(ctx, taskID, userID)
}

func (s *TaskService) List(ctx context.Context, userID int64, statusRaw string, priorityRaw string, page int, limit int) ([]model.Task, model.Meta, error) {
	filter := model.TaskFilter{Page: page, Limit: limit}

	if strings.TrimSpace(statusRaw) != "" {
		status, err := model.ParseTaskStatus(statusRaw)
		if err != nil {
			return nil, model.Meta{}, err
		}
		filter.Status = status
	}

	if strings.TrimSpace(priorityRaw) != "" {
		priority, err := model.ParseTaskPriority(priorityRaw)
		if err != nil {
			return nil, model.Meta{}, err
		}
		filter.Priority = priority
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultTaskPageLimit
	}
	if filter.Limit > maxTaskPageLimit {
		filter.Limit = maxTaskPageLimit
	}

	tasks, total, err := s.tasks.List(ctx, userID, filter)
	if err != nil {
		return nil, model.Meta{}, err
	}

	totalPages := total / filter.Limit
	if total%filter.Limit != 0 {
		totalPages++
	}

	meta := model.Meta{
		Page:       filter.Page,
		Limit:      filter.Limit,
		Total:      total,
		TotalPages: totalPages,
	}
	return tasks, meta, nil
}

func (s *TaskService) Update(ctx context.Context, userID int64, taskID int64, req model.UpdateTaskRequest) (model.Task, error) {
	task, err := s.tasks.FindByID(ctx, taskID, userID)
	if err != nil {
		return model.Task{}, err
	}

	if req.Title != nil {
		title, err := validateTitle(*req.Title)
		if err != nil {
			return model.Task{}, err
		}
		task.Title = title
	}

	if req.Description != nil {
		task.Description = req.Description
	}

	if req.Status != nil {
		status, err := model.ParseTaskStatus(*req.Status)
		if err != nil {
			return model.Task{}, err
		}
		task.Status = status
	}

	if req.Priority != nil {
		priority, err := model.ParseTaskPriority(*req.Priority)
		if err != nil {
			return model.Task{}, err
		}
		task.Priority = priority
	}

	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}

	return s.tasks.Update(ctx, task)
}

func (s *TaskService) Delete(ctx context.Context, userID int64, taskID int64) error {
	return s.tasks.Delete(ctx, taskID, userID)
}

func validateTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", fmt.Errorf("%w: title is required", model.ErrInvalidInput)
	}
	if len(title) > model.TaskTitleMaxLength {
		return "", fmt.Errorf("%w: title must be at most %d characters", model.ErrInvalidInput, model.TaskTitleMaxLength)
	}
	return title, nil
}
