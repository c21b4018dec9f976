package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"questboard/internal/model"
	"questboard/internal/repository"
)

// TaskInput represents data required to create a task.
type TaskInput struct {
	Title           string
	Description     string
	DurationMinutes int
	Energy          int
}

// TaskService wraps task-related business logic.
type TaskService struct {
	tasks *repository.TaskRepository
	users *repository.UserRepository
	clock Clock
}

func NewTaskService(tasks *repository.TaskRepository, users *repository.UserRepository, clock Clock) *TaskService {
	return &TaskService{tasks: tasks, users: users, clock: clock}
}

func (s *TaskService) CreateTask(ctx context.Context, userID uint, input TaskInput) (*model.Task, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	task := model.Task{
		UserID:          userID,
		Title:           input.Title,
		Description:     input.Description,
		Status:          model.TaskStatusPending,
		DurationMinutes: input.DurationMinutes,
		Energy:          input.Energy,
	}
	if err := s.tasks.Create(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) ListTasks(ctx context.Context, userID uint) ([]model.Task, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.tasks.ListByUser(ctx, userID)
}

func (s *TaskService) GetTask(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	task, err := s.tasks.FindByID(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return task, nil
}

// StartTask moves a pending task into progress.
func (s *TaskService) StartTask(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	task, err := s.GetTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status == model.TaskStatusCompleted {
		return task, nil
	}
	if err := s.tasks.UpdateStatus(ctx, task, model.TaskStatusInProgress); err != nil {
		return nil, err
	}
	return task, nil
}

// CompleteTask marks a task as done. Completing an already completed
// task is a no-op. durationMinutes, when positive, overrides the
// estimate recorded at creation.
func (s *TaskService) CompleteTask(ctx context.Context, userID, taskID uint, durationMinutes int) (*model.Task, error) {
	task, err := s.GetTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status == model.TaskStatusCompleted {
		return task, nil
	}
	if durationMinutes > 0 {
		task.DurationMinutes = durationMinutes
	}
	if err := s.tasks.MarkCompleted(ctx, task, s.clock.Now()); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes a task completely.
func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID uint) error {
	if _, err := s.GetTask(ctx, userID, taskID); err != nil {
		return err
	}
	return s.tasks.Delete(ctx, userID, taskID)
}

func (s *TaskService) ensureUser(ctx context.Context, userID uint) error {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}
	return nil
}
