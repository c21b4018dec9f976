package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"questboard/internal/model"
)

// TaskRepository handles CRUD for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// WithTx returns a copy bound to the given transaction handle.
func (r *TaskRepository) WithTx(tx *gorm.DB) *TaskRepository {
	return &TaskRepository{db: tx}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) ListByUser(ctx context.Context, userID uint) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) UpdateStatus(ctx context.Context, task *model.Task, status model.TaskStatus) error {
	task.Status = status
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("update task status: %w", err)
	}
	return nil
}

func (r *TaskRepository) MarkCompleted(ctx context.Context, task *model.Task, completedAt time.Time) error {
	task.Status = model.TaskStatusCompleted
	task.CompletedAt = &completedAt
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("complete task: %w", err)
	}
	return nil
}

// Delete removes a task for the given user.
func (r *TaskRepository) Delete(ctx context.Context, userID, taskID uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).
		Delete(&model.Task{}).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// CompletedStats returns how many tasks the user completed since the
// given time and their total duration in minutes. Mission criteria are
// evaluated against these two numbers.
func (r *TaskRepository) CompletedStats(ctx context.Context, userID uint, since time.Time) (count int64, minutes int64, err error) {
	var out struct {
		Count   int64
		Minutes int64
	}
	err = r.db.WithContext(ctx).Model(&model.Task{}).
		Select("COUNT(*) AS count, COALESCE(SUM(duration_minutes), 0) AS minutes").
		Where("user_id = ? AND status = ? AND completed_at >= ?", userID, model.TaskStatusCompleted, since).
		Scan(&out).Error
	if err != nil {
		return 0, 0, fmt.Errorf("completed stats: %w", err)
	}
	return out.Count, out.Minutes, nil
}
