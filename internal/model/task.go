package model

import "time"

// TaskStatus describes the lifecycle of a task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
)

// Task represents a single item in the planner.
type Task struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	UserID          uint       `gorm:"index" json:"user_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Status          TaskStatus `gorm:"index;default:PENDING" json:"status"`
	DurationMinutes int        `json:"duration_minutes"`
	Energy          int        `json:"energy"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
