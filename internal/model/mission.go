package model

import "time"

// MissionStatus describes whether a mission can still be worked on.
type MissionStatus string

const (
	MissionStatusActive   MissionStatus = "ACTIVE"
	MissionStatusInactive MissionStatus = "INACTIVE"
	MissionStatusExpired  MissionStatus = "EXPIRED"
)

// Mission is a time-boxed objective that pays out points on completion.
// Completion criteria run over tasks completed since StartDate:
// IsTaskOnly counts completed tasks, IsDurationOnly sums their minutes,
// and with neither flag set both thresholds must hold. The two flags
// are mutually exclusive.
type Mission struct {
	ID                      uint          `gorm:"primaryKey" json:"id"`
	Title                   string        `json:"title"`
	Description             string        `json:"description"`
	RewardPoints            int           `json:"reward_points"`
	RequiredTaskCount       int           `json:"required_task_count"`
	RequiredDurationMinutes int           `json:"required_duration_minutes"`
	IsTaskOnly              bool          `json:"is_task_only"`
	IsDurationOnly          bool          `json:"is_duration_only"`
	StartDate               time.Time     `json:"start_date"`
	EndDate                 time.Time     `json:"end_date"`
	Status                  MissionStatus `gorm:"index;default:ACTIVE" json:"status"`
	CreatedAt               time.Time     `json:"created_at"`
	UpdatedAt               time.Time     `json:"updated_at"`
}
