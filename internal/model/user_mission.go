package model

import "time"

// UserMission tracks one user's progress against one mission.
// At most one row exists per (user, mission) pair, and a reward can
// only be claimed after the mission is completed.
type UserMission struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	UserID          uint       `gorm:"index:idx_user_mission,unique" json:"user_id"`
	MissionID       uint       `gorm:"index:idx_user_mission,unique" json:"mission_id"`
	IsCompleted     bool       `gorm:"default:false" json:"is_completed"`
	IsRewardClaimed bool       `gorm:"default:false" json:"is_reward_claimed"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	RewardClaimedAt *time.Time `json:"reward_claimed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
