package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"questboard/internal/model"
)

// UserMissionRepository manages per-user mission progress records.
type UserMissionRepository struct {
	db *gorm.DB
}

func NewUserMissionRepository(db *gorm.DB) *UserMissionRepository {
	return &UserMissionRepository{db: db}
}

// WithTx returns a copy bound to the given transaction handle.
func (r *UserMissionRepository) WithTx(tx *gorm.DB) *UserMissionRepository {
	return &UserMissionRepository{db: tx}
}

// Create inserts the progress record. The unique (user, mission) index
// rejects a second claim for the same pair.
func (r *UserMissionRepository) Create(ctx context.Context, um *model.UserMission) error {
	if err := r.db.WithContext(ctx).Create(um).Error; err != nil {
		return fmt.Errorf("create user mission: %w", err)
	}
	return nil
}

func (r *UserMissionRepository) Find(ctx context.Context, userID, missionID uint) (*model.UserMission, error) {
	var um model.UserMission
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND mission_id = ?", userID, missionID).
		First(&um).Error; err != nil {
		return nil, err
	}
	return &um, nil
}

func (r *UserMissionRepository) ListByUser(ctx context.Context, userID uint) ([]model.UserMission, error) {
	var ums []model.UserMission
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&ums).Error; err != nil {
		return nil, err
	}
	return ums, nil
}

func (r *UserMissionRepository) ListByMission(ctx context.Context, missionID uint) ([]model.UserMission, error) {
	var ums []model.UserMission
	if err := r.db.WithContext(ctx).Where("mission_id = ?", missionID).Find(&ums).Error; err != nil {
		return nil, err
	}
	return ums, nil
}

// MarkCompleted flips is_completed exactly once. Returns false when the
// record was already completed, which callers treat as a no-op.
func (r *UserMissionRepository) MarkCompleted(ctx context.Context, id uint, completedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.UserMission{}).
		Where("id = ? AND is_completed = ?", id, false).
		Updates(map[string]interface{}{
			"is_completed": true,
			"completed_at": completedAt,
		})
	if res.Error != nil {
		return false, fmt.Errorf("mark mission completed: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// MarkRewardClaimed flips is_reward_claimed exactly once, and only on a
// completed record. The guard makes the reward claim at-most-once even
// when two requests race.
func (r *UserMissionRepository) MarkRewardClaimed(ctx context.Context, id uint, claimedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.UserMission{}).
		Where("id = ? AND is_completed = ? AND is_reward_claimed = ?", id, true, false).
		Updates(map[string]interface{}{
			"is_reward_claimed": true,
			"reward_claimed_at": claimedAt,
		})
	if res.Error != nil {
		return false, fmt.Errorf("mark reward claimed: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}
