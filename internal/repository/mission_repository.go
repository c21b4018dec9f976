package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"questboard/internal/model"
)

// MissionRepository handles CRUD for missions.
type MissionRepository struct {
	db *gorm.DB
}

func NewMissionRepository(db *gorm.DB) *MissionRepository {
	return &MissionRepository{db: db}
}

// WithTx returns a copy bound to the given transaction handle.
func (r *MissionRepository) WithTx(tx *gorm.DB) *MissionRepository {
	return &MissionRepository{db: tx}
}

func (r *MissionRepository) Create(ctx context.Context, mission *model.Mission) error {
	if err := r.db.WithContext(ctx).Create(mission).Error; err != nil {
		return fmt.Errorf("create mission: %w", err)
	}
	return nil
}

func (r *MissionRepository) FindByID(ctx context.Context, id uint) (*model.Mission, error) {
	var mission model.Mission
	if err := r.db.WithContext(ctx).First(&mission, id).Error; err != nil {
		return nil, err
	}
	return &mission, nil
}

func (r *MissionRepository) ListAll(ctx context.Context) ([]model.Mission, error) {
	var missions []model.Mission
	if err := r.db.WithContext(ctx).Order("start_date ASC").Find(&missions).Error; err != nil {
		return nil, err
	}
	return missions, nil
}

func (r *MissionRepository) ListActive(ctx context.Context) ([]model.Mission, error) {
	var missions []model.Mission
	if err := r.db.WithContext(ctx).Where("status = ?", model.MissionStatusActive).
		Order("end_date ASC").
		Find(&missions).Error; err != nil {
		return nil, err
	}
	return missions, nil
}

// MarkExpired flips an ACTIVE mission to EXPIRED. The status guard
// keeps the transition one-way even if two sweeps race. Returns false
// when the mission was not active anymore.
func (r *MissionRepository) MarkExpired(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Mission{}).
		Where("id = ? AND status = ?", id, model.MissionStatusActive).
		Update("status", model.MissionStatusExpired)
	if res.Error != nil {
		return false, fmt.Errorf("expire mission: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}
