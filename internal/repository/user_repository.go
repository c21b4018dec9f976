package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"questboard/internal/model"
)

// UserRepository handles CRUD for users.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx returns a copy bound to the given transaction handle.
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) ListAll(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ApplyBalanceDelta adds delta to the user's balance in a single guarded
// UPDATE. The guard re-checks the balance at the row, so concurrent
// deltas serialize there and the balance can never go negative. Returns
// false when the guard rejected the update.
func (r *UserRepository) ApplyBalanceDelta(ctx context.Context, userID uint, delta int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND point_balance + ? >= 0", userID, delta).
		Update("point_balance", gorm.Expr("point_balance + ?", delta))
	if res.Error != nil {
		return false, fmt.Errorf("apply balance delta: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}
