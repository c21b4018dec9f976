package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"questboard/internal/model"
)

// PurchaseRepository stores committed shop orders.
type PurchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

// WithTx returns a copy bound to the given transaction handle.
func (r *PurchaseRepository) WithTx(tx *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{db: tx}
}

func (r *PurchaseRepository) Create(ctx context.Context, purchase *model.Purchase) error {
	if err := r.db.WithContext(ctx).Create(purchase).Error; err != nil {
		return fmt.Errorf("create purchase: %w", err)
	}
	return nil
}

func (r *PurchaseRepository) ListByUser(ctx context.Context, userID uint) ([]model.Purchase, error) {
	var purchases []model.Purchase
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}
