package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"questboard/internal/model"
)

// ShopItemRepository manages the shop catalog.
type ShopItemRepository struct {
	db *gorm.DB
}

func NewShopItemRepository(db *gorm.DB) *ShopItemRepository {
	return &ShopItemRepository{db: db}
}

// WithTx returns a copy bound to the given transaction handle.
func (r *ShopItemRepository) WithTx(tx *gorm.DB) *ShopItemRepository {
	return &ShopItemRepository{db: tx}
}

func (r *ShopItemRepository) Create(ctx context.Context, item *model.ShopItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("create shop item: %w", err)
	}
	return nil
}

func (r *ShopItemRepository) FindByID(ctx context.Context, id uint) (*model.ShopItem, error) {
	var item model.ShopItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ShopItemRepository) ListAll(ctx context.Context) ([]model.ShopItem, error) {
	var items []model.ShopItem
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// DecrementStock takes quantity units off the shelf in a single guarded
// UPDATE. The stock re-check at the row means two purchases of the last
// unit cannot both succeed. Returns false when stock was insufficient.
func (r *ShopItemRepository) DecrementStock(ctx context.Context, itemID uint, quantity int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.ShopItem{}).
		Where("id = ? AND stock >= ?", itemID, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return false, fmt.Errorf("decrement stock: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}
