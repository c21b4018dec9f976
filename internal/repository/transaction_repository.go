package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"questboard/internal/model"
)

// TransactionRepository appends to the point ledger. The ledger is
// append-only: there are no update or delete methods on purpose.
type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// WithTx returns a copy bound to the given transaction handle.
func (r *TransactionRepository) WithTx(tx *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: tx}
}

func (r *TransactionRepository) Create(ctx context.Context, record *model.Transaction) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) ListByUser(ctx context.Context, userID uint) ([]model.Transaction, error) {
	var records []model.Transaction
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
