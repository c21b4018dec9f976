package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"questboard/internal/model"
	"questboard/internal/repository"
)

// LedgerService is the only writer of user point balances. Every delta
// updates the balance and appends one immutable transaction record, in
// the same database transaction.
type LedgerService struct {
	db           *gorm.DB
	users        *repository.UserRepository
	transactions *repository.TransactionRepository
	clock        Clock
}

func NewLedgerService(db *gorm.DB, users *repository.UserRepository, transactions *repository.TransactionRepository, clock Clock) *LedgerService {
	return &LedgerService{db: db, users: users, transactions: transactions, clock: clock}
}

// ApplyDelta adjusts the user's balance by delta and records the change.
// A delta that would take the balance negative fails with
// ErrInsufficientBalance and leaves no trace.
func (s *LedgerService) ApplyDelta(ctx context.Context, userID uint, delta int, txType model.TransactionType, description string) (*model.Transaction, error) {
	var record *model.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		record, err = s.applyDelta(ctx, tx, userID, delta, txType, description)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// applyDelta runs inside the caller's transaction handle so compound
// operations (reward credit, purchase debit) commit as one unit with
// their other writes.
func (s *LedgerService) applyDelta(ctx context.Context, tx *gorm.DB, userID uint, delta int, txType model.TransactionType, description string) (*model.Transaction, error) {
	users := s.users.WithTx(tx)
	if _, err := users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	applied, err := users.ApplyBalanceDelta(ctx, userID, delta)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, ErrInsufficientBalance
	}

	record := &model.Transaction{
		UserID:       userID,
		PointsChange: delta,
		Type:         txType,
		Description:  description,
		Reference:    uuid.NewString(),
		CreatedAt:    s.clock.Now(),
	}
	if err := s.transactions.WithTx(tx).Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// History returns the user's ledger entries, newest first.
func (s *LedgerService) History(ctx context.Context, userID uint) ([]model.Transaction, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return s.transactions.ListByUser(ctx, userID)
}
