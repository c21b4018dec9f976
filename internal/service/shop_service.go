package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"questboard/internal/model"
	"questboard/internal/repository"
)

// ShopItemInput represents data required to create a shop item.
type ShopItemInput struct {
	Name        string
	Description string
	Price       int
	Stock       int
}

// ShopService validates and commits purchases: balance check, stock
// check, stock decrement, purchase record, point debit — all or
// nothing.
type ShopService struct {
	db        *gorm.DB
	items     *repository.ShopItemRepository
	purchases *repository.PurchaseRepository
	users     *repository.UserRepository
	ledger    *LedgerService
	clock     Clock
}

func NewShopService(
	db *gorm.DB,
	items *repository.ShopItemRepository,
	purchases *repository.PurchaseRepository,
	users *repository.UserRepository,
	ledger *LedgerService,
	clock Clock,
) *ShopService {
	return &ShopService{db: db, items: items, purchases: purchases, users: users, ledger: ledger, clock: clock}
}

// CreateItem adds a catalog entry.
func (s *ShopService) CreateItem(ctx context.Context, input ShopItemInput) (*model.ShopItem, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if input.Price < 0 || input.Stock < 0 {
		return nil, fmt.Errorf("%w: price and stock must not be negative", ErrInvalidInput)
	}

	item := model.ShopItem{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
	}
	if err := s.items.Create(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *ShopService) ListItems(ctx context.Context) ([]model.ShopItem, error) {
	return s.items.ListAll(ctx)
}

func (s *ShopService) ListPurchases(ctx context.Context, userID uint) ([]model.Purchase, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return s.purchases.ListByUser(ctx, userID)
}

// Purchase commits a shop order. The stock decrement, purchase record
// and point debit share one transaction; a failed check leaves item and
// user state untouched.
func (s *ShopService) Purchase(ctx context.Context, userID, itemID uint, quantity int) (*model.Purchase, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	var record *model.Purchase
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := s.items.WithTx(tx)
		item, err := items.FindByID(ctx, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return fmt.Errorf("find item: %w", err)
		}

		user, err := s.users.WithTx(tx).FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("find user: %w", err)
		}

		totalPrice := item.Price * quantity
		if user.PointBalance < totalPrice {
			return ErrInsufficientPoints
		}
		if item.Stock < quantity {
			return ErrInsufficientStock
		}

		decremented, err := items.DecrementStock(ctx, itemID, quantity)
		if err != nil {
			return err
		}
		if !decremented {
			// Lost the race for the remaining stock.
			return ErrInsufficientStock
		}

		record = &model.Purchase{
			UserID:     userID,
			ItemID:     itemID,
			Quantity:   quantity,
			TotalPrice: totalPrice,
			CreatedAt:  s.clock.Now(),
		}
		if err := s.purchases.WithTx(tx).Create(ctx, record); err != nil {
			return err
		}

		description := fmt.Sprintf("Purchased %d x %s", quantity, item.Name)
		if _, err := s.ledger.applyDelta(ctx, tx, userID, -totalPrice, model.TransactionPurchase, description); err != nil {
			if errors.Is(err, ErrInsufficientBalance) {
				return ErrInsufficientPoints
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}
