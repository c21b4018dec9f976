package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questboard/internal/model"
)

func TestPurchaseSuccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "alice", 100)
	item := f.createItem(t, "coffee voucher", 20, 5)

	record, err := f.shop.Purchase(ctx, user.ID, item.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 40, record.TotalPrice)
	assert.Equal(t, 2, record.Quantity)

	assert.Equal(t, 60, f.balance(t, user.ID))
	got, err := f.itemRepo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Stock)

	purchases, err := f.shop.ListPurchases(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, purchases, 1)

	history, err := f.ledger.History(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, history, 2) // seed grant + debit
	assert.Equal(t, model.TransactionPurchase, history[0].Type)
	assert.Equal(t, -40, history[0].PointsChange)
}

func TestPurchaseInsufficientPoints(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "bob", 50)
	item := f.createItem(t, "snack", 20, 10)

	_, err := f.shop.Purchase(ctx, user.ID, item.ID, 3)
	require.ErrorIs(t, err, ErrInsufficientPoints)

	// No partial effects.
	assert.Equal(t, 50, f.balance(t, user.ID))
	got, err := f.itemRepo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Stock)
	purchases, err := f.shop.ListPurchases(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, purchases)
}

func TestPurchaseInsufficientStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "carol", 500)
	item := f.createItem(t, "rare sticker", 10, 1)

	_, err := f.shop.Purchase(ctx, user.ID, item.ID, 2)
	require.ErrorIs(t, err, ErrInsufficientStock)

	assert.Equal(t, 500, f.balance(t, user.ID))
	got, err := f.itemRepo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Stock)
}

func TestPurchaseLastUnit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.createUser(t, "first", 100)
	second := f.createUser(t, "second", 100)
	item := f.createItem(t, "last one", 10, 1)

	_, err := f.shop.Purchase(ctx, first.ID, item.ID, 1)
	require.NoError(t, err)

	// The shelf is empty: exactly one buyer wins.
	_, err = f.shop.Purchase(ctx, second.ID, item.ID, 1)
	require.ErrorIs(t, err, ErrInsufficientStock)

	got, err := f.itemRepo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)
	assert.Equal(t, 100, f.balance(t, second.ID))
}

func TestPurchaseInvalidQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "dave", 100)
	item := f.createItem(t, "mug", 10, 5)

	_, err := f.shop.Purchase(ctx, user.ID, item.ID, 0)
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = f.shop.Purchase(ctx, user.ID, item.ID, -3)
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestPurchaseUnknownItem(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "erin", 100)

	_, err := f.shop.Purchase(context.Background(), user.ID, 999, 1)
	require.ErrorIs(t, err, ErrItemNotFound)
}

func TestPurchaseUnknownUser(t *testing.T) {
	f := newFixture(t)
	item := f.createItem(t, "pen", 5, 5)

	_, err := f.shop.Purchase(context.Background(), 999, item.ID, 1)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestCreateItemValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.shop.CreateItem(ctx, ShopItemInput{Name: ""})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.shop.CreateItem(ctx, ShopItemInput{Name: "bad", Price: -1})
	require.ErrorIs(t, err, ErrInvalidInput)
}
