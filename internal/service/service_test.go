package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"questboard/internal/model"
	"questboard/internal/repository"
)

// fakeClock lets tests pin and advance time.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)}
}

// fixture wires every service against one in-memory database.
type fixture struct {
	db       *gorm.DB
	clock    *fakeClock
	users    *UserService
	tasks    *TaskService
	missions *MissionService
	shop     *ShopService
	ledger   *LedgerService

	userRepo        *repository.UserRepository
	taskRepo        *repository.TaskRepository
	missionRepo     *repository.MissionRepository
	userMissionRepo *repository.UserMissionRepository
	itemRepo        *repository.ShopItemRepository
	purchaseRepo    *repository.PurchaseRepository
	transactionRepo *repository.TransactionRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	// A named shared-cache DSN keeps every pooled connection on the
	// same in-memory database.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := repository.NewDB(dsn)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	clock := newFakeClock()
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	missionRepo := repository.NewMissionRepository(db)
	userMissionRepo := repository.NewUserMissionRepository(db)
	itemRepo := repository.NewShopItemRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)

	ledger := NewLedgerService(db, userRepo, transactionRepo, clock)

	return &fixture{
		db:              db,
		clock:           clock,
		users:           NewUserService(userRepo),
		tasks:           NewTaskService(taskRepo, userRepo, clock),
		missions:        NewMissionService(db, missionRepo, userMissionRepo, userRepo, taskRepo, ledger, clock, zap.NewNop()),
		shop:            NewShopService(db, itemRepo, purchaseRepo, userRepo, ledger, clock),
		ledger:          ledger,
		userRepo:        userRepo,
		taskRepo:        taskRepo,
		missionRepo:     missionRepo,
		userMissionRepo: userMissionRepo,
		itemRepo:        itemRepo,
		purchaseRepo:    purchaseRepo,
		transactionRepo: transactionRepo,
	}
}

func (f *fixture) createUser(t *testing.T, name string, balance int) *model.User {
	t.Helper()
	user, err := f.users.Register(context.Background(), name, name+"@example.com")
	require.NoError(t, err)
	if balance != 0 {
		_, err := f.ledger.ApplyDelta(context.Background(), user.ID, balance, model.TransactionManual, "test seed")
		require.NoError(t, err)
		user.PointBalance = balance
	}
	return user
}

func (f *fixture) createItem(t *testing.T, name string, price, stock int) *model.ShopItem {
	t.Helper()
	item, err := f.shop.CreateItem(context.Background(), ShopItemInput{Name: name, Price: price, Stock: stock})
	require.NoError(t, err)
	return item
}

func (f *fixture) createMission(t *testing.T, input MissionInput) *model.Mission {
	t.Helper()
	if input.Title == "" {
		input.Title = "test mission"
	}
	if input.StartDate.IsZero() {
		input.StartDate = f.clock.Now().Add(-24 * time.Hour)
	}
	if input.EndDate.IsZero() {
		input.EndDate = f.clock.Now().Add(24 * time.Hour)
	}
	mission, err := f.missions.CreateMission(context.Background(), input)
	require.NoError(t, err)
	return mission
}

// completeTasks records n completed tasks of the given duration at the
// current fake time.
func (f *fixture) completeTasks(t *testing.T, userID uint, n, durationMinutes int) {
	t.Helper()
	now := f.clock.Now()
	for i := 0; i < n; i++ {
		task := &model.Task{
			UserID:          userID,
			Title:           "done",
			Status:          model.TaskStatusCompleted,
			DurationMinutes: durationMinutes,
			CompletedAt:     &now,
		}
		require.NoError(t, f.taskRepo.Create(context.Background(), task))
	}
}

func (f *fixture) balance(t *testing.T, userID uint) int {
	t.Helper()
	user, err := f.userRepo.FindByID(context.Background(), userID)
	require.NoError(t, err)
	return user.PointBalance
}
