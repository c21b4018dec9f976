package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"questboard/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// A named shared-cache DSN keeps every pooled connection on the
	// same in-memory database.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := NewDB(dsn)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func TestApplyBalanceDeltaGuard(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)

	user := model.User{Name: "alice", Email: "alice@example.com", PointBalance: 10}
	require.NoError(t, repo.Create(ctx, &user))

	applied, err := repo.ApplyBalanceDelta(ctx, user.ID, -20)
	require.NoError(t, err)
	assert.False(t, applied)

	applied, err = repo.ApplyBalanceDelta(ctx, user.ID, -10)
	require.NoError(t, err)
	assert.True(t, applied)

	got, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.PointBalance)
}

func TestDecrementStockGuard(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewShopItemRepository(db)

	item := model.ShopItem{Name: "mug", Price: 5, Stock: 2}
	require.NoError(t, repo.Create(ctx, &item))

	ok, err := repo.DecrementStock(ctx, item.ID, 3)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.DecrementStock(ctx, item.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)
}

func TestUserMissionUniquePair(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewUserMissionRepository(db)

	require.NoError(t, repo.Create(ctx, &model.UserMission{UserID: 1, MissionID: 1}))

	err := repo.Create(ctx, &model.UserMission{UserID: 1, MissionID: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))

	// A different pair is fine.
	require.NoError(t, repo.Create(ctx, &model.UserMission{UserID: 1, MissionID: 2}))
}

func TestMarkRewardClaimedRequiresCompletion(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewUserMissionRepository(db)
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	um := model.UserMission{UserID: 1, MissionID: 1}
	require.NoError(t, repo.Create(ctx, &um))

	ok, err := repo.MarkRewardClaimed(ctx, um.ID, now)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.MarkCompleted(ctx, um.ID, now)
	require.NoError(t, err)
	assert.True(t, ok)

	// The second completion attempt is a no-op.
	ok, err = repo.MarkCompleted(ctx, um.ID, now.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.MarkRewardClaimed(ctx, um.ID, now)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.MarkRewardClaimed(ctx, um.ID, now.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMarkExpiredOnlyFlipsActive(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewMissionRepository(db)
	now := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	mission := model.Mission{
		Title:     "old mission",
		StartDate: now.AddDate(0, -1, 0),
		EndDate:   now.AddDate(0, 0, -1),
		Status:    model.MissionStatusActive,
	}
	require.NoError(t, repo.Create(ctx, &mission))

	ok, err := repo.MarkExpired(ctx, mission.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.MarkExpired(ctx, mission.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCompletedStatsWindow(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewTaskRepository(db)
	since := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	before := since.Add(-time.Hour)
	after := since.Add(time.Hour)
	tasks := []model.Task{
		{UserID: 1, Title: "too early", Status: model.TaskStatusCompleted, DurationMinutes: 30, CompletedAt: &before},
		{UserID: 1, Title: "counts", Status: model.TaskStatusCompleted, DurationMinutes: 45, CompletedAt: &after},
		{UserID: 1, Title: "not done", Status: model.TaskStatusInProgress, DurationMinutes: 60},
		{UserID: 2, Title: "someone else", Status: model.TaskStatusCompleted, DurationMinutes: 90, CompletedAt: &after},
	}
	for i := range tasks {
		require.NoError(t, repo.Create(ctx, &tasks[i]))
	}

	count, minutes, err := repo.CompletedStats(ctx, 1, since)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, int64(45), minutes)
}
