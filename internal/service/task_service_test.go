package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questboard/internal/model"
)

func TestCreateTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "alice", 0)

	task, err := f.tasks.CreateTask(ctx, user.ID, TaskInput{Title: "write report", DurationMinutes: 30, Energy: 2})
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusPending, task.Status)
	assert.Equal(t, 30, task.DurationMinutes)

	_, err = f.tasks.CreateTask(ctx, user.ID, TaskInput{Title: ""})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.tasks.CreateTask(ctx, 999, TaskInput{Title: "orphan"})
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestStartAndCompleteTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "alice", 0)

	task, err := f.tasks.CreateTask(ctx, user.ID, TaskInput{Title: "deep work", DurationMinutes: 60})
	require.NoError(t, err)

	task, err = f.tasks.StartTask(ctx, user.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusInProgress, task.Status)

	task, err = f.tasks.CompleteTask(ctx, user.ID, task.ID, 75)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusCompleted, task.Status)
	assert.Equal(t, 75, task.DurationMinutes)
	require.NotNil(t, task.CompletedAt)
	assert.True(t, task.CompletedAt.Equal(f.clock.Now()))
}

func TestCompleteTaskTwiceKeepsFirstTimestamp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "alice", 0)

	task, err := f.tasks.CreateTask(ctx, user.ID, TaskInput{Title: "once"})
	require.NoError(t, err)

	first, err := f.tasks.CompleteTask(ctx, user.ID, task.ID, 10)
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	second, err := f.tasks.CompleteTask(ctx, user.ID, task.ID, 99)
	require.NoError(t, err)
	assert.True(t, second.CompletedAt.Equal(*first.CompletedAt))
	assert.Equal(t, 10, second.DurationMinutes)
}

func TestDeleteTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "alice", 0)

	task, err := f.tasks.CreateTask(ctx, user.ID, TaskInput{Title: "gone"})
	require.NoError(t, err)

	require.NoError(t, f.tasks.DeleteTask(ctx, user.ID, task.ID))
	_, err = f.tasks.GetTask(ctx, user.ID, task.ID)
	require.ErrorIs(t, err, ErrTaskNotFound)

	err = f.tasks.DeleteTask(ctx, user.ID, task.ID)
	require.ErrorIs(t, err, ErrTaskNotFound)
}
