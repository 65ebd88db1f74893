package commands_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"warehouse/internal/core/application/usecases/commands"
	"warehouse/internal/core/domain/model/fulfillment"
	"warehouse/internal/core/domain/model/kernel"
)

// cancelledTask builds an unretired task whose single item was withdrawn,
// making the whole task a retirement candidate.
func cancelledTask(t *testing.T) *fulfillment.Task {
	t.Helper()

	taskID := kernel.NewUUID()
	item, err := fulfillment.RestoreItem(
		kernel.NewUUID(), taskID, "SKU-1", 0, 0, 50, 50,
		nil, nil, 0, fulfillment.ItemStatusCancelled,
	)
	require.NoError(t, err)

	task, err := fulfillment.RestoreTask(
		taskID, "SO-77", "sales_order", 0, nil,
		[]*fulfillment.Item{item}, false, nil, 1,
	)
	require.NoError(t, err)
	return task
}

func TestRetireTasksCommandHandler_Handle_RetiresAllCandidates(t *testing.T) {
	ctx := t.Context()
	cutoff := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	first := cancelledTask(t)
	second := completedTask(t)

	cmd, err := commands.NewRetireTasksCommand(cutoff)
	require.NoError(t, err)

	taskRepo := new(MockCreateTaskRepository)
	uow := new(MockShipTaskUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("TaskRepository").Return(taskRepo).Once(),
		taskRepo.On("GetRetirable", ctx, cutoff).
			Return([]*fulfillment.Task{first, second}, nil).Once(),
		taskRepo.On("Update", ctx, first).Return(nil).Once(),
		taskRepo.On("Update", ctx, second).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockShipTaskUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewRetireTasksCommandHandler(factory)
	err = handler.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.NotNil(t, first.RetiredAt())
	assert.NotNil(t, second.RetiredAt())

	uow.AssertExpectations(t)
	taskRepo.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestRetireTasksCommandHandler_Handle_NoCandidates(t *testing.T) {
	ctx := t.Context()
	cutoff := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	cmd, err := commands.NewRetireTasksCommand(cutoff)
	require.NoError(t, err)

	taskRepo := new(MockCreateTaskRepository)
	uow := new(MockShipTaskUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("TaskRepository").Return(taskRepo).Once(),
		taskRepo.On("GetRetirable", ctx, cutoff).Return([]*fulfillment.Task{}, nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockShipTaskUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewRetireTasksCommandHandler(factory)
	err = handler.Handle(ctx, cmd)
	require.NoError(t, err)

	taskRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.AssertExpectations(t)
	taskRepo.AssertExpectations(t)
}

func TestRetireTasksCommandHandler_Handle_UpdateErrorRollsBack(t *testing.T) {
	ctx := t.Context()
	cutoff := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	task := cancelledTask(t)
	updateErr := errors.New("update failed")

	cmd, err := commands.NewRetireTasksCommand(cutoff)
	require.NoError(t, err)

	taskRepo := new(MockCreateTaskRepository)
	uow := new(MockShipTaskUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("TaskRepository").Return(taskRepo).Once(),
		taskRepo.On("GetRetirable", ctx, cutoff).Return([]*fulfillment.Task{task}, nil).Once(),
		taskRepo.On("Update", ctx, task).Return(updateErr).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockShipTaskUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewRetireTasksCommandHandler(factory)
	err = handler.Handle(ctx, cmd)
	assert.ErrorIs(t, err, updateErr)

	uow.AssertNotCalled(t, "Commit", mock.Anything)
	uow.AssertExpectations(t)
	taskRepo.AssertExpectations(t)
}

func TestRetireTasksCommandHandler_Handle_ValidationError(t *testing.T) {
	factory := new(MockShipTaskUoWFactory)
	handler := commands.NewRetireTasksCommandHandler(factory)

	var cmd commands.RetireTasksCommand
	err := handler.Handle(t.Context(), cmd)
	assert.ErrorIs(t, err, commands.ErrRetireTasksCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}
