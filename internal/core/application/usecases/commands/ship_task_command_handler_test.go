package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"warehouse/internal/core/application/usecases/commands"
	"warehouse/internal/core/domain/model/fulfillment"
	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/ports"
)

type MockShipTaskUoW struct{ mock.Mock }

func (m *MockShipTaskUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockShipTaskUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockShipTaskUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockShipTaskUoW) TaskRepository() ports.TaskRepository {
	args := m.Called()
	return args.Get(0).(ports.TaskRepository)
}

type MockShipTaskUoWFactory struct{ mock.Mock }

func (m *MockShipTaskUoWFactory) Create() commands.TaskUoW {
	args := m.Called()
	return args.Get(0).(commands.TaskUoW)
}

func completedTask(t *testing.T) *fulfillment.Task {
	t.Helper()

	taskID := kernel.NewUUID()
	slot, err := kernel.NewLocation('A', 1, 1)
	require.NoError(t, err)

	item, err := fulfillment.RestoreItem(
		kernel.NewUUID(), taskID, "SKU-1", 0, 0, 100, 100,
		&slot, nil, 100, fulfillment.ItemStatusCompleted,
	)
	require.NoError(t, err)

	task, err := fulfillment.RestoreTask(
		taskID, "SO-1", "sales_order", 0, nil,
		[]*fulfillment.Item{item}, false, nil, 1,
	)
	require.NoError(t, err)
	return task
}

func TestShipTaskCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()

	task := completedTask(t)
	cmd, err := commands.NewShipTaskCommand(task.ID())
	require.NoError(t, err)

	taskRepo := new(MockCreateTaskRepository)
	uow := new(MockShipTaskUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("TaskRepository").Return(taskRepo).Once(),
		taskRepo.On("Get", ctx, task.ID()).Return(task, nil).Once(),
		taskRepo.On("Update", ctx, task).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockShipTaskUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewShipTaskCommandHandler(factory)
	require.NoError(t, handler.Handle(ctx, cmd))

	assert.Equal(t, fulfillment.TaskStatusShipped, task.Status())
	taskRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestShipTaskCommandHandler_Handle_NotCompleted(t *testing.T) {
	ctx := t.Context()

	taskID := kernel.NewUUID()
	item, err := fulfillment.RestoreItem(
		kernel.NewUUID(), taskID, "SKU-1", 0, 0, 100, 100,
		nil, nil, 0, fulfillment.ItemStatusPending,
	)
	require.NoError(t, err)
	task, err := fulfillment.RestoreTask(
		taskID, "SO-1", "sales_order", 0, nil,
		[]*fulfillment.Item{item}, false, nil, 1,
	)
	require.NoError(t, err)

	cmd, err := commands.NewShipTaskCommand(task.ID())
	require.NoError(t, err)

	taskRepo := new(MockCreateTaskRepository)
	uow := new(MockShipTaskUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("TaskRepository").Return(taskRepo).Once(),
		taskRepo.On("Get", ctx, task.ID()).Return(task, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockShipTaskUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewShipTaskCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, fulfillment.ErrInvalidTransition)
	taskRepo.AssertNotCalled(t, "Update", ctx, task)
}

func TestShipTaskCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()

	factory := new(MockShipTaskUoWFactory)
	handler := commands.NewShipTaskCommandHandler(factory)

	err := handler.Handle(ctx, commands.ShipTaskCommand{})
	require.ErrorIs(t, err, commands.ErrShipTaskCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestShipTaskCommandHandler_Handle_UpdateError(t *testing.T) {
	ctx := t.Context()

	task := completedTask(t)
	cmd, err := commands.NewShipTaskCommand(task.ID())
	require.NoError(t, err)

	taskRepo := new(MockCreateTaskRepository)
	uow := new(MockShipTaskUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("TaskRepository").Return(taskRepo).Once(),
		taskRepo.On("Get", ctx, task.ID()).Return(task, nil).Once(),
		taskRepo.On("Update", ctx, task).Return(errors.New("update error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockShipTaskUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewShipTaskCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.EqualError(t, err, "update error")
}
