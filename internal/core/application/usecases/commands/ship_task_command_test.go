package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehouse/internal/core/application/usecases/commands"
	"warehouse/internal/core/domain/model/kernel"
)

func TestNewShipTaskCommand(t *testing.T) {
	taskID := kernel.NewUUID()

	cmd, err := commands.NewShipTaskCommand(taskID)
	require.NoError(t, err)
	require.NoError(t, cmd.Validate())

	assert.Equal(t, taskID, cmd.TaskID())
}

func TestNewShipTaskCommand_EmptyTaskID(t *testing.T) {
	_, err := commands.NewShipTaskCommand(kernel.UUID{})
	require.Error(t, err)
}

func TestShipTaskCommand_Validate_NotConstructed(t *testing.T) {
	var cmd commands.ShipTaskCommand
	require.ErrorIs(t, cmd.Validate(), commands.ErrShipTaskCommandIsNotConstructed)
}
