package commands_test

import (
	"testing"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeleteOrderCommand_ValidInput(t *testing.T) {
	principal := adminPrincipal(t)
	cmd, err := commands.NewDeleteOrderCommand(42, principal)
	require.NoError(t, err)
	assert.Equal(t, int64(42), cmd.OrderID())
	assert.Equal(t, principal, cmd.Principal())
}

func TestNewDeleteOrderCommand_InvalidOrderID(t *testing.T) {
	_, err := commands.NewDeleteOrderCommand(0, adminPrincipal(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestDeleteOrderCommand_NotConstructed(t *testing.T) {
	var cmd commands.DeleteOrderCommand
	err := cmd.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrDeleteOrderCommandIsNotConstructed)
}
