package commands_test

import (
	"testing"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCancelOrderCommand_ValidInput(t *testing.T) {
	principal := userPrincipal(t, "user-1")
	cmd, err := commands.NewCancelOrderCommand(42, "ordered by mistake", principal)
	require.NoError(t, err)
	assert.Equal(t, int64(42), cmd.OrderID())
	assert.Equal(t, "ordered by mistake", cmd.Reason())
	assert.Equal(t, principal, cmd.Principal())
}

func TestNewCancelOrderCommand_ReasonIsRequired(t *testing.T) {
	_, err := commands.NewCancelOrderCommand(42, "  ", userPrincipal(t, "user-1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestNewCancelOrderCommand_InvalidOrderID(t *testing.T) {
	_, err := commands.NewCancelOrderCommand(-1, "ordered by mistake", userPrincipal(t, "user-1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestCancelOrderCommand_NotConstructed(t *testing.T) {
	var cmd commands.CancelOrderCommand
	err := cmd.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrCancelOrderCommandIsNotConstructed)
}
