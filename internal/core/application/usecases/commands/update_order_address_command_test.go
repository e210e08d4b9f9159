package commands_test

import (
	"testing"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUpdateOrderAddressCommand_ValidInput(t *testing.T) {
	principal := userPrincipal(t, "user-1")
	cmd, err := commands.NewUpdateOrderAddressCommand(42, "Calle Nueva 123", principal)
	require.NoError(t, err)
	assert.Equal(t, int64(42), cmd.OrderID())
	assert.Equal(t, "Calle Nueva 123", cmd.Address())
	assert.Equal(t, principal, cmd.Principal())
}

func TestNewUpdateOrderAddressCommand_EmptyAddress(t *testing.T) {
	_, err := commands.NewUpdateOrderAddressCommand(42, "", userPrincipal(t, "user-1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestNewUpdateOrderAddressCommand_InvalidOrderID(t *testing.T) {
	_, err := commands.NewUpdateOrderAddressCommand(0, "Calle Nueva 123", userPrincipal(t, "user-1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestUpdateOrderAddressCommand_NotConstructed(t *testing.T) {
	var cmd commands.UpdateOrderAddressCommand
	err := cmd.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrUpdateOrderAddressCommandIsNotConstructed)
}
