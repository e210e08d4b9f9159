package order_test

import (
	"strings"
	"testing"
	"time"

	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStatusChange(t *testing.T) {
	changedAt := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("records an applied transition", func(t *testing.T) {
		change, err := order.NewStatusChange(1, order.Pending, order.Processing, "stock confirmed", "admin-1", changedAt)

		require.NoError(t, err)
		require.NoError(t, change.Validate())
		assert.NotEqual(t, uuid.Nil, change.ID())
		assert.Equal(t, int64(1), change.OrderID())
		assert.Equal(t, order.Pending, change.Previous())
		assert.Equal(t, order.Processing, change.Next())
		assert.Equal(t, "stock confirmed", change.Reason())
		assert.Equal(t, "admin-1", change.ChangedBy())
		assert.Equal(t, changedAt, change.ChangedAt())
	})

	t.Run("reason is optional", func(t *testing.T) {
		change, err := order.NewStatusChange(1, order.Shipped, order.Delivered, "", "admin-1", changedAt)

		require.NoError(t, err)
		assert.Empty(t, change.Reason())
	})

	t.Run("rejects edges absent from the transition table", func(t *testing.T) {
		_, err := order.NewStatusChange(1, order.Pending, order.Delivered, "", "admin-1", changedAt)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})

	t.Run("rejects edges out of terminal states", func(t *testing.T) {
		_, err := order.NewStatusChange(1, order.Cancelled, order.Pending, "", "admin-1", changedAt)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})

	t.Run("rejects missing order id", func(t *testing.T) {
		_, err := order.NewStatusChange(0, order.Pending, order.Processing, "", "admin-1", changedAt)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("rejects missing principal", func(t *testing.T) {
		_, err := order.NewStatusChange(1, order.Pending, order.Processing, "", " ", changedAt)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("rejects oversized reason", func(t *testing.T) {
		_, err := order.NewStatusChange(1, order.Pending, order.Processing,
			strings.Repeat("x", order.MaxReasonLength+1), "admin-1", changedAt)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestRestoreStatusChange(t *testing.T) {
	t.Run("restores persisted entry without re-checking the edge", func(t *testing.T) {
		id := uuid.New()
		changedAt := time.Now()

		change, err := order.RestoreStatusChange(id, 3, order.Pending, order.Cancelled, "changed mind", "user-9", changedAt)

		require.NoError(t, err)
		assert.Equal(t, id, change.ID())
		assert.Equal(t, order.Cancelled, change.Next())
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var change order.StatusChange
		assert.ErrorIs(t, change.Validate(), order.ErrStatusChangeIsNotConstructed)
	})
}

// TestHistoryReplay verifies that a sequence of NewStatusChange records can
// only ever describe a valid walk through the transition table.
func TestHistoryReplay(t *testing.T) {
	now := time.Now()
	walk := []struct{ from, to order.Status }{
		{order.Pending, order.Processing},
		{order.Processing, order.Shipped},
		{order.Shipped, order.Delivered},
	}

	previous := order.Pending
	for _, step := range walk {
		require.Equal(t, previous, step.from, "walk must be contiguous")

		change, err := order.NewStatusChange(1, step.from, step.to, "", "admin-1", now)
		require.NoError(t, err)
		assert.True(t, step.from.CanTransitionTo(change.Next()))

		previous = step.to
		now = now.Add(time.Hour)
	}
}
