package models_test

import (
	"testing"

	"github.com/eventnest/eventnest/app/models"
	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to models.OrderStatus
		ok       bool
	}{
		{models.OrderPending, models.OrderProcessing, true},
		{models.OrderPending, models.OrderCancelled, true},
		{models.OrderPending, models.OrderShipped, false},
		{models.OrderPending, models.OrderDelivered, false},
		{models.OrderProcessing, models.OrderShipped, true},
		{models.OrderProcessing, models.OrderCancelled, true},
		{models.OrderProcessing, models.OrderDelivered, false},
		{models.OrderProcessing, models.OrderPending, false},
		{models.OrderShipped, models.OrderDelivered, true},
		{models.OrderShipped, models.OrderCancelled, false},
		{models.OrderDelivered, models.OrderProcessing, false},
		{models.OrderDelivered, models.OrderCancelled, false},
		{models.OrderCancelled, models.OrderPending, false},
		{models.OrderCancelled, models.OrderProcessing, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransition(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestOrderStatusCancellable(t *testing.T) {
	assert.True(t, models.OrderPending.Cancellable())
	assert.True(t, models.OrderProcessing.Cancellable())
	assert.False(t, models.OrderShipped.Cancellable())
	assert.False(t, models.OrderDelivered.Cancellable())
	assert.False(t, models.OrderCancelled.Cancellable())
}

func TestOrderStatusTerminal(t *testing.T) {
	assert.False(t, models.OrderPending.Terminal())
	assert.False(t, models.OrderProcessing.Terminal())
	assert.False(t, models.OrderShipped.Terminal())
	assert.True(t, models.OrderDelivered.Terminal())
	assert.True(t, models.OrderCancelled.Terminal())
}
