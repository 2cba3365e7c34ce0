package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrorIsMatchesKind(t *testing.T) {
	err := NewNotFound("item", "id", 3)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrDuplicateKey)
	assert.Equal(t, "item not found with id: 3", err.Error())

	wrapped := fmt.Errorf("failed to create order: %w", err)
	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.Equal(t, KindNotFound, KindOf(wrapped))
}

func TestKindOfUnclassified(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestInternalUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewInternal("item query failed", cause)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, "item query failed: connection refused", err.Error())
}

func TestInsufficientStockMessage(t *testing.T) {
	err := NewInsufficientStock(&Item{Name: "Widget", SKU: "A1", CurrentStock: 2}, 5)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Contains(t, err.Error(), "available 2, requested 5")
}

func TestItemExpiresOnOrBefore(t *testing.T) {
	expiry := time.Date(2024, 4, 9, 0, 0, 0, 0, time.UTC)
	item := &Item{ExpiryDate: &expiry}

	assert.True(t, item.ExpiresOnOrBefore(time.Date(2024, 4, 9, 23, 59, 0, 0, time.UTC)))
	assert.True(t, item.ExpiresOnOrBefore(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, item.ExpiresOnOrBefore(time.Date(2024, 4, 8, 12, 0, 0, 0, time.UTC)))
	assert.False(t, (&Item{}).ExpiresOnOrBefore(expiry))
}

func TestEnumValidation(t *testing.T) {
	assert.True(t, OrderTypeSale.Valid())
	assert.False(t, OrderType("RETURN").Valid())
	assert.True(t, OrderStatusCancelled.Valid())
	assert.False(t, OrderStatus("SHIPPED").Valid())
	assert.True(t, TransactionAdjustment.Valid())
	assert.False(t, TransactionType("TRANSFER").Valid())
	assert.True(t, AlertExpired.Valid())
	assert.False(t, AlertStatus("OPEN").Valid())
}
