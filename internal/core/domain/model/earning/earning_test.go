package earning_test

import (
	"testing"
	"time"

	"marketplace/internal/core/domain/model/earning"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry(t *testing.T) {
	fee, err := kernel.MoneyFromString("15000")
	require.NoError(t, err)

	orderID, shipperID := kernel.NewUUID(), kernel.NewUUID()
	entry, err := earning.NewEntry(orderID, shipperID, fee, time.Now())

	require.NoError(t, err)
	require.NoError(t, entry.Validate())
	assert.Equal(t, "12000.00", entry.Amount().String())
	assert.Equal(t, earning.TypeOrderEarning, entry.Type())
	assert.Equal(t, orderID, entry.OrderID())
	assert.Equal(t, shipperID, entry.ShipperID())
}

func TestNewEntry_RequiresIdentifiers(t *testing.T) {
	_, err := earning.NewEntry(kernel.UUID{}, kernel.NewUUID(), kernel.ZeroMoney(), time.Now())
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestShareOf(t *testing.T) {
	assert.True(t, earning.ShareOf(kernel.ZeroMoney()).IsZero())

	fee, err := kernel.MoneyFromString("12.50")
	require.NoError(t, err)
	assert.Equal(t, "10.00", earning.ShareOf(fee).String())
}
