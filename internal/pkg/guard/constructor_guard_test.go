package guard_test

import (
	"errors"
	"testing"

	"marketplace/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	errNotConstructed := errors.New("order item must be created via NewItem")

	t.Run("constructed_guard_returns_nil", func(t *testing.T) {
		// Given
		g := guard.NewConstructorGuard()

		// When
		err := g.Validate(errNotConstructed)

		// Then
		require.NoError(t, err)
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero_value_guard_returns_given_error", func(t *testing.T) {
		// Given
		var g guard.ConstructorGuard

		// When
		err := g.Validate(errNotConstructed)

		// Then
		require.Error(t, err)
		assert.Equal(t, errNotConstructed, err)
	})

	t.Run("zero_value_guard_falls_back_to_default_error", func(t *testing.T) {
		// Given
		var g guard.ConstructorGuard

		// When
		err := g.Validate(nil)

		// Then
		require.ErrorIs(t, err, guard.ErrDefaultConstructorGuard)
		assert.Equal(t, "object must be created via its constructor", err.Error())
	})
}

func TestConstructorGuard_EmbeddedInValueObject(t *testing.T) {
	type price struct {
		cents int64
		guard guard.ConstructorGuard
	}
	errPriceNotConstructed := errors.New("price must be created via newPrice")

	newPrice := func(cents int64) (price, error) {
		if cents < 0 {
			return price{}, errors.New("price cannot be negative")
		}
		return price{cents: cents, guard: guard.NewConstructorGuard()}, nil
	}

	t.Run("constructed_value_is_valid", func(t *testing.T) {
		p, err := newPrice(1500)
		require.NoError(t, err)
		require.NoError(t, p.guard.Validate(errPriceNotConstructed))

		copied := p
		require.NoError(t, copied.guard.Validate(errPriceNotConstructed))
	})

	t.Run("zero_value_is_rejected", func(t *testing.T) {
		var p price
		assert.Equal(t, errPriceNotConstructed, p.guard.Validate(errPriceNotConstructed))
	})

	t.Run("constructor_rules_still_apply", func(t *testing.T) {
		_, err := newPrice(-1)
		require.Error(t, err)
	})
}

func BenchmarkConstructorGuard_Validate(b *testing.B) {
	g := guard.NewConstructorGuard()
	err := errors.New("not constructed")
	b.ResetTimer()
	for range b.N {
		_ = g.Validate(err)
	}
}
