package commands_test

import (
	"errors"
	"testing"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewPlaceOrderCommand(t *testing.T) {
	checkout := newCheckout(t, kernel.NewUUID())

	t.Run("valid", func(t *testing.T) {
		id := kernel.NewUUID()
		cmd, err := commands.NewPlaceOrderCommand(id, checkout)
		require.NoError(t, err)
		assert.Equal(t, id, cmd.OrderID())
		assert.Equal(t, checkout.CustomerID, cmd.Checkout().CustomerID)
		require.NoError(t, cmd.Validate())
	})

	t.Run("zero order id", func(t *testing.T) {
		_, err := commands.NewPlaceOrderCommand(kernel.UUID{}, checkout)
		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})

	t.Run("no items", func(t *testing.T) {
		empty := checkout
		empty.Items = nil
		_, err := commands.NewPlaceOrderCommand(kernel.NewUUID(), empty)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("zero value command", func(t *testing.T) {
		require.ErrorIs(t, commands.PlaceOrderCommand{}.Validate(), commands.ErrPlaceOrderCommandIsNotConstructed)
	})
}

func TestPlaceOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewPlaceOrderCommand(kernel.NewUUID(), newCheckout(t, kernel.NewUUID()))
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewPlaceOrderCommandHandler(factory, nil)
	require.NoError(t, h.Handle(ctx, cmd))
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestPlaceOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	factory := new(MockOrderUoWFactory)
	h := commands.NewPlaceOrderCommandHandler(factory, nil)

	err := h.Handle(t.Context(), commands.PlaceOrderCommand{})
	require.ErrorIs(t, err, commands.ErrPlaceOrderCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestPlaceOrderCommandHandler_Handle_TotalMismatch(t *testing.T) {
	checkout := newCheckout(t, kernel.NewUUID())
	checkout.TotalAmount = mustMoney(t, "1")
	cmd, err := commands.NewPlaceOrderCommand(kernel.NewUUID(), checkout)
	require.NoError(t, err)

	factory := new(MockOrderUoWFactory)
	h := commands.NewPlaceOrderCommandHandler(factory, nil)

	err = h.Handle(t.Context(), cmd)
	require.Error(t, err)
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))
	factory.AssertNotCalled(t, "Create")
}

func TestPlaceOrderCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewPlaceOrderCommand(kernel.NewUUID(), newCheckout(t, kernel.NewUUID()))
	require.NoError(t, err)

	uow := new(MockOrderUoW)
	factory := new(MockOrderUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(errors.New("connection refused")).Once(),
	)

	h := commands.NewPlaceOrderCommandHandler(factory, nil)
	err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrPersistence)
	uow.AssertExpectations(t)
}

func TestPlaceOrderCommandHandler_Handle_AddError(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewPlaceOrderCommand(kernel.NewUUID(), newCheckout(t, kernel.NewUUID()))
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Return(errors.New("insert failed")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewPlaceOrderCommandHandler(factory, nil)
	err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrPersistence)
	assert.Equal(t, errs.KindPersistence, errs.KindOf(err))
	uow.AssertNotCalled(t, "Commit", ctx)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestPlaceOrderCommandHandler_Handle_CommitError(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewPlaceOrderCommand(kernel.NewUUID(), newCheckout(t, kernel.NewUUID()))
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(errors.New("commit error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewPlaceOrderCommandHandler(factory, nil)
	err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrPersistence)
	uow.AssertExpectations(t)
}
