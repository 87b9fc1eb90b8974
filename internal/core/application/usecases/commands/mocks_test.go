package commands_test

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/earning"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order, expected order.Status) error {
	args := m.Called(ctx, o, expected)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Add(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) Get(ctx context.Context, id kernel.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) SetRole(ctx context.Context, id kernel.UUID, role user.Role) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

type MockStoreRepository struct{ mock.Mock }

func (m *MockStoreRepository) Name(ctx context.Context, id kernel.UUID) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

type MockShipperOfferRepository struct{ mock.Mock }

func (m *MockShipperOfferRepository) Open(ctx context.Context, orderID kernel.UUID) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *MockShipperOfferRepository) Take(ctx context.Context, orderID, shipperID kernel.UUID) error {
	args := m.Called(ctx, orderID, shipperID)
	return args.Error(0)
}

func (m *MockShipperOfferRepository) Withdraw(ctx context.Context, orderID kernel.UUID) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

type MockEarningRepository struct{ mock.Mock }

func (m *MockEarningRepository) Record(ctx context.Context, entry *earning.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

type MockNotificationSink struct{ mock.Mock }

func (m *MockNotificationSink) Publish(ctx context.Context, draft notification.Draft) error {
	args := m.Called(ctx, draft)
	return args.Error(0)
}

type MockEarningsCacheInvalidator struct{ mock.Mock }

func (m *MockEarningsCacheInvalidator) Invalidate(ctx context.Context, shipperID kernel.UUID) error {
	args := m.Called(ctx, shipperID)
	return args.Error(0)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockFulfillmentUoW struct{ mock.Mock }

func (m *MockFulfillmentUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockFulfillmentUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockFulfillmentUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockFulfillmentUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockFulfillmentUoW) UserRepository() ports.UserRepository {
	args := m.Called()
	return args.Get(0).(ports.UserRepository)
}

func (m *MockFulfillmentUoW) StoreRepository() ports.StoreRepository {
	args := m.Called()
	return args.Get(0).(ports.StoreRepository)
}

func (m *MockFulfillmentUoW) ShipperOfferRepository() ports.ShipperOfferRepository {
	args := m.Called()
	return args.Get(0).(ports.ShipperOfferRepository)
}

func (m *MockFulfillmentUoW) EarningRepository() ports.EarningRepository {
	args := m.Called()
	return args.Get(0).(ports.EarningRepository)
}

type MockFulfillmentUoWFactory struct{ mock.Mock }

func (m *MockFulfillmentUoWFactory) Create() commands.FulfillmentUoW {
	args := m.Called()
	return args.Get(0).(commands.FulfillmentUoW)
}

// fixture is one store's order in a given lifecycle state.
type fixture struct {
	storeID   kernel.UUID
	shipperID kernel.UUID
	order     *order.Order
}

func mustMoney(t *testing.T, s string) kernel.Money {
	t.Helper()
	m, err := kernel.MoneyFromString(s)
	require.NoError(t, err)
	return m
}

func newCheckout(t *testing.T, storeID kernel.UUID) order.Checkout {
	t.Helper()
	delivery, err := kernel.NewAddress("12 Ly Thuong Kiet, Hanoi", nil)
	require.NoError(t, err)
	item, err := order.NewItem(kernel.NewUUID(), storeID, 2, mustMoney(t, "30000"))
	require.NoError(t, err)

	return order.Checkout{
		CustomerID:    kernel.NewUUID(),
		Delivery:      delivery,
		Items:         []order.Item{item},
		TotalAmount:   mustMoney(t, "60000"),
		ShippingFee:   mustMoney(t, "20000"),
		PaymentMethod: "cash",
	}
}

// newFixture restores an order in status. Orders past confirmation are
// assigned to the fixture's shipper.
func newFixture(t *testing.T, status order.Status) fixture {
	t.Helper()
	f := fixture{storeID: kernel.NewUUID(), shipperID: kernel.NewUUID()}

	snapshot := order.Snapshot{
		ID:        kernel.NewUUID(),
		Checkout:  newCheckout(t, f.storeID),
		Status:    status,
		CreatedAt: time.Now().UTC().Add(-time.Hour),
		UpdatedAt: time.Now().UTC().Add(-time.Hour),
	}
	if status.HasShipper() {
		shipperID := f.shipperID
		snapshot.ShipperID = &shipperID
	}

	o, err := order.RestoreOrder(snapshot)
	require.NoError(t, err)
	f.order = o
	return f
}

func newUser(t *testing.T, role user.Role, status user.Status, active bool) *user.User {
	t.Helper()
	u, err := user.RestoreUser(kernel.NewUUID(), "Tran Van Ship", role, status, active)
	require.NoError(t, err)
	return u
}

func draftOfType(typ notification.Type) any {
	return mock.MatchedBy(func(d notification.Draft) bool { return d.Type == typ })
}
