package cmd_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"marketplace/cmd"
	"marketplace/internal/adapters/out/notifier"
	"marketplace/internal/adapters/out/postgres/catalogrepo"
	"marketplace/internal/adapters/out/postgres/pgtest"
	"marketplace/internal/adapters/out/postgres/userrepo"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

// FulfillmentIntegrationTestSuite drives the wired handlers through the
// whole order lifecycle against PostgreSQL.
type FulfillmentIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	app       cmd.CompositionRoot

	customerID kernel.UUID
	storeID    kernel.UUID
	foodIDs    []kernel.UUID
	shipperA   kernel.UUID
	shipperB   kernel.UUID
	inactiveID kernel.UUID
}

func (suite *FulfillmentIntegrationTestSuite) SetupSuite() {
	container, db, err := pgtest.Start(context.Background())
	suite.container = container
	suite.Require().NoError(err)
	suite.db = db
}

func (suite *FulfillmentIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(pgtest.Truncate(suite.db))

	logger := slog.Default()
	app, err := cmd.NewCompositionRoot(cmd.Config{NotificationMaxAttempts: 5}, suite.db, notifier.NewLogPublisher(logger), nil, logger)
	suite.Require().NoError(err)
	suite.app = app

	suite.customerID = suite.seedUser("Nguyen Thi Khach", user.RoleUser, true)
	owner := suite.seedUser("Le Van Chu", user.RoleUser, true)
	suite.shipperA = suite.seedUser("Tran Van Ship", user.RoleUser, true)
	suite.shipperB = suite.seedUser("Pham Van Giao", user.RoleShipper, true)
	suite.inactiveID = suite.seedUser("Do Van Nghi", user.RoleShipper, false)

	suite.storeID = kernel.NewUUID()
	suite.Require().NoError(suite.db.Create(&catalogrepo.StoreDTO{
		ID:          suite.storeID.Bytes(),
		OwnerID:     owner.Bytes(),
		Name:        "Pho Thin",
		Address:     "13 Lo Duc, Hanoi",
		PhoneNumber: "0901234567",
	}).Error)

	suite.foodIDs = []kernel.UUID{kernel.NewUUID(), kernel.NewUUID()}
	suite.Require().NoError(suite.db.Create(&[]catalogrepo.FoodDTO{
		{ID: suite.foodIDs[0].Bytes(), StoreID: suite.storeID.Bytes(), Name: "Pho bo tai", Price: decimal.NewFromInt(30000)},
		{ID: suite.foodIDs[1].Bytes(), StoreID: suite.storeID.Bytes(), Name: "Quay", Price: decimal.NewFromInt(10000)},
	}).Error)
}

func (suite *FulfillmentIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *FulfillmentIntegrationTestSuite) seedUser(name string, role user.Role, active bool) kernel.UUID {
	id := kernel.NewUUID()
	suite.Require().NoError(suite.db.Create(&userrepo.UserDTO{
		ID:          id.Bytes(),
		FullName:    name,
		PhoneNumber: "0900000000",
		Role:        string(role),
		Status:      string(user.StatusApproved),
		Active:      active,
	}).Error)
	return id
}

func (suite *FulfillmentIntegrationTestSuite) money(v int64) kernel.Money {
	m, err := kernel.NewMoney(decimal.NewFromInt(v))
	suite.Require().NoError(err)
	return m
}

// placeOrder creates 1 x 30000 + 2 x 10000 = 50000 with a 20000 shipping fee.
func (suite *FulfillmentIntegrationTestSuite) placeOrder(ctx context.Context) kernel.UUID {
	first, err := order.NewItem(suite.foodIDs[0], suite.storeID, 1, suite.money(30000))
	suite.Require().NoError(err)
	second, err := order.NewItem(suite.foodIDs[1], suite.storeID, 2, suite.money(10000))
	suite.Require().NoError(err)
	delivery, err := kernel.NewAddress("12 Ly Thuong Kiet, Hanoi", nil)
	suite.Require().NoError(err)

	command, err := commands.NewPlaceOrderCommand(kernel.NewUUID(), order.Checkout{
		CustomerID:    suite.customerID,
		Delivery:      delivery,
		Items:         []order.Item{first, second},
		TotalAmount:   suite.money(50000),
		ShippingFee:   suite.money(20000),
		PaymentMethod: "cash",
	})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.app.CreatePlaceOrderCommandHandler().Handle(ctx, command))
	return command.OrderID()
}

func (suite *FulfillmentIntegrationTestSuite) review(ctx context.Context, orderID kernel.UUID, decision commands.ReviewDecision) (order.Status, error) {
	command, err := commands.NewReviewOrderCommand(orderID, suite.storeID, decision)
	suite.Require().NoError(err)
	return suite.app.CreateReviewOrderCommandHandler().Handle(ctx, command)
}

func (suite *FulfillmentIntegrationTestSuite) accept(ctx context.Context, orderID, shipperID kernel.UUID) error {
	command, err := commands.NewAcceptOrderCommand(orderID, shipperID)
	suite.Require().NoError(err)
	return suite.app.CreateAcceptOrderCommandHandler().Handle(ctx, command)
}

func (suite *FulfillmentIntegrationTestSuite) start(ctx context.Context, orderID, shipperID kernel.UUID) error {
	command, err := commands.NewStartDeliveryCommand(orderID, shipperID)
	suite.Require().NoError(err)
	return suite.app.CreateStartDeliveryCommandHandler().Handle(ctx, command)
}

func (suite *FulfillmentIntegrationTestSuite) complete(ctx context.Context, orderID, shipperID kernel.UUID) error {
	command, err := commands.NewCompleteDeliveryCommand(orderID, shipperID)
	suite.Require().NoError(err)
	return suite.app.CreateCompleteDeliveryCommandHandler().Handle(ctx, command)
}

func (suite *FulfillmentIntegrationTestSuite) getOrder(ctx context.Context, orderID kernel.UUID) queries.OrderView {
	query, err := queries.NewGetOrderQuery(orderID)
	suite.Require().NoError(err)
	view, err := suite.app.CreateGetOrderQueryHandler().Handle(ctx, query)
	suite.Require().NoError(err)
	return view
}

func (suite *FulfillmentIntegrationTestSuite) list(ctx context.Context, filter queries.OrderFilter, subject kernel.UUID) []queries.OrderView {
	query, err := queries.NewListOrdersQuery(filter, subject)
	suite.Require().NoError(err)
	views, err := suite.app.CreateListOrdersQueryHandler().Handle(ctx, query)
	suite.Require().NoError(err)
	return views
}

func (suite *FulfillmentIntegrationTestSuite) TestFullLifecycle() {
	ctx := context.Background()
	orderID := suite.placeOrder(ctx)

	placed := suite.getOrder(ctx, orderID)
	suite.Equal(order.Pending, placed.Status)
	suite.Equal("Nguyen Thi Khach", placed.CustomerName)
	suite.Require().Len(placed.Items, 2)
	suite.Equal("Pho Thin", placed.Items[0].StoreName)
	suite.Len(suite.list(ctx, queries.FilterPending, kernel.UUID{}), 1)

	status, err := suite.review(ctx, orderID, commands.ReviewAccepted)
	suite.Require().NoError(err)
	suite.Equal(order.Confirmed, status)
	suite.Len(suite.list(ctx, queries.FilterConfirmed, kernel.UUID{}), 1)

	// Two shippers race for the order.
	errsByShipper := make(map[kernel.UUID]error, 2)
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, shipperID := range []kernel.UUID{suite.shipperA, suite.shipperB} {
		wg.Add(1)
		go func(id kernel.UUID) {
			defer wg.Done()
			command, err := commands.NewAcceptOrderCommand(orderID, id)
			if err == nil {
				err = suite.app.CreateAcceptOrderCommandHandler().Handle(ctx, command)
			}
			mu.Lock()
			errsByShipper[id] = err
			mu.Unlock()
		}(shipperID)
	}
	wg.Wait()

	var winner, loser kernel.UUID
	successes := 0
	for id, err := range errsByShipper {
		if err == nil {
			successes++
			winner = id
			continue
		}
		loser = id
		kind := errs.KindOf(err)
		suite.Contains([]errs.Kind{errs.KindAlreadyTaken, errs.KindInvalidState}, kind, "loser got %v", err)
	}
	suite.Require().Equal(1, successes, "exactly one shipper wins")

	assigned := suite.getOrder(ctx, orderID)
	suite.Equal(order.Preparing, assigned.Status)
	suite.Require().NotNil(assigned.ShipperID)
	suite.True(assigned.ShipperID.IsEqual(winner))
	suite.Len(suite.list(ctx, queries.FilterShipperActive, winner), 1)
	suite.Empty(suite.list(ctx, queries.FilterShipperActive, loser))

	// Completing before starting is refused and changes nothing.
	err = suite.complete(ctx, orderID, winner)
	suite.Equal(errs.KindInvalidState, errs.KindOf(err))
	suite.Equal(order.Preparing, suite.getOrder(ctx, orderID).Status)

	// The losing shipper cannot drive the delivery.
	err = suite.start(ctx, orderID, loser)
	suite.Equal(errs.KindUnauthorized, errs.KindOf(err))
	suite.Equal(order.Preparing, suite.getOrder(ctx, orderID).Status)

	suite.Require().NoError(suite.start(ctx, orderID, winner))
	suite.Equal(order.Delivering, suite.getOrder(ctx, orderID).Status)

	err = suite.complete(ctx, orderID, loser)
	suite.Equal(errs.KindUnauthorized, errs.KindOf(err))

	suite.Require().NoError(suite.complete(ctx, orderID, winner))
	completed := suite.getOrder(ctx, orderID)
	suite.Equal(order.Completed, completed.Status)
	suite.NotNil(completed.CompletedAt)
	suite.Empty(suite.list(ctx, queries.FilterShipperActive, winner))
	suite.Len(suite.list(ctx, queries.FilterStore, suite.storeID), 1)
	suite.Len(suite.list(ctx, queries.FilterCustomer, suite.customerID), 1)

	// Earnings: 0.8 x 20000.
	query, err := queries.NewGetShipperEarningsQuery(winner)
	suite.Require().NoError(err)
	earnings, err := suite.app.CreateGetShipperEarningsQueryHandler().Handle(ctx, query)
	suite.Require().NoError(err)
	suite.True(earnings.Total.Equal(decimal.NewFromInt(16000)), "total %s", earnings.Total)
	suite.True(earnings.Month.Equal(decimal.NewFromInt(16000)), "month %s", earnings.Month)
	suite.Require().Len(earnings.History, 1)
	suite.True(earnings.History[0].OrderID.IsEqual(orderID))
	suite.True(earnings.History[0].ShippingFee.Equal(decimal.NewFromInt(20000)))

	loserQuery, err := queries.NewGetShipperEarningsQuery(loser)
	suite.Require().NoError(err)
	loserEarnings, err := suite.app.CreateGetShipperEarningsQueryHandler().Handle(ctx, loserQuery)
	suite.Require().NoError(err)
	suite.True(loserEarnings.Total.IsZero())

	var ledger int64
	suite.Require().NoError(suite.db.Table("earnings").Where("order_id = ?", orderID.Bytes()).Count(&ledger).Error)
	suite.Equal(int64(1), ledger)

	// confirmed, accepted, started, completed
	var notifications []struct {
		Type      string
		Published bool
	}
	suite.Require().NoError(suite.db.Table("notifications").
		Select("type, published").
		Where("order_id = ?", orderID.Bytes()).
		Order("created_at").
		Scan(&notifications).Error)
	suite.Require().Len(notifications, 4)
	for _, n := range notifications {
		suite.True(n.Published, n.Type)
	}
	suite.Equal("order_confirmed", notifications[0].Type)
	suite.Equal("delivery_completed", notifications[3].Type)
}

func (suite *FulfillmentIntegrationTestSuite) TestAcceptPromotesUserToShipper() {
	ctx := context.Background()
	orderID := suite.placeOrder(ctx)
	_, err := suite.review(ctx, orderID, commands.ReviewAccepted)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.accept(ctx, orderID, suite.shipperA))

	var role string
	suite.Require().NoError(suite.db.Table("users").Select("role").
		Where("id = ?", suite.shipperA.Bytes()).Scan(&role).Error)
	suite.Equal("shipper", role)

	var offer struct {
		Status    string
		ShipperID uuid.UUID
	}
	suite.Require().NoError(suite.db.Table("shipper_offers").Select("status, shipper_id").
		Where("order_id = ?", orderID.Bytes()).Scan(&offer).Error)
	suite.Equal("taken", offer.Status)
	suite.Equal(suite.shipperA.Bytes(), offer.ShipperID)
}

func (suite *FulfillmentIntegrationTestSuite) TestAcceptRefusals() {
	ctx := context.Background()
	orderID := suite.placeOrder(ctx)

	err := suite.accept(ctx, orderID, suite.shipperA)
	suite.Equal(errs.KindInvalidState, errs.KindOf(err), "pending orders cannot be accepted")
	current, ok := errs.CurrentStatus(err)
	suite.True(ok)
	suite.Equal("pending", current)

	_, err = suite.review(ctx, orderID, commands.ReviewAccepted)
	suite.Require().NoError(err)

	err = suite.accept(ctx, orderID, suite.inactiveID)
	suite.Equal(errs.KindUnauthorized, errs.KindOf(err))

	err = suite.accept(ctx, orderID, kernel.NewUUID())
	suite.Equal(errs.KindNotFound, errs.KindOf(err))

	err = suite.accept(ctx, kernel.NewUUID(), suite.shipperA)
	suite.Equal(errs.KindNotFound, errs.KindOf(err))

	suite.Equal(order.Confirmed, suite.getOrder(ctx, orderID).Status)
}

func (suite *FulfillmentIntegrationTestSuite) TestReviewReject() {
	ctx := context.Background()
	orderID := suite.placeOrder(ctx)

	status, err := suite.review(ctx, orderID, commands.ReviewRejected)
	suite.Require().NoError(err)
	suite.Equal(order.Cancelled, status)

	_, err = suite.review(ctx, orderID, commands.ReviewAccepted)
	suite.Equal(errs.KindInvalidState, errs.KindOf(err))

	var offers int64
	suite.Require().NoError(suite.db.Table("shipper_offers").Where("order_id = ?", orderID.Bytes()).Count(&offers).Error)
	suite.Zero(offers)
}

func (suite *FulfillmentIntegrationTestSuite) TestReviewByForeignStore() {
	ctx := context.Background()
	orderID := suite.placeOrder(ctx)

	command, err := commands.NewReviewOrderCommand(orderID, kernel.NewUUID(), commands.ReviewAccepted)
	suite.Require().NoError(err)
	_, err = suite.app.CreateReviewOrderCommandHandler().Handle(ctx, command)

	suite.Equal(errs.KindUnauthorized, errs.KindOf(err))
	suite.Equal(order.Pending, suite.getOrder(ctx, orderID).Status)
}

func (suite *FulfillmentIntegrationTestSuite) TestNotificationRelayRepublishes() {
	ctx := context.Background()
	orderID := suite.placeOrder(ctx)
	_, err := suite.review(ctx, orderID, commands.ReviewAccepted)
	suite.Require().NoError(err)

	// Simulate a broker outage at publish time.
	suite.Require().NoError(suite.db.Exec(
		`UPDATE notifications SET published = false, attempts = 1, last_error = 'broker down' WHERE order_id = ?`,
		orderID.Bytes()).Error)

	logger := slog.Default()
	app, err := cmd.NewCompositionRoot(cmd.Config{
		RelaySchedule:           "* * * * * *",
		RelayBatch:              10,
		NotificationMaxAttempts: 5,
	}, suite.db, notifier.NewLogPublisher(logger), nil, logger)
	suite.Require().NoError(err)

	jobManager := app.CreateJobManager()
	suite.Require().NoError(jobManager.StartAll())
	defer jobManager.StopAll()

	suite.Eventually(func() bool {
		var pending int64
		if err := suite.db.Table("notifications").Where("published = false").Count(&pending).Error; err != nil {
			return false
		}
		return pending == 0
	}, 5*time.Second, 100*time.Millisecond)

	var attempts int
	suite.Require().NoError(suite.db.Table("notifications").Select("attempts").
		Where("order_id = ?", orderID.Bytes()).Scan(&attempts).Error)
	suite.Equal(2, attempts)
}

// memoryEarningsCache keeps summaries until invalidated, like a cache whose
// TTL never expires during the test.
type memoryEarningsCache struct {
	mu      sync.Mutex
	entries map[kernel.UUID]queries.ShipperEarnings
}

func (c *memoryEarningsCache) Get(_ context.Context, shipperID kernel.UUID) (queries.ShipperEarnings, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[shipperID]
	return e, ok, nil
}

func (c *memoryEarningsCache) Set(_ context.Context, shipperID kernel.UUID, earnings queries.ShipperEarnings) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[shipperID] = earnings
	return nil
}

func (c *memoryEarningsCache) Invalidate(_ context.Context, shipperID kernel.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, shipperID)
	return nil
}

func (suite *FulfillmentIntegrationTestSuite) TestCachedEarningsIncludeNewCompletion() {
	ctx := context.Background()
	logger := slog.Default()
	cache := &memoryEarningsCache{entries: make(map[kernel.UUID]queries.ShipperEarnings)}
	app, err := cmd.NewCompositionRoot(cmd.Config{NotificationMaxAttempts: 5}, suite.db, notifier.NewLogPublisher(logger), cache, logger)
	suite.Require().NoError(err)
	suite.app = app

	orderID := suite.placeOrder(ctx)
	_, err = suite.review(ctx, orderID, commands.ReviewAccepted)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.accept(ctx, orderID, suite.shipperB))
	suite.Require().NoError(suite.start(ctx, orderID, suite.shipperB))

	query, err := queries.NewGetShipperEarningsQuery(suite.shipperB)
	suite.Require().NoError(err)
	before, err := app.CreateGetShipperEarningsQueryHandler().Handle(ctx, query)
	suite.Require().NoError(err)
	suite.True(before.Total.IsZero())
	_, cached, _ := cache.Get(ctx, suite.shipperB)
	suite.Require().True(cached)

	suite.Require().NoError(suite.complete(ctx, orderID, suite.shipperB))

	after, err := app.CreateGetShipperEarningsQueryHandler().Handle(ctx, query)
	suite.Require().NoError(err)
	suite.True(after.Total.Equal(decimal.NewFromInt(16000)), "total %s", after.Total)
	suite.True(after.Month.Equal(decimal.NewFromInt(16000)), "month %s", after.Month)
	suite.Require().Len(after.History, 1)
}

func TestFulfillmentIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(FulfillmentIntegrationTestSuite))
}
