package cmd

import (
	"log/slog"

	httpapi "marketplace/internal/adapters/in/http"
	"marketplace/internal/adapters/out/notifier"
	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/adapters/out/postgres/notificationrepo"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/ports"
	"marketplace/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	dispatcher *notifier.Dispatcher
	cache      queries.EarningsCache
	logger     *slog.Logger
}

// NewCompositionRoot wires the application. cache may be nil.
func NewCompositionRoot(
	cfg Config,
	gormDB *gorm.DB,
	publisher ports.MessagePublisher,
	cache queries.EarningsCache,
	logger *slog.Logger,
) (CompositionRoot, error) {
	dispatcher, err := notifier.NewDispatcher(
		notificationrepo.NewGormNotificationRepository(gormDB),
		publisher,
		logger,
	)
	if err != nil {
		return CompositionRoot{}, err
	}

	return CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		dispatcher: dispatcher.WithMaxAttempts(cfg.NotificationMaxAttempts),
		cache:      cache,
		logger:     logger,
	}, nil
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) fulfillmentUoWFactory() commands.FulfillmentUoWFactory {
	return FuncFulfillmentUoWFactory(func() commands.FulfillmentUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() commands.PlaceOrderCommandHandler {
	return commands.NewPlaceOrderCommandHandler(c.orderUoWFactory(), c.logger)
}

func (c *CompositionRoot) CreateReviewOrderCommandHandler() commands.ReviewOrderCommandHandler {
	return commands.NewReviewOrderCommandHandler(c.fulfillmentUoWFactory(), c.dispatcher, c.logger)
}

func (c *CompositionRoot) CreateAcceptOrderCommandHandler() commands.AcceptOrderCommandHandler {
	return commands.NewAcceptOrderCommandHandler(c.fulfillmentUoWFactory(), c.dispatcher, c.logger)
}

func (c *CompositionRoot) CreateStartDeliveryCommandHandler() commands.StartDeliveryCommandHandler {
	return commands.NewStartDeliveryCommandHandler(c.fulfillmentUoWFactory(), c.dispatcher, c.logger)
}

func (c *CompositionRoot) CreateCompleteDeliveryCommandHandler() commands.CompleteDeliveryCommandHandler {
	handler := commands.NewCompleteDeliveryCommandHandler(c.fulfillmentUoWFactory(), c.dispatcher, c.logger)
	if c.cache == nil {
		return handler
	}
	return handler.WithEarningsCache(c.cache)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetShipperEarningsQueryHandler() queries.GetShipperEarningsQueryHandler {
	return queries.NewGetShipperEarningsQueryHandler(c.gormDB, c.cache, c.logger)
}

func (c *CompositionRoot) CreateHTTPServer() *httpapi.Server {
	return httpapi.NewServer(httpapi.Handlers{
		PlaceOrder:       c.CreatePlaceOrderCommandHandler(),
		ReviewOrder:      c.CreateReviewOrderCommandHandler(),
		AcceptOrder:      c.CreateAcceptOrderCommandHandler(),
		StartDelivery:    c.CreateStartDeliveryCommandHandler(),
		CompleteDelivery: c.CreateCompleteDeliveryCommandHandler(),
		ListOrders:       c.CreateListOrdersQueryHandler(),
		GetOrder:         c.CreateGetOrderQueryHandler(),
		ShipperEarnings:  c.CreateGetShipperEarningsQueryHandler(),
	}, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	relay := jobs.NewNotificationRelayJob(c.dispatcher, c.cfg.RelaySchedule, c.cfg.RelayBatch, c.logger)
	return jobs.NewJobManager(c.logger, relay)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncFulfillmentUoWFactory func() commands.FulfillmentUoW

func (f FuncFulfillmentUoWFactory) Create() commands.FulfillmentUoW {
	return f()
}
