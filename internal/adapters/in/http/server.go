// Package http exposes the order lifecycle over a JSON HTTP API built on echo.
// Requests are checked against the embedded OpenAPI document before they
// reach a handler; errors are answered with ErrorResponse.
package http

import (
	"context"
	"log/slog"
	"net/http"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

type (
	PlaceOrderHandler interface {
		Handle(ctx context.Context, command commands.PlaceOrderCommand) error
	}
	ReviewOrderHandler interface {
		Handle(ctx context.Context, command commands.ReviewOrderCommand) (order.Status, error)
	}
	AcceptOrderHandler interface {
		Handle(ctx context.Context, command commands.AcceptOrderCommand) error
	}
	StartDeliveryHandler interface {
		Handle(ctx context.Context, command commands.StartDeliveryCommand) error
	}
	CompleteDeliveryHandler interface {
		Handle(ctx context.Context, command commands.CompleteDeliveryCommand) error
	}
	ListOrdersHandler interface {
		Handle(ctx context.Context, query queries.ListOrdersQuery) ([]queries.OrderView, error)
	}
	GetOrderHandler interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.OrderView, error)
	}
	ShipperEarningsHandler interface {
		Handle(ctx context.Context, query queries.GetShipperEarningsQuery) (queries.ShipperEarnings, error)
	}
)

// Handlers are the use cases the server dispatches to.
type Handlers struct {
	PlaceOrder       PlaceOrderHandler
	ReviewOrder      ReviewOrderHandler
	AcceptOrder      AcceptOrderHandler
	StartDelivery    StartDeliveryHandler
	CompleteDelivery CompleteDeliveryHandler
	ListOrders       ListOrdersHandler
	GetOrder         GetOrderHandler
	ShipperEarnings  ShipperEarningsHandler
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	handlers Handlers
	logger   *slog.Logger
}

func NewServer(handlers Handlers, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{handlers: handlers, logger: logger.With("component", "http")}
}

// Register mounts the API, the health probe and Swagger UI on e. A nil doc
// disables request validation.
func (s *Server) Register(e *echo.Echo, doc *openapi3.T) error {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	registerSwagger(e)

	api := e.Group("/api/v1")
	if doc != nil {
		validator, err := s.requestValidator(doc)
		if err != nil {
			return err
		}
		api.Use(validator)
	}

	api.POST("/orders", s.PlaceOrder)
	api.GET("/orders/pending", s.ListPendingOrders)
	api.GET("/orders/confirmed", s.ListConfirmedOrders)
	api.GET("/orders/store/:storeId", s.ListStoreOrders)
	api.GET("/orders/shipper/:shipperId/active", s.ListActiveShipperOrders)
	api.GET("/orders/user/:userId", s.ListCustomerOrders)
	api.GET("/orders/:orderId", s.GetOrder)
	api.PUT("/orders/:orderId/review", s.ReviewOrder)
	api.POST("/orders/:orderId/accept", s.AcceptOrder)
	api.POST("/orders/:orderId/start-delivery", s.StartDelivery)
	api.POST("/orders/:orderId/complete-delivery", s.CompleteDelivery)
	api.GET("/earnings/shipper/:shipperId", s.GetShipperEarnings)

	return nil
}

// pathUUID binds a simple-style path parameter holding a UUID.
func pathUUID(c echo.Context, name string) (kernel.UUID, error) {
	var raw openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &raw,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}

	id, err := kernel.UUIDFromRaw(raw)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}

// PlaceOrder handles POST /api/v1/orders.
func (s *Server) PlaceOrder(c echo.Context) error {
	var req PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return s.writeError(c, badRequest("body", err))
	}

	checkout, err := req.checkout()
	if err != nil {
		return s.writeError(c, err)
	}

	cmd, err := commands.NewPlaceOrderCommand(kernel.NewUUID(), checkout)
	if err != nil {
		return s.writeError(c, err)
	}

	if err = s.handlers.PlaceOrder.Handle(c.Request().Context(), cmd); err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusCreated, PlaceOrderResponse{OrderID: cmd.OrderID().String()})
}

// ReviewOrder handles PUT /api/v1/orders/{orderId}/review.
func (s *Server) ReviewOrder(c echo.Context) error {
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return s.writeError(c, err)
	}

	var req ReviewOrderRequest
	if err = c.Bind(&req); err != nil {
		return s.writeError(c, badRequest("body", err))
	}
	storeID, err := kernel.UUIDFromRaw(req.StoreID)
	if err != nil {
		return s.writeError(c, errs.NewValueIsRequiredErrorWithCause("storeId", err))
	}

	cmd, err := commands.NewReviewOrderCommand(orderID, storeID, commands.ReviewDecision(req.Status))
	if err != nil {
		return s.writeError(c, err)
	}

	status, err := s.handlers.ReviewOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, ReviewOrderResponse{NewStatus: status.String()})
}

// shipperAction reads the order id from the path and the shipper id from the body.
func (s *Server) shipperAction(c echo.Context) (kernel.UUID, kernel.UUID, error) {
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}

	var req ShipperActionRequest
	if err = c.Bind(&req); err != nil {
		return kernel.UUID{}, kernel.UUID{}, badRequest("body", err)
	}
	shipperID, err := kernel.UUIDFromRaw(req.ShipperID)
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, errs.NewValueIsRequiredErrorWithCause("shipperId", err)
	}

	return orderID, shipperID, nil
}

// AcceptOrder handles POST /api/v1/orders/{orderId}/accept.
func (s *Server) AcceptOrder(c echo.Context) error {
	orderID, shipperID, err := s.shipperAction(c)
	if err != nil {
		return s.writeError(c, err)
	}

	cmd, err := commands.NewAcceptOrderCommand(orderID, shipperID)
	if err != nil {
		return s.writeError(c, err)
	}

	if err = s.handlers.AcceptOrder.Handle(c.Request().Context(), cmd); err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, AcceptOrderResponse{Success: true, OrderID: orderID.String()})
}

// StartDelivery handles POST /api/v1/orders/{orderId}/start-delivery.
func (s *Server) StartDelivery(c echo.Context) error {
	orderID, shipperID, err := s.shipperAction(c)
	if err != nil {
		return s.writeError(c, err)
	}

	cmd, err := commands.NewStartDeliveryCommand(orderID, shipperID)
	if err != nil {
		return s.writeError(c, err)
	}

	if err = s.handlers.StartDelivery.Handle(c.Request().Context(), cmd); err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// CompleteDelivery handles POST /api/v1/orders/{orderId}/complete-delivery.
func (s *Server) CompleteDelivery(c echo.Context) error {
	orderID, shipperID, err := s.shipperAction(c)
	if err != nil {
		return s.writeError(c, err)
	}

	cmd, err := commands.NewCompleteDeliveryCommand(orderID, shipperID)
	if err != nil {
		return s.writeError(c, err)
	}

	if err = s.handlers.CompleteDelivery.Handle(c.Request().Context(), cmd); err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(c echo.Context) error {
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return s.writeError(c, err)
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return s.writeError(c, err)
	}

	view, err := s.handlers.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, toOrder(view))
}

func (s *Server) ListPendingOrders(c echo.Context) error {
	return s.listOrders(c, queries.FilterPending, kernel.UUID{})
}

func (s *Server) ListConfirmedOrders(c echo.Context) error {
	return s.listOrders(c, queries.FilterConfirmed, kernel.UUID{})
}

func (s *Server) ListStoreOrders(c echo.Context) error {
	storeID, err := pathUUID(c, "storeId")
	if err != nil {
		return s.writeError(c, err)
	}
	return s.listOrders(c, queries.FilterStore, storeID)
}

func (s *Server) ListActiveShipperOrders(c echo.Context) error {
	shipperID, err := pathUUID(c, "shipperId")
	if err != nil {
		return s.writeError(c, err)
	}
	return s.listOrders(c, queries.FilterShipperActive, shipperID)
}

func (s *Server) ListCustomerOrders(c echo.Context) error {
	userID, err := pathUUID(c, "userId")
	if err != nil {
		return s.writeError(c, err)
	}
	return s.listOrders(c, queries.FilterCustomer, userID)
}

func (s *Server) listOrders(c echo.Context, filter queries.OrderFilter, subject kernel.UUID) error {
	query, err := queries.NewListOrdersQuery(filter, subject)
	if err != nil {
		return s.writeError(c, err)
	}

	views, err := s.handlers.ListOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, toOrders(views))
}

// GetShipperEarnings handles GET /api/v1/earnings/shipper/{shipperId}.
func (s *Server) GetShipperEarnings(c echo.Context) error {
	shipperID, err := pathUUID(c, "shipperId")
	if err != nil {
		return s.writeError(c, err)
	}

	query, err := queries.NewGetShipperEarningsQuery(shipperID)
	if err != nil {
		return s.writeError(c, err)
	}

	earnings, err := s.handlers.ShipperEarnings.Handle(c.Request().Context(), query)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, toShipperEarnings(earnings))
}
