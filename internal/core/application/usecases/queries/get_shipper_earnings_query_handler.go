package queries

import (
	"context"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/model/earning"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// EarningsCache keeps recently computed summaries. A miss or a failure only
// costs a recomputation. Completing a delivery invalidates the shipper's entry.
type EarningsCache interface {
	Get(ctx context.Context, shipperID kernel.UUID) (ShipperEarnings, bool, error)
	Set(ctx context.Context, shipperID kernel.UUID, earnings ShipperEarnings) error
	Invalidate(ctx context.Context, shipperID kernel.UUID) error
}

// GetShipperEarningsQueryHandler projects the earnings of a shipper from the
// orders table. The summary is eventually consistent when a cache is set.
type GetShipperEarningsQueryHandler struct {
	db     *gorm.DB
	cache  EarningsCache
	logger *slog.Logger
	now    func() time.Time
}

func NewGetShipperEarningsQueryHandler(
	db *gorm.DB,
	cache EarningsCache,
	logger *slog.Logger,
) GetShipperEarningsQueryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return GetShipperEarningsQueryHandler{
		db:     db,
		cache:  cache,
		logger: logger.With("component", "shipper_earnings"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock returns a copy of h that buckets earnings relative to now.
func (h GetShipperEarningsQueryHandler) WithClock(now func() time.Time) GetShipperEarningsQueryHandler {
	h.now = now
	return h
}

func (h GetShipperEarningsQueryHandler) Handle(
	ctx context.Context,
	query GetShipperEarningsQuery,
) (ShipperEarnings, error) {
	if err := query.Validate(); err != nil {
		return ShipperEarnings{}, err
	}

	shipperID := query.ShipperID()
	if h.cache != nil {
		cached, ok, err := h.cache.Get(ctx, shipperID)
		if err != nil {
			h.logger.WarnContext(ctx, "earnings cache read failed", "shipper_id", shipperID.String(), "error", err)
		}
		if ok {
			return cached, nil
		}
	}

	periods := PeriodsAt(h.now())
	var result ShipperEarnings

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		result.Total, err = h.sum(gctx, shipperID, nil)
		return err
	})
	g.Go(func() (err error) {
		result.Today, err = h.sum(gctx, shipperID, &periods.Day)
		return err
	})
	g.Go(func() (err error) {
		result.Week, err = h.sum(gctx, shipperID, &periods.Week)
		return err
	})
	g.Go(func() (err error) {
		result.Month, err = h.sum(gctx, shipperID, &periods.Month)
		return err
	})
	g.Go(func() (err error) {
		result.History, err = h.history(gctx, shipperID)
		return err
	})
	if err := g.Wait(); err != nil {
		return ShipperEarnings{}, err
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, shipperID, result); err != nil {
			h.logger.WarnContext(ctx, "earnings cache write failed", "shipper_id", shipperID.String(), "error", err)
		}
	}

	return result, nil
}

// sum adds up the shipper's share of completed orders, optionally only those
// completed at or after since.
func (h GetShipperEarningsQueryHandler) sum(
	ctx context.Context,
	shipperID kernel.UUID,
	since *time.Time,
) (decimal.Decimal, error) {
	sql := `
		SELECT COALESCE(SUM(shipping_fee), 0)
		FROM orders
		WHERE shipper_id = ? AND status = ?`
	args := []any{shipperID.Bytes(), order.Completed.String()}
	if since != nil {
		sql += " AND completed_at >= ?"
		args = append(args, *since)
	}

	var fees decimal.Decimal
	if err := h.db.WithContext(ctx).Raw(sql, args...).Row().Scan(&fees); err != nil {
		return decimal.Zero, errs.NewPersistenceError("sum shipper earnings", err)
	}

	return fees.Mul(earning.ShipperShare), nil
}

func (h GetShipperEarningsQueryHandler) history(ctx context.Context, shipperID kernel.UUID) ([]EarningRecord, error) {
	records := make([]EarningRecord, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			completed_at,
			shipping_fee
		FROM orders
		WHERE shipper_id = ? AND status = ? AND completed_at IS NOT NULL
		ORDER BY completed_at DESC
		LIMIT ?
	`, shipperID.Bytes(), order.Completed.String(), HistoryLimit).Rows()
	if err != nil {
		return nil, errs.NewPersistenceError("select earnings history", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			record EarningRecord
			id     uuid.UUID
		)
		if err = rows.Scan(&id, &record.CompletedAt, &record.ShippingFee); err != nil {
			return nil, errs.NewPersistenceError("scan earnings history", err)
		}
		if record.OrderID, err = kernel.UUIDFromRaw(id); err != nil {
			return nil, err
		}
		record.Amount = record.ShippingFee.Mul(earning.ShipperShare)
		records = append(records, record)
	}
	if err = rows.Err(); err != nil {
		return nil, errs.NewPersistenceError("iterate earnings history", err)
	}

	return records, nil
}
