package orderrepo

import (
	"context"
	"errors"

	"marketplace/internal/adapters/out/postgres/pgerr"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements ports.OrderRepository. It is bound to the
// connection or transaction it was created with.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add inserts the order row and then every item row. Run it inside a
// transaction: a failing item leaves nothing behind only after rollback.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)

	if err := db.Omit(clause.Associations).Create(&dto).Error; err != nil {
		return pgerr.Classify("insert order", err)
	}

	if len(dto.Items) > 0 {
		if err := db.Create(&dto.Items).Error; err != nil {
			return pgerr.Classify("insert order items", err)
		}
	}

	return nil
}

// Update writes the mutable columns of the order, guarded by the status it
// was read in. Items are never rewritten.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order, expected order.Status) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND status = ?", dto.ID, expected.String()).
		Updates(map[string]any{
			"status":       dto.Status,
			"shipper_id":   dto.ShipperID,
			"updated_at":   dto.UpdatedAt,
			"completed_at": dto.CompletedAt,
		})
	if result.Error != nil {
		return pgerr.Classify("update order", result.Error)
	}

	if result.RowsAffected == 0 {
		return r.missedUpdate(ctx, aggregate.ID())
	}

	return nil
}

// missedUpdate explains why a guarded update matched no row.
func (r *GormOrderRepository) missedUpdate(ctx context.Context, id kernel.UUID) error {
	var current OrderDTO
	err := r.db.WithContext(ctx).Select("status").Take(&current, "id = ?", id.Bytes()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewObjectNotFoundError("order", id.String())
	}
	if err != nil {
		return pgerr.Classify("read order status", err)
	}

	return errs.NewInvalidStateErrorWithCause("update", current.Status, errs.ErrConcurrentModification)
}

func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.load(ctx, id, r.db.WithContext(ctx))
}

// GetForUpdate locks the order row with SELECT ... FOR UPDATE. Concurrent
// callers for the same order wait until the holder's transaction ends and
// then see its committed status.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.load(ctx, id, r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}))
}

func (r *GormOrderRepository) load(ctx context.Context, id kernel.UUID, query *gorm.DB) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := query.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, pgerr.Classify("select order", err)
	}

	if err := r.db.WithContext(ctx).
		Where("order_id = ?", dto.ID).
		Order("id").
		Find(&dto.Items).Error; err != nil {
		return nil, pgerr.Classify("select order items", err)
	}

	return toDomain(dto)
}
