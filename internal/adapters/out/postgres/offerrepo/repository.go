// Package offerrepo stores shipper offers: the per order record that shows
// a confirmed order to shippers until one of them takes it.
package offerrepo

import (
	"context"
	"time"

	"marketplace/internal/adapters/out/postgres/pgerr"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending   = "pending"
	StatusTaken     = "taken"
	StatusWithdrawn = "withdrawn"
)

type ShipperOfferDTO struct {
	ID        uint64     `gorm:"primaryKey;autoIncrement"`
	OrderID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	Status    string     `gorm:"type:varchar(16);not null;index"`
	ShipperID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time  `gorm:"not null"`
	UpdatedAt time.Time  `gorm:"not null"`
}

func (ShipperOfferDTO) TableName() string {
	return "shipper_offers"
}

type GormShipperOfferRepository struct {
	db *gorm.DB
}

func NewGormShipperOfferRepository(db *gorm.DB) *GormShipperOfferRepository {
	return &GormShipperOfferRepository{db: db}
}

func (r *GormShipperOfferRepository) Open(ctx context.Context, orderID kernel.UUID) error {
	dto := ShipperOfferDTO{OrderID: orderID.Bytes(), Status: StatusPending}
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerr.Classify("insert shipper offer", err)
	}
	return nil
}

// Take marks the pending offer of an order as taken by shipperID. It fails
// with errs.ErrObjectNotFound when the order has no pending offer.
func (r *GormShipperOfferRepository) Take(ctx context.Context, orderID, shipperID kernel.UUID) error {
	shipper := shipperID.Bytes()
	return r.transition(ctx, orderID, StatusTaken, &shipper, true)
}

// Withdraw closes a pending offer. Orders without one are left alone.
func (r *GormShipperOfferRepository) Withdraw(ctx context.Context, orderID kernel.UUID) error {
	return r.transition(ctx, orderID, StatusWithdrawn, nil, false)
}

func (r *GormShipperOfferRepository) transition(
	ctx context.Context,
	orderID kernel.UUID,
	status string,
	shipperID *uuid.UUID,
	required bool,
) error {
	updates := map[string]any{"status": status}
	if shipperID != nil {
		updates["shipper_id"] = *shipperID
	}

	result := r.db.WithContext(ctx).
		Model(&ShipperOfferDTO{}).
		Where("order_id = ? AND status = ?", orderID.Bytes(), StatusPending).
		Updates(updates)
	if result.Error != nil {
		return pgerr.Classify("update shipper offer", result.Error)
	}
	if required && result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("shipper offer", orderID.String())
	}
	return nil
}
