// Package earningrepo writes the shipper earnings ledger.
package earningrepo

import (
	"context"
	"time"

	"marketplace/internal/adapters/out/postgres/pgerr"
	"marketplace/internal/core/domain/model/earning"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EarningDTO is one ledger row. An order earns at most once.
type EarningDTO struct {
	ID          uint64          `gorm:"primaryKey;autoIncrement"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	ShipperID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Type        string          `gorm:"type:varchar(32);not null"`
	Description string          `gorm:"type:text;not null"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime:false"`
}

func (EarningDTO) TableName() string {
	return "earnings"
}

type GormEarningRepository struct {
	db *gorm.DB
}

func NewGormEarningRepository(db *gorm.DB) *GormEarningRepository {
	return &GormEarningRepository{db: db}
}

func (r *GormEarningRepository) Record(ctx context.Context, entry *earning.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto := EarningDTO{
		OrderID:     entry.OrderID().Bytes(),
		ShipperID:   entry.ShipperID().Bytes(),
		Amount:      entry.Amount().Amount(),
		Type:        entry.Type(),
		Description: "Earnings from delivery",
		CreatedAt:   entry.RecordedAt(),
	}
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerr.Classify("insert earning", err)
	}
	return nil
}
