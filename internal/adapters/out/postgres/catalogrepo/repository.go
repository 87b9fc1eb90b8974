// Package catalogrepo reads the store and food catalog. The catalog is
// maintained elsewhere; the coordinator only needs display data.
package catalogrepo

import (
	"context"
	"errors"

	"marketplace/internal/adapters/out/postgres/pgerr"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StoreDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Address     string    `gorm:"type:text;not null"`
	PhoneNumber string    `gorm:"type:varchar(32);not null"`
}

func (StoreDTO) TableName() string {
	return "stores"
}

type FoodDTO struct {
	ID      uuid.UUID       `gorm:"type:uuid;primaryKey"`
	StoreID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name    string          `gorm:"type:varchar(255);not null"`
	Price   decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

func (FoodDTO) TableName() string {
	return "foods"
}

type GormStoreRepository struct {
	db *gorm.DB
}

func NewGormStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

func (r *GormStoreRepository) Name(ctx context.Context, id kernel.UUID) (string, error) {
	var dto StoreDTO
	err := r.db.WithContext(ctx).Select("name").Take(&dto, "id = ?", id.Bytes()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", errs.NewObjectNotFoundError("store", id.String())
	}
	if err != nil {
		return "", pgerr.Classify("select store name", err)
	}
	return dto.Name, nil
}
