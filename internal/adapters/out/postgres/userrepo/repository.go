// Package userrepo is the coordinator's window into the user directory.
package userrepo

import (
	"context"
	"errors"

	"marketplace/internal/adapters/out/postgres/pgerr"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserDTO is the subset of the users table the coordinator reads and writes.
type UserDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName    string    `gorm:"type:varchar(255);not null"`
	PhoneNumber string    `gorm:"type:varchar(32);not null"`
	Role        string    `gorm:"type:varchar(16);not null"`
	Status      string    `gorm:"type:varchar(16);not null"`
	Active      bool      `gorm:"not null"`
}

func (UserDTO) TableName() string {
	return "users"
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Add(ctx context.Context, u *user.User) error {
	if err := u.Validate(); err != nil {
		return err
	}

	dto := UserDTO{
		ID:       u.ID().Bytes(),
		FullName: u.FullName(),
		Role:     string(u.Role()),
		Status:   string(u.Status()),
		Active:   u.Active(),
	}
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerr.Classify("insert user", err)
	}
	return nil
}

func (r *GormUserRepository) Get(ctx context.Context, id kernel.UUID) (*user.User, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto UserDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("user", id.String())
		}
		return nil, pgerr.Classify("select user", err)
	}

	return user.RestoreUser(id, dto.FullName, user.Role(dto.Role), user.Status(dto.Status), dto.Active)
}

func (r *GormUserRepository) SetRole(ctx context.Context, id kernel.UUID, role user.Role) error {
	if err := role.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&UserDTO{}).
		Where("id = ?", id.Bytes()).
		Update("role", string(role))
	if result.Error != nil {
		return pgerr.Classify("update user role", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("user", id.String())
	}
	return nil
}
