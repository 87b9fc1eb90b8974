package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/user"
)

// UserRepository is the user directory as seen by the coordinator.
type UserRepository interface {
	Add(ctx context.Context, u *user.User) error
	Get(ctx context.Context, id kernel.UUID) (*user.User, error)
	SetRole(ctx context.Context, id kernel.UUID, role user.Role) error
}

// StoreRepository resolves store display data from the catalog.
type StoreRepository interface {
	Name(ctx context.Context, id kernel.UUID) (string, error)
}
