// Package notificationrepo stores customer notifications and the relay
// bookkeeping used to hand them to the broker.
package notificationrepo

import (
	"context"
	"time"

	"marketplace/internal/adapters/out/postgres/pgerr"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	RecipientID uuid.UUID  `gorm:"type:uuid;not null;index"`
	ActorID     uuid.UUID  `gorm:"type:uuid;not null"`
	StoreID     *uuid.UUID `gorm:"type:uuid"`
	Type        string     `gorm:"type:varchar(32);not null"`
	Message     string     `gorm:"type:text;not null"`
	IsRead      bool       `gorm:"not null"`
	Published   bool       `gorm:"not null;index"`
	Attempts    int        `gorm:"not null"`
	LastError   string     `gorm:"type:text;not null"`
	CreatedAt   time.Time  `gorm:"not null;index;autoCreateTime:false"`
}

func (NotificationDTO) TableName() string {
	return "notifications"
}

func fromDomain(n *notification.Notification) NotificationDTO {
	dto := NotificationDTO{
		ID:          n.ID().Bytes(),
		OrderID:     n.OrderID().Bytes(),
		RecipientID: n.RecipientID().Bytes(),
		ActorID:     n.ActorID().Bytes(),
		Type:        string(n.Type()),
		Message:     n.Message(),
		IsRead:      n.IsRead(),
		Published:   n.Published(),
		Attempts:    n.Attempts(),
		LastError:   n.LastError(),
		CreatedAt:   n.CreatedAt(),
	}
	if storeID := n.StoreID(); storeID != nil {
		raw := storeID.Bytes()
		dto.StoreID = &raw
	}
	return dto
}

func toDomain(dto NotificationDTO) (*notification.Notification, error) {
	ids := make([]kernel.UUID, 0, 4)
	for _, raw := range []uuid.UUID{dto.ID, dto.OrderID, dto.RecipientID, dto.ActorID} {
		id, err := kernel.UUIDFromRaw(raw)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	var storeID *kernel.UUID
	if dto.StoreID != nil {
		id, err := kernel.UUIDFromRaw(*dto.StoreID)
		if err != nil {
			return nil, err
		}
		storeID = &id
	}

	return notification.Restore(notification.Snapshot{
		ID: ids[0],
		Draft: notification.Draft{
			OrderID:     ids[1],
			RecipientID: ids[2],
			ActorID:     ids[3],
			StoreID:     storeID,
			Type:        notification.Type(dto.Type),
			Message:     dto.Message,
		},
		CreatedAt: dto.CreatedAt,
		IsRead:    dto.IsRead,
		Published: dto.Published,
		Attempts:  dto.Attempts,
		LastError: dto.LastError,
	})
}

type GormNotificationRepository struct {
	db *gorm.DB
}

func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

func (r *GormNotificationRepository) Add(ctx context.Context, n *notification.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}

	dto := fromDomain(n)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerr.Classify("insert notification", err)
	}
	return nil
}

// Update writes the relay bookkeeping only; the notification body is
// immutable.
func (r *GormNotificationRepository) Update(ctx context.Context, n *notification.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&NotificationDTO{}).
		Where("id = ?", n.ID().Bytes()).
		Updates(map[string]any{
			"published":  n.Published(),
			"attempts":   n.Attempts(),
			"last_error": n.LastError(),
		})
	if result.Error != nil {
		return pgerr.Classify("update notification", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("notification", n.ID().String())
	}
	return nil
}

// InFlightGrace is how long a never attempted notification is left to the
// dispatcher that stored it before the relay picks it up.
const InFlightGrace = 30 * time.Second

// ListUnpublished skips rows with no attempt yet unless they are older than
// InFlightGrace, so the relay does not race the inline publish.
func (r *GormNotificationRepository) ListUnpublished(
	ctx context.Context,
	limit, maxAttempts int,
) ([]*notification.Notification, error) {
	abandonedBefore := time.Now().UTC().Add(-InFlightGrace)

	var dtos []NotificationDTO
	if err := r.db.WithContext(ctx).
		Where("published = ? AND attempts < ?", false, maxAttempts).
		Where("attempts > 0 OR created_at < ?", abandonedBefore).
		Order("created_at").
		Limit(limit).
		Find(&dtos).Error; err != nil {
		return nil, pgerr.Classify("select unpublished notifications", err)
	}

	result := make([]*notification.Notification, 0, len(dtos))
	for _, dto := range dtos {
		n, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, nil
}
