package notification

import (
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
)

// MessageContext holds the display names a customer message may mention.
// Empty names fall back to generic wording.
type MessageContext struct {
	OrderID     kernel.UUID
	ShipperName string
	StoreName   string
}

// ShortOrderNumber is the order reference shown to customers.
func ShortOrderNumber(id kernel.UUID) string {
	return "#" + id.String()[:8]
}

// Compose renders the customer facing text for a notification type.
func Compose(t Type, c MessageContext) string {
	number := ShortOrderNumber(c.OrderID)
	shipper := fallback(c.ShipperName, "a shipper")
	store := fallback(c.StoreName, "the store")

	switch t {
	case TypeOrderConfirmed:
		return fmt.Sprintf("Your order %s has been confirmed by %s", number, store)
	case TypeOrderRejected:
		return fmt.Sprintf("Your order %s has been rejected by %s", number, store)
	case TypeOrderAccepted:
		return fmt.Sprintf("Your order %s has been accepted by %s and is being prepared at %s", number, shipper, store)
	case TypeDeliveryStarted:
		return fmt.Sprintf("Your order %s is on its way with %s", number, shipper)
	case TypeDeliveryCompleted:
		return fmt.Sprintf("Your order %s has been delivered by %s", number, shipper)
	default:
		return fmt.Sprintf("Your order %s has been updated", number)
	}
}

func fallback(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
