package notification

import "time"

// OrderCompletedEvent is published once per order, on the first
// PRODUCT_DELIVERED notification that completes it.
type OrderCompletedEvent struct {
	OrderID        int64     `json:"order_id"`
	RocketrOrderID string    `json:"rocketr_order_id"`
	Amount         string    `json:"amount"`
	CompletedAt    time.Time `json:"completed_at"`
}
