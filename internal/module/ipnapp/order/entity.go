package order

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending   = "PENDING"
	StatusOnHold    = "ON_HOLD"
	StatusCancelled = "CANCELLED"
	StatusCompleted = "COMPLETED"
)

type Order struct {
	ID            int64
	CustomerEmail string
	Status        string
	TotalAmount   decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Note struct {
	ID        int64
	OrderID   int64
	Content   string
	CreatedAt time.Time
}
