package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	OrderStatusCompleted = "COMPLETED"
)

// Purchase of one account paid from the user balance
type Order struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UserID    uuid.UUID
	AccountID int64
	Amount    decimal.Decimal
	Status    string
}
