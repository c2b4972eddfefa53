package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DepositStatusPending  = "PENDING"
	DepositStatusApproved = "APPROVED"
	DepositStatusRejected = "REJECTED"
)

const (
	DepositMethodMomo = "MOMO"
	DepositMethodATM  = "ATM"
	DepositMethodCard = "CARD"
)

type Deposit struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    uuid.UUID
	Amount    decimal.Decimal
	Method    string
	Status    string
}
