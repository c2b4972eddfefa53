package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TransactionTypeDeposit  = "deposit"
	TransactionTypePurchase = "purchase"
)

type Balance struct {
	ID      uuid.UUID
	UserID  uuid.UUID
	Current decimal.Decimal
	Spent   decimal.Decimal
}

// Ledger entry. Reference is the deposit or order the money moved for.
type Transaction struct {
	ID          uuid.UUID
	ProcessedAt time.Time
	UserID      uuid.UUID
	Reference   uuid.UUID
	Type        string
	Amount      decimal.Decimal
}
