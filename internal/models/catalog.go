package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	AccountStatusAvailable = "AVAILABLE"
	AccountStatusSold      = "SOLD"
)

type GameCategory struct {
	ID        int64
	CreatedAt time.Time
	Name      string
	Image     string
}

// Game account offered for sale
type Account struct {
	ID             int64
	CreatedAt      time.Time
	GameCategoryID int64
	GameName       string
	Type           string
	Title          string
	Description    string
	Price          decimal.Decimal
	Status         string
}
