package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")

	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrRefreshTokenIsUsed   = errors.New("refresh token is used")
	ErrRefreshTokenExpired  = errors.New("refresh token is expired")

	ErrGameNotFound         = errors.New("game category not found")
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountNotAvailable  = errors.New("account is not available")
	ErrBalanceInsufficient  = errors.New("insufficient balance")
	ErrDepositNotFound      = errors.New("deposit not found")
	ErrDepositAlreadyClosed = errors.New("deposit already closed")
)
