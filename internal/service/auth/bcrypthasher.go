package auth

import (
	"crypto/sha256"

	"golang.org/x/crypto/bcrypt"
)

// Hash of a password nobody has, compared against when the user does not exist
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOa3yAq5Q7wkyGqg3ZQ1GQJd1jX6F1qZy"

// Bcrypt password hasher
// Password is pre-hashed with sha256, so passwords longer than 72 bytes stay distinct
type BcryptHasher struct {
	// bcrypt.DefaultCost if zero
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	sum := sha256.Sum256([]byte(password))
	hash, err := bcrypt.GenerateFromPassword(sum[:], cost)
	return string(hash), err
}

func (h BcryptHasher) Compare(hashedPassword string, password string) error {
	sum := sha256.Sum256([]byte(password))
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), sum[:])
}
