// Package auth holds the credential primitives of the server: password
// hashing, JWT signing and verification, and request identity.
package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes passwords one way and verifies candidates against
// stored hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// BcryptHasher implements PasswordHasher with bcrypt. The cost is fixed at
// construction; cost 10 takes roughly 100ms on commodity hardware.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher using cost, or bcrypt.DefaultCost when
// cost is out of bcrypt's accepted range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// maxPasswordBytes is the bcrypt input limit.
const maxPasswordBytes = 72

// truncate keeps the first 72 bytes of password, the part bcrypt consumes.
// Longer input would make bcrypt fail outright.
func truncate(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}

// Hash returns the bcrypt hash of password. Only the first 72 bytes take
// part, so long multibyte passwords hash instead of failing.
func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword(truncate(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether password matches hash. The comparison inside
// bcrypt is constant-time; a malformed hash simply fails.
func (h *BcryptHasher) Verify(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), truncate(password))
	return err == nil
}

// Cost returns the work factor of hashes produced by h.
func (h *BcryptHasher) Cost() int {
	return h.cost
}

// HashCost extracts the work factor from an existing hash.
func HashCost(hash string) (int, error) {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return 0, errors.Join(errors.New("not a bcrypt hash"), err)
	}
	return cost, nil
}
