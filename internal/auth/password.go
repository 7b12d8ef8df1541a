package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

// Hasher produces and verifies salted one-way password digests.
//
// bcrypt embeds a fresh random salt in every digest, so hashing the same
// plaintext twice yields different outputs. The cost factor is fixed at
// construction and shared by all requests.
type Hasher struct {
	cost int
}

// NewHasher builds a Hasher with the configured cost, clamped to the
// range bcrypt accepts.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns a salted digest of the plaintext password.
func (h *Hasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", apperrors.NewHashingError(err)
	}
	return string(hashed), nil
}

// Verify recomputes the digest using the salt embedded in hashed and
// compares in constant time. A mismatch returns (false, nil); an error is
// returned only when the digest itself is malformed.
func (h *Hasher) Verify(password, hashed string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, apperrors.NewHashingError(err)
}
