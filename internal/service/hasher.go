package service

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"go-social-auth/internal/model"
)

// MaxPasswordBytes is the most input bcrypt accepts.
const MaxPasswordBytes = 72

// Hasher hashes and checks passwords with bcrypt. Plaintext never leaves the
// call; only the encoded hash is returned or stored.
type Hasher struct {
	cost int
}

func NewHasher(cost int) *Hasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &Hasher{cost: cost}
}

// Hash returns model.ErrPasswordTooLong for input bcrypt cannot take.
func (h *Hasher) Hash(plaintext string) (string, error) {
	if len(plaintext) > MaxPasswordBytes {
		return "", model.ErrPasswordTooLong
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare reports whether plaintext matches hash. A mismatch is (false, nil);
// an error means the stored hash itself is unusable. The cost is read from
// the hash, so hashes made under an older cost still verify.
func (h *Hasher) Compare(plaintext string, hash string) (bool, error) {
	if len(plaintext) > MaxPasswordBytes {
		return false, nil
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}
