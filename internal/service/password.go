package service

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"taskflow-api/internal/model"
)

const bcryptCost = 12

// HashPassword produces a salted bcrypt digest. bcrypt salts internally, so
// hashing the same plaintext twice yields different digests. bcrypt only
// reads the first 72 bytes of input; rather than silently truncating, inputs
// beyond that limit are rejected as invalid.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: password must be at most 72 bytes", model.ErrInvalidInput)
	}
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plaintext matches the stored digest. Any
// mismatch or malformed digest yields false.
func CheckPassword(password string, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
