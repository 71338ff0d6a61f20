package auth

import (
	"crypto/sha256"

	"golang.org/x/crypto/bcrypt"
)

// Hasher used when no other one configured
var DefaultHasher = BcryptHasher{}

// Bcrypt password hasher
// Password prehashed with sha256, so bcrypt 72 bytes limit not truncate long passwords
type BcryptHasher struct{}

func (h BcryptHasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	hash, err := bcrypt.GenerateFromPassword(sum[:], bcrypt.DefaultCost)
	return string(hash), err
}

func (h BcryptHasher) Compare(hashedPassword string, password string) error {
	sum := sha256.Sum256([]byte(password))
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), sum[:])
}
