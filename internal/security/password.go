package security

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a password for storage. The password is first reduced
// to a sha256 hex digest so the input handed to bcrypt has a fixed length
// regardless of how long the password is (bcrypt truncates input at 72
// bytes). Each call salts freshly, so two hashes of the same password differ.
func HashPassword(password string) (string, error) {
	digest := sha256.Sum256([]byte(password))
	hashed, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(digest[:])), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword reports whether password matches the stored hash.
func VerifyPassword(password, hash string) bool {
	digest := sha256.Sum256([]byte(password))
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(hex.EncodeToString(digest[:])))
	return err == nil
}
