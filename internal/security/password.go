package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Generated password sizes, in random bytes before hex encoding.
const (
	SubmissionPasswordBytes = 8
	ApprovalPasswordBytes   = 4
)

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// GeneratePassword returns n random bytes, hex encoded.
func GeneratePassword(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate password: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// NewCredentials generates a password of n bytes and its bcrypt hash.
func NewCredentials(n int) (plain, hash string, err error) {
	plain, err = GeneratePassword(n)
	if err != nil {
		return "", "", err
	}
	hash, err = HashPassword(plain)
	if err != nil {
		return "", "", err
	}
	return plain, hash, nil
}
