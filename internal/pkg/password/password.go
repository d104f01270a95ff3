// Package password verifies the supervisor override capability key against
// the bcrypt hash carried in configuration. Guest/agent credential handling
// lives with the external auth collaborator.
package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrHashingFailed = errors.New("key hashing failed")
	ErrKeyMismatch   = errors.New("override key does not match")
	ErrInvalidKey    = errors.New("invalid override key")
)

const DefaultCost = bcrypt.DefaultCost

func HashKey(key string) (string, error) {
	if key == "" {
		return "", ErrInvalidKey
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(key), DefaultCost)
	if err != nil {
		return "", ErrHashingFailed
	}

	return string(hashedBytes), nil
}

func VerifyKey(hashedKey, key string) error {
	if hashedKey == "" || key == "" {
		return ErrInvalidKey
	}

	err := bcrypt.CompareHashAndPassword([]byte(hashedKey), []byte(key))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrKeyMismatch
		}
		return err
	}

	return nil
}
