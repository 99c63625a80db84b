package security

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const base62Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// RandomToken returns a base62 nanoid of the requested length.
func RandomToken(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be positive")
	}
	token, err := gonanoid.Generate(base62Alphabet, length)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return token, nil
}
