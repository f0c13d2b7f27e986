package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

// GenerateSecureToken returns length random bytes as unpadded URL-safe
// base64, suitable for cookies and headers.
func GenerateSecureToken(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("token length must be positive, got %d", length)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
