package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// returns a new random session ID (128 bits, hex-encoded)
func GenerateID() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("session: failed to generate id: %w", err)
	}

	return hex.EncodeToString(bytes), nil
}
