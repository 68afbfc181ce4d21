package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
)

// SessionSecretLength is the length of a generated session secret.
const SessionSecretLength = 64

const sessionSecretAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateSessionSecret returns a random alphanumeric string of
// SessionSecretLength characters drawn from crypto/rand.
func GenerateSessionSecret() (string, error) {
	alphabetSize := big.NewInt(int64(len(sessionSecretAlphabet)))
	secret := make([]byte, SessionSecretLength)
	for i := range secret {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("failed to generate session secret: %w", err)
		}
		secret[i] = sessionSecretAlphabet[n.Int64()]
	}
	return string(secret), nil
}

// SessionDigester derives the storage key of a session from its secret.
type SessionDigester interface {
	Digest(sessionSecret string) string
}

// HMACDigester computes hex-encoded HMAC-SHA256 digests under a server key.
type HMACDigester struct {
	key []byte
}

var _ SessionDigester = (*HMACDigester)(nil)

// NewHMACDigester creates a digester keyed by key.
func NewHMACDigester(key []byte) *HMACDigester {
	k := make([]byte, len(key))
	copy(k, key)
	return &HMACDigester{key: k}
}

// Digest implements SessionDigester.
func (d *HMACDigester) Digest(sessionSecret string) string {
	mac := hmac.New(sha256.New, d.key)
	mac.Write([]byte(sessionSecret))
	return hex.EncodeToString(mac.Sum(nil))
}
