package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

var (
	hashPepper = generatePepper()
)

func generatePepper() string {
	return uuid.New().String() + "-" + uuid.New().String()
}

// HashSHA256 returns a keyed hash of a normalized identifier such as an
// email. The key changes on every start, so hashes only correlate log lines
// within one process lifetime.
func HashSHA256(input string) string {
	input = strings.ToLower(strings.TrimSpace(input))

	mac := hmac.New(sha256.New, []byte(hashPepper))
	mac.Write([]byte(input))

	return hex.EncodeToString(mac.Sum(nil))[:16]
}
