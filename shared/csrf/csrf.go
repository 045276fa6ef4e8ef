// Package csrf issues and checks double-submit tokens. The token lives in a
// cookie and is echoed back in a hidden form field.
package csrf

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
)

// TokenBytes is the entropy of a token before encoding.
const TokenBytes = 32

var encoding = base64.RawURLEncoding

// GenerateToken returns a fresh random token safe for cookies and forms.
func GenerateToken() (string, error) {
	raw := make([]byte, TokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}
	return encoding.EncodeToString(raw), nil
}

// WellFormed reports whether token could have come from GenerateToken.
func WellFormed(token string) bool {
	if len(token) != encoding.EncodedLen(TokenBytes) {
		return false
	}
	_, err := encoding.DecodeString(token)
	return err == nil
}

// ValidateToken reports whether the form echoed the cookie's token.
func ValidateToken(cookieToken, formToken string) bool {
	if !WellFormed(cookieToken) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(cookieToken), []byte(formToken)) == 1
}
