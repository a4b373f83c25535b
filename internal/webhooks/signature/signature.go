// Package signature implements HMAC-SHA256 payload signing and verification
// for webhook bodies. Signatures travel as "sha256=<hex-digest>" headers and
// are always computed over the raw received bytes, never a re-serialization.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

const algorithm = "sha256"

// Sign computes the signature header value for a payload
func Sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return algorithm + "=" + hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether header carries a valid HMAC-SHA256 signature of
// payload under secret. It returns false, never an error, on empty inputs,
// a header that does not split as "<algorithm>=<hex>", or an unsupported
// algorithm token. The digest comparison is constant-time.
func Verify(secret string, payload []byte, header string) bool {
	if secret == "" || header == "" {
		return false
	}

	parts := strings.SplitN(header, "=", 2)
	if len(parts) != 2 {
		return false
	}
	if strings.ToLower(parts[0]) != algorithm {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	return subtle.ConstantTimeCompare([]byte(expected), []byte(parts[1])) == 1
}
