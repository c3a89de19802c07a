// Package signature provides HMAC-SHA256 webhook payload signing and verification.
//
// The platform signs the exact raw request body with the channel secret and
// sends the base64-encoded digest in the X-Line-Signature header. Verification
// must run over the received bytes, never a re-serialization of the parsed
// payload: re-encoding can produce a different byte sequence than what was
// signed.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// Sign computes the base64-encoded HMAC-SHA256 digest of body keyed by secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
