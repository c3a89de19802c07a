package signature

import "crypto/hmac"

// Verify reports whether supplied matches the expected base64 HMAC-SHA256
// digest of body keyed by secret. The comparison is constant-time.
func Verify(secret string, body []byte, supplied string) bool {
	expected := Sign(secret, body)
	return hmac.Equal([]byte(expected), []byte(supplied))
}
