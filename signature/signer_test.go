package signature_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/derek82511/line-bot-sdk/signature"
)

func TestSignKnownVector(t *testing.T) {
	body := []byte(`{"events":[{"type":"follow"}]}`)
	secret := "testchannelsecret123"

	got := signature.Sign(secret, body)

	// Compute expected HMAC-SHA256 independently.
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	if got != expected {
		t.Errorf("Sign() = %q, want %q", got, expected)
	}
}

func TestSignVerifyRoundTrip(t *testing.T) {
	body := []byte(`{"events":[{"type":"message","message":{"type":"text","text":"hi"}}]}`)
	secret := "roundtripsecret"

	sig := signature.Sign(secret, body)
	if !signature.Verify(secret, body, sig) {
		t.Error("Verify() returned false for valid signature")
	}
}

func TestSignatureIsBase64(t *testing.T) {
	sig := signature.Sign("secret", []byte("body"))

	if _, err := base64.StdEncoding.DecodeString(sig); err != nil {
		t.Errorf("signature is not valid base64: %v", err)
	}

	// SHA256 = 32 bytes = 44 base64 chars including padding.
	if len(sig) != 44 {
		t.Errorf("expected signature length 44, got %d", len(sig))
	}
}
