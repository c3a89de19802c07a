package signature_test

import (
	"testing"

	"github.com/derek82511/line-bot-sdk/signature"
)

func TestVerifyTamperedBody(t *testing.T) {
	body := []byte(`{"events":[{"type":"follow"}]}`)
	secret := "tampersecret"

	sig := signature.Sign(secret, body)

	tampered := []byte(`{"events":[{"type":"unfollow"}]}`)
	if signature.Verify(secret, tampered, sig) {
		t.Error("Verify() returned true for tampered body")
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	body := []byte(`{"events":[]}`)

	sig := signature.Sign("correct", body)

	if signature.Verify("wrong", body, sig) {
		t.Error("Verify() returned true for wrong secret")
	}
}

func TestVerifyGarbageSignature(t *testing.T) {
	if signature.Verify("secret", []byte("body"), "not-a-signature") {
		t.Error("Verify() returned true for garbage signature")
	}
}

func TestVerifyEmptySignature(t *testing.T) {
	if signature.Verify("secret", []byte("body"), "") {
		t.Error("Verify() returned true for empty signature")
	}
}
