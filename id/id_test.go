package id_test

import (
	"strings"
	"testing"

	"github.com/derek82511/line-bot-sdk/id"
)

func TestNewBatchIDPrefix(t *testing.T) {
	batchID := id.NewBatchID()

	if batchID.Prefix() != id.PrefixBatch {
		t.Errorf("expected prefix %q, got %q", id.PrefixBatch, batchID.Prefix())
	}
	if !strings.HasPrefix(batchID.String(), "batch_") {
		t.Errorf("expected string to start with 'batch_', got %q", batchID.String())
	}
}

func TestNewRequestIDUniqueness(t *testing.T) {
	a := id.NewRequestID()
	b := id.NewRequestID()
	if a.String() == b.String() {
		t.Errorf("two consecutive NewRequestID() calls returned the same value: %q", a)
	}
}

func TestParseRoundTrip(t *testing.T) {
	original := id.NewBatchID()

	parsed, err := id.Parse(original.String())
	if err != nil {
		t.Fatalf("Parse(%q): %v", original, err)
	}
	if parsed.String() != original.String() {
		t.Errorf("round trip mismatch: %q != %q", parsed, original)
	}
}

func TestParseEmpty(t *testing.T) {
	if _, err := id.Parse(""); err == nil {
		t.Error("expected error for empty string")
	}
}

func TestNilID(t *testing.T) {
	if !id.Nil.IsNil() {
		t.Error("Nil.IsNil() should be true")
	}
	if id.Nil.String() != "" {
		t.Errorf("Nil.String() should be empty, got %q", id.Nil.String())
	}
}
