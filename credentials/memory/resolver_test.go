package memory_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/derek82511/line-bot-sdk/credentials"
	"github.com/derek82511/line-bot-sdk/credentials/memory"
)

func TestResolveTenantFromHeader(t *testing.T) {
	r := memory.New()
	r.Register("shop-bot", credentials.Credentials{Token: "tok", Secret: "sec"})

	req := httptest.NewRequest("POST", "/webhook", nil)
	req.Header.Set(credentials.DefaultTenantHeader, "shop-bot")

	tenant, err := r.ResolveTenant(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if tenant != "shop-bot" {
		t.Errorf("expected tenant 'shop-bot', got %q", tenant)
	}
}

func TestResolveTenantUnknown(t *testing.T) {
	r := memory.New()

	req := httptest.NewRequest("POST", "/webhook", nil)
	req.Header.Set(credentials.DefaultTenantHeader, "nobody")

	if _, err := r.ResolveTenant(context.Background(), req); !errors.Is(err, credentials.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestResolveTenantMissingHeader(t *testing.T) {
	r := memory.New()
	r.Register("shop-bot", credentials.Credentials{Token: "tok", Secret: "sec"})

	req := httptest.NewRequest("POST", "/webhook", nil)

	if _, err := r.ResolveTenant(context.Background(), req); !errors.Is(err, credentials.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestResolveTokenAndSecret(t *testing.T) {
	r := memory.New()
	r.Register("shop-bot", credentials.Credentials{Token: "tok", Secret: "sec"})

	token, err := r.ResolveToken(context.Background(), "shop-bot")
	if err != nil {
		t.Fatal(err)
	}
	if token != "tok" {
		t.Errorf("expected token 'tok', got %q", token)
	}

	secret, err := r.ResolveSecret(context.Background(), "shop-bot")
	if err != nil {
		t.Fatal(err)
	}
	if secret != "sec" {
		t.Errorf("expected secret 'sec', got %q", secret)
	}
}

func TestResolveTokenUnknownTenant(t *testing.T) {
	r := memory.New()

	if _, err := r.ResolveToken(context.Background(), "nobody"); !errors.Is(err, credentials.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCustomTenantFunc(t *testing.T) {
	r := memory.New(memory.WithTenantFunc(func(req *http.Request) (string, error) {
		return req.URL.Query().Get("channel"), nil
	}))
	r.Register("query-bot", credentials.Credentials{Token: "tok", Secret: "sec"})

	req := httptest.NewRequest("POST", "/webhook?channel=query-bot", nil)

	tenant, err := r.ResolveTenant(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if tenant != "query-bot" {
		t.Errorf("expected tenant 'query-bot', got %q", tenant)
	}
}
