// Package credentials defines the per-tenant credential resolution contract.
//
// A Resolver maps an incoming webhook request to a tenant and supplies that
// tenant's bearer token and signing secret. Every resolution is an
// independent, context-aware operation: the SDK never caches results, so any
// caching strategy belongs to the Resolver implementation.
package credentials

import (
	"context"
	"errors"
	"net/http"
)

// ErrNotFound is returned by resolvers when a tenant or one of its
// credentials does not exist.
var ErrNotFound = errors.New("credentials: not found")

// Resolver supplies per-tenant credentials. Implementations are provided by
// the embedding application; credentials/memory and credentials/redis are
// ready-made options.
type Resolver interface {
	// ResolveTenant maps an incoming webhook request to a tenant identifier.
	ResolveTenant(ctx context.Context, r *http.Request) (string, error)

	// ResolveToken returns the bearer token for a tenant.
	ResolveToken(ctx context.Context, tenant string) (string, error)

	// ResolveSecret returns the webhook signing secret for a tenant.
	ResolveSecret(ctx context.Context, tenant string) (string, error)
}

// Credentials holds the secrets owned by one tenant.
type Credentials struct {
	// Token is the bearer token used on outbound API calls.
	Token string

	// Secret is the HMAC signing secret used to verify inbound webhooks.
	Secret string
}

// TenantFunc maps an incoming webhook request to a tenant identifier.
type TenantFunc func(r *http.Request) (string, error)

// DefaultTenantHeader is the request header consulted by the bundled
// resolvers when no TenantFunc is configured.
const DefaultTenantHeader = "X-Line-Channel"

// TenantFromHeader returns a TenantFunc that reads the tenant identifier
// from the named request header.
func TenantFromHeader(name string) TenantFunc {
	return func(r *http.Request) (string, error) {
		tenant := r.Header.Get(name)
		if tenant == "" {
			return "", ErrNotFound
		}
		return tenant, nil
	}
}
