// Package memory provides an in-process Resolver implementation backed by a map.
package memory

import (
	"context"
	"net/http"
	"sync"

	"github.com/derek82511/line-bot-sdk/credentials"
)

// compile-time interface check.
var _ credentials.Resolver = (*Resolver)(nil)

// Resolver is an in-memory credentials.Resolver for embedding applications
// with a fixed tenant set, and for tests.
type Resolver struct {
	mu       sync.RWMutex
	tenants  map[string]credentials.Credentials
	tenantFn credentials.TenantFunc
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTenantFunc overrides how a request is mapped to a tenant. The default
// reads the X-Line-Channel header.
func WithTenantFunc(fn credentials.TenantFunc) Option {
	return func(r *Resolver) {
		r.tenantFn = fn
	}
}

// New creates an empty in-memory resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		tenants:  make(map[string]credentials.Credentials),
		tenantFn: credentials.TenantFromHeader(credentials.DefaultTenantHeader),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds or replaces a tenant's credentials.
func (r *Resolver) Register(tenant string, creds credentials.Credentials) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tenants[tenant] = creds
}

// ResolveTenant maps a request to a registered tenant.
func (r *Resolver) ResolveTenant(_ context.Context, req *http.Request) (string, error) {
	tenant, err := r.tenantFn(req)
	if err != nil {
		return "", err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.tenants[tenant]; !ok {
		return "", credentials.ErrNotFound
	}
	return tenant, nil
}

// ResolveToken returns the bearer token for a tenant.
func (r *Resolver) ResolveToken(_ context.Context, tenant string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	creds, ok := r.tenants[tenant]
	if !ok || creds.Token == "" {
		return "", credentials.ErrNotFound
	}
	return creds.Token, nil
}

// ResolveSecret returns the signing secret for a tenant.
func (r *Resolver) ResolveSecret(_ context.Context, tenant string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	creds, ok := r.tenants[tenant]
	if !ok || creds.Secret == "" {
		return "", credentials.ErrNotFound
	}
	return creds.Secret, nil
}
