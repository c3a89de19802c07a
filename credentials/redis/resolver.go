// Package redis provides a Resolver implementation backed by Redis, for
// deployments that provision messaging channels dynamically.
//
// Each tenant is stored as a hash at "<prefix><tenant>" with "token" and
// "secret" fields:
//
//	HSET linebot:tenant:shop-bot token <bearer token> secret <signing secret>
package redis

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	goredis "github.com/redis/go-redis/v9"

	"github.com/derek82511/line-bot-sdk/credentials"
)

// DefaultKeyPrefix is the Redis key prefix for tenant hashes.
const DefaultKeyPrefix = "linebot:tenant:"

// compile-time interface check.
var _ credentials.Resolver = (*Resolver)(nil)

// Resolver resolves tenant credentials from Redis hashes.
type Resolver struct {
	rdb      goredis.UniversalClient
	prefix   string
	tenantFn credentials.TenantFunc
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithKeyPrefix overrides the Redis key prefix for tenant hashes.
func WithKeyPrefix(prefix string) Option {
	return func(r *Resolver) {
		r.prefix = prefix
	}
}

// WithTenantFunc overrides how a request is mapped to a tenant. The default
// reads the X-Line-Channel header.
func WithTenantFunc(fn credentials.TenantFunc) Option {
	return func(r *Resolver) {
		r.tenantFn = fn
	}
}

// New creates a Redis-backed resolver.
func New(rdb goredis.UniversalClient, opts ...Option) *Resolver {
	r := &Resolver{
		rdb:      rdb,
		prefix:   DefaultKeyPrefix,
		tenantFn: credentials.TenantFromHeader(credentials.DefaultTenantHeader),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveTenant maps a request to a tenant and confirms the tenant hash exists.
func (r *Resolver) ResolveTenant(ctx context.Context, req *http.Request) (string, error) {
	tenant, err := r.tenantFn(req)
	if err != nil {
		return "", err
	}

	n, err := r.rdb.Exists(ctx, r.key(tenant)).Result()
	if err != nil {
		return "", fmt.Errorf("credentials/redis: check tenant %q: %w", tenant, err)
	}
	if n == 0 {
		return "", credentials.ErrNotFound
	}
	return tenant, nil
}

// ResolveToken returns the bearer token for a tenant.
func (r *Resolver) ResolveToken(ctx context.Context, tenant string) (string, error) {
	return r.field(ctx, tenant, "token")
}

// ResolveSecret returns the signing secret for a tenant.
func (r *Resolver) ResolveSecret(ctx context.Context, tenant string) (string, error) {
	return r.field(ctx, tenant, "secret")
}

// Provision writes a tenant's credentials. Intended for setup tooling; the
// SDK itself only reads.
func (r *Resolver) Provision(ctx context.Context, tenant string, creds credentials.Credentials) error {
	err := r.rdb.HSet(ctx, r.key(tenant), "token", creds.Token, "secret", creds.Secret).Err()
	if err != nil {
		return fmt.Errorf("credentials/redis: provision tenant %q: %w", tenant, err)
	}
	return nil
}

func (r *Resolver) field(ctx context.Context, tenant, field string) (string, error) {
	val, err := r.rdb.HGet(ctx, r.key(tenant), field).Result()
	if errors.Is(err, goredis.Nil) {
		return "", credentials.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("credentials/redis: get %s for tenant %q: %w", field, tenant, err)
	}
	if val == "" {
		return "", credentials.ErrNotFound
	}
	return val, nil
}

func (r *Resolver) key(tenant string) string {
	return r.prefix + tenant
}
