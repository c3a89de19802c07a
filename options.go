package linebot

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/derek82511/line-bot-sdk/client"
	"github.com/derek82511/line-bot-sdk/credentials"
	"github.com/derek82511/line-bot-sdk/dispatch"
	"github.com/derek82511/line-bot-sdk/observability"
	"github.com/derek82511/line-bot-sdk/webhook"
)

// Bot is the root bot instance: one webhook receiver plus one outbound
// API client, sharing a credentials resolver.
type Bot struct {
	config   Config
	resolver credentials.Resolver
	client   *client.Client
	engine   *dispatch.Engine
	handler  *webhook.Handler
	metrics  *observability.Metrics
	tracer   *observability.Tracer
	logger   *slog.Logger
	started  bool
}

// Option configures a Bot instance.
type Option func(*Bot) error

// New creates a new Bot with the given options.
func New(opts ...Option) (*Bot, error) {
	b := &Bot{
		config: DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	if b.resolver == nil {
		return nil, ErrNoResolver
	}
	b.wireServices()
	return b, nil
}

// WithResolver sets the per-tenant credentials resolver.
func WithResolver(r credentials.Resolver) Option {
	return func(b *Bot) error {
		b.resolver = r
		return nil
	}
}

// WithLogger sets the structured logger for the Bot instance.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bot) error {
		b.logger = logger
		return nil
	}
}

// WithBaseURL sets the platform API origin for outbound requests.
func WithBaseURL(url string) Option {
	return func(b *Bot) error {
		b.config.BaseURL = url
		return nil
	}
}

// WithHTTPClient sets the HTTP client used for outbound requests.
func WithHTTPClient(c *http.Client) Option {
	return func(b *Bot) error {
		b.config.HTTPClient = c
		return nil
	}
}

// WithRequestTimeout sets the timeout per outbound request.
func WithRequestTimeout(d time.Duration) Option {
	return func(b *Bot) error {
		b.config.RequestTimeout = d
		return nil
	}
}

// WithQueueSize sets the capacity of the pending webhook batch queue.
func WithQueueSize(n int) Option {
	return func(b *Bot) error {
		b.config.QueueSize = n
		return nil
	}
}

// WithSignatureVerification toggles webhook signature checking.
func WithSignatureVerification(enabled bool) Option {
	return func(b *Bot) error {
		b.config.VerifySignature = enabled
		return nil
	}
}

// WithMetrics registers Prometheus metrics for the Bot instance.
func WithMetrics(m *observability.Metrics) Option {
	return func(b *Bot) error {
		b.metrics = m
		return nil
	}
}

// WithTracer enables OpenTelemetry spans around dispatch and outbound
// requests.
func WithTracer(t *observability.Tracer) Option {
	return func(b *Bot) error {
		b.tracer = t
		return nil
	}
}
