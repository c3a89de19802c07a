package linebot

import (
	"context"
	"net/http"
	"regexp"

	"github.com/derek82511/line-bot-sdk/client"
	"github.com/derek82511/line-bot-sdk/dispatch"
	"github.com/derek82511/line-bot-sdk/event"
	"github.com/derek82511/line-bot-sdk/webhook"
)

// wireServices initializes the internal services after options have been applied.
func (b *Bot) wireServices() {
	b.engine = dispatch.NewEngine(dispatch.Config{
		QueueSize: b.config.QueueSize,
		Metrics:   b.metrics,
		Tracer:    b.tracer,
	}, b.logger)

	b.client = client.New(b.resolver, client.Config{
		BaseURL:    b.config.BaseURL,
		HTTPClient: b.config.HTTPClient,
		Timeout:    b.config.RequestTimeout,
		Metrics:    b.metrics,
		Tracer:     b.tracer,
	}, b.logger)

	b.handler = webhook.NewHandler(b.resolver, b.engine, webhook.Config{
		VerifySignature: b.config.VerifySignature,
		Metrics:         b.metrics,
	}, b.logger)
}

// Start begins the dispatch engine. Webhook requests received before
// Start queue up until the engine drains them.
func (b *Bot) Start(ctx context.Context) error {
	if b.started {
		return ErrAlreadyStarted
	}
	b.started = true
	b.engine.Start(ctx)
	return nil
}

// Stop shuts down the dispatch engine, waiting for the in-flight batch
// to finish. Batches still queued are discarded.
func (b *Bot) Stop(ctx context.Context) {
	if !b.started {
		return
	}
	b.started = false
	b.engine.Stop(ctx)
}

// Webhook returns the HTTP handler that receives platform callbacks.
// Mount it on the path registered with the platform.
func (b *Bot) Webhook() http.Handler {
	return b.handler
}

// Subscribe registers a handler for a topic. Handlers registered for
// the same topic run in registration order.
func (b *Bot) Subscribe(t dispatch.Topic, h dispatch.Handler) {
	b.engine.Subscribe(t, h)
}

// SubscribeBatch registers a handler that receives each webhook batch
// whole, before its events are dispatched individually.
func (b *Bot) SubscribeBatch(h dispatch.BatchHandler) {
	b.engine.SubscribeBatch(h)
}

// OnText registers a handler fired for text messages matching pattern.
// The handler receives the regex submatches.
func (b *Bot) OnText(pattern *regexp.Regexp, h dispatch.TextHandler) {
	b.engine.OnText(pattern, h)
}

// Push sends messages to a user, group, or room.
func (b *Bot) Push(ctx context.Context, tenant, to string, messages []any) error {
	return b.client.Push(ctx, tenant, to, messages)
}

// Multicast sends messages to up to 150 users at once.
func (b *Bot) Multicast(ctx context.Context, tenant string, to []string, messages []any) error {
	return b.client.Multicast(ctx, tenant, to, messages)
}

// Reply answers an event using its reply token. Reply tokens are single
// use and short lived.
func (b *Bot) Reply(ctx context.Context, tenant, replyToken string, messages []any) error {
	return b.client.Reply(ctx, tenant, replyToken, messages)
}

// GetContent retrieves the binary payload of an image, video, or audio
// message.
func (b *Bot) GetContent(ctx context.Context, tenant, messageID string) ([]byte, error) {
	return b.client.GetContent(ctx, tenant, messageID)
}

// GetProfile retrieves a user's display profile.
func (b *Bot) GetProfile(ctx context.Context, tenant, userID string) (*client.Profile, error) {
	return b.client.GetProfile(ctx, tenant, userID)
}

// Leave exits the group or room the event came from.
func (b *Bot) Leave(ctx context.Context, tenant string, src event.Source) error {
	return b.client.Leave(ctx, tenant, src)
}

// Client returns the outbound API client.
func (b *Bot) Client() *client.Client {
	return b.client
}

// Engine returns the dispatch engine.
func (b *Bot) Engine() *dispatch.Engine {
	return b.engine
}
