// Package dispatch classifies webhook batches and fans them out to subscribers.
//
// The engine consumes batches from a queue on its own goroutine so that the
// webhook acknowledgment is always observable before any subscriber side
// effect. Within a batch, events are processed strictly in delivery order;
// notification emission for one event completes before the next event begins.
// Subscriber callbacks run synchronously on the dispatch goroutine; a
// callback that wants concurrency defers its own work.
package dispatch

import (
	"context"
	"log/slog"
	"regexp"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/derek82511/line-bot-sdk/event"
	"github.com/derek82511/line-bot-sdk/observability"
)

// Handler receives a single event published to a subscribed topic.
type Handler func(ctx context.Context, evt *event.Event)

// BatchHandler receives a whole batch before per-event fan-out begins,
// including the original webhook request for subscribers that want raw access.
type BatchHandler func(ctx context.Context, batch *event.Batch)

// TextHandler receives a text message event whose content matched a
// registered pattern, along with the submatch slice from the match.
type TextHandler func(ctx context.Context, evt *event.Event, match []string)

// textRoute pairs a compiled pattern with its callback.
type textRoute struct {
	pattern *regexp.Regexp
	fn      TextHandler
}

// Config holds engine configuration.
type Config struct {
	// QueueSize is the capacity of the pending-batch queue.
	QueueSize int

	Metrics *observability.Metrics
	Tracer  *observability.Tracer
}

// Engine is the dispatch worker that consumes enqueued batches and emits
// layered notifications.
type Engine struct {
	config Config
	logger *slog.Logger
	queue  chan *event.Batch

	mu            sync.RWMutex
	handlers      map[Topic][]Handler
	batchHandlers []BatchHandler
	textRoutes    []textRoute

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewEngine creates a dispatch engine.
func NewEngine(cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	return &Engine{
		config:   cfg,
		logger:   logger,
		queue:    make(chan *event.Batch, cfg.QueueSize),
		handlers: make(map[Topic][]Handler),
	}
}

// Subscribe registers a handler for a topic. Handlers for the same topic run
// in registration order. Registration is append-only; there is no removal.
func (e *Engine) Subscribe(t Topic, h Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[t] = append(e.handlers[t], h)
}

// SubscribeBatch registers a handler invoked once per batch, before any
// per-event notification.
func (e *Engine) SubscribeBatch(h BatchHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.batchHandlers = append(e.batchHandlers, h)
}

// OnText registers a pattern and callback evaluated against every text
// message. All matching callbacks fire, in registration order; a match does
// not short-circuit the rest.
func (e *Engine) OnText(pattern *regexp.Regexp, h TextHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.textRoutes = append(e.textRoutes, textRoute{pattern: pattern, fn: h})
}

// Enqueue hands a batch to the engine for deferred dispatch. It blocks if
// the queue is full.
func (e *Engine) Enqueue(batch *event.Batch) {
	e.queue <- batch
	if e.config.Metrics != nil {
		e.config.Metrics.QueueDepth.Set(float64(len(e.queue)))
	}
}

// Start begins the dispatch worker.
func (e *Engine) Start(ctx context.Context) {
	ctx, e.cancel = context.WithCancel(ctx)

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.run(ctx)
	}()
}

// Stop cancels the worker and waits for the in-flight batch to complete.
// Batches still queued are discarded.
func (e *Engine) Stop(_ context.Context) {
	if e.cancel != nil {
		e.cancel()
	}
	e.wg.Wait()
}

func (e *Engine) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case batch := <-e.queue:
			if e.config.Metrics != nil {
				e.config.Metrics.QueueDepth.Set(float64(len(e.queue)))
			}
			e.dispatchBatch(ctx, batch)
		}
	}
}

// dispatchBatch emits the batch-level notification, then fans out each event
// in delivery order.
func (e *Engine) dispatchBatch(ctx context.Context, batch *event.Batch) {
	start := time.Now()

	var span trace.Span
	if e.config.Tracer != nil {
		ctx, span = e.config.Tracer.StartBatchSpan(ctx, batch.ID.String(), batch.Tenant, len(batch.Events))
	}

	for _, h := range e.snapshotBatchHandlers() {
		h(ctx, batch)
	}

	for i := range batch.Events {
		evt := &batch.Events[i]
		evt.Tenant = batch.Tenant
		e.dispatchEvent(ctx, evt)
	}

	if span != nil {
		span.End()
	}

	if e.config.Metrics != nil {
		e.config.Metrics.DispatchLatency.Observe(time.Since(start).Seconds())
	}

	e.logger.DebugContext(ctx, "batch dispatched",
		"batch_id", batch.ID,
		"tenant", batch.Tenant,
		"events", len(batch.Events),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

// dispatchEvent emits the layered notification sequence for one event.
func (e *Engine) dispatchEvent(ctx context.Context, evt *event.Event) {
	kind := evt.Source.Kind

	e.emit(ctx, TopicEvent, kind, evt)

	if e.config.Metrics != nil {
		e.config.Metrics.RecordDispatch(string(evt.Type))
	}

	t, ok := topicForType(evt.Type)
	if !ok {
		return
	}
	e.emit(ctx, t, kind, evt)

	if evt.Type == event.TypeMessage && evt.Message != nil {
		e.dispatchMessage(ctx, evt, kind)
	}
}

// dispatchMessage branches on the message kind of a message event.
func (e *Engine) dispatchMessage(ctx context.Context, evt *event.Event, kind event.SourceKind) {
	msg := evt.Message

	if msg.Kind == event.MessageText && msg.Text != "" {
		e.emit(ctx, TopicText, kind, evt)
		for _, route := range e.snapshotTextRoutes() {
			if match := route.pattern.FindStringSubmatch(msg.Text); match != nil {
				route.fn(ctx, evt, match)
			}
		}
		return
	}

	if msg.HasBinaryContent() {
		e.emit(ctx, TopicMessageWithContent, kind, evt)
	}
	e.emit(ctx, TopicNonText, kind, evt)
	e.publish(ctx, Topic(msg.Kind), evt)
}

// emit publishes to a topic and its source-scoped variant.
func (e *Engine) emit(ctx context.Context, t Topic, kind event.SourceKind, evt *event.Event) {
	e.publish(ctx, t, evt)
	if kind != "" {
		e.publish(ctx, t.For(kind), evt)
	}
}

// publish invokes every handler subscribed to a single topic, in
// registration order.
func (e *Engine) publish(ctx context.Context, t Topic, evt *event.Event) {
	for _, h := range e.snapshotHandlers(t) {
		h(ctx, evt)
	}
}

func (e *Engine) snapshotHandlers(t Topic) []Handler {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.handlers[t]
}

func (e *Engine) snapshotBatchHandlers() []BatchHandler {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.batchHandlers
}

func (e *Engine) snapshotTextRoutes() []textRoute {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.textRoutes
}
