// Package webhook receives event batches pushed by the platform.
//
// The handler authenticates each request for its tenant, acknowledges
// receipt immediately, and defers fan-out to the dispatch engine: the 200
// response is written before the batch is enqueued, so slow subscriber
// logic can never cause the platform to see a timeout and trigger a retry
// storm.
package webhook

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/derek82511/line-bot-sdk/credentials"
	"github.com/derek82511/line-bot-sdk/dispatch"
	"github.com/derek82511/line-bot-sdk/event"
	"github.com/derek82511/line-bot-sdk/id"
	"github.com/derek82511/line-bot-sdk/observability"
	"github.com/derek82511/line-bot-sdk/signature"
)

// SignatureHeader carries the base64 HMAC-SHA256 digest of the raw request body.
const SignatureHeader = "X-Line-Signature"

// Config holds handler configuration.
type Config struct {
	// VerifySignature enables signature verification. When disabled, all
	// batches are accepted without authentication; only do this on a
	// trusted transport channel.
	VerifySignature bool

	Metrics *observability.Metrics
}

// Handler is the inbound webhook endpoint.
type Handler struct {
	resolver credentials.Resolver
	engine   *dispatch.Engine
	config   Config
	logger   *slog.Logger
}

// NewHandler creates a webhook handler that feeds accepted batches to engine.
func NewHandler(resolver credentials.Resolver, engine *dispatch.Engine, cfg Config, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		resolver: resolver,
		engine:   engine,
		config:   cfg,
		logger:   logger,
	}
}

// webhookPayload models the platform request body. Events is a pointer so
// an absent events field is distinguishable from a present-but-empty batch:
// the former is rejected, the latter accepted.
type webhookPayload struct {
	Events *[]event.Event `json:"events"`
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("panic recovered",
				"error", rec,
				"stack", string(debug.Stack()),
			)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
	}()

	ctx := r.Context()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}

	tenant, err := h.resolver.ResolveTenant(ctx, r)
	if err != nil {
		h.logger.WarnContext(ctx, "tenant resolution failed", "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if h.config.VerifySignature {
		secret, secretErr := h.resolver.ResolveSecret(ctx, tenant)
		if secretErr != nil {
			h.logger.WarnContext(ctx, "secret resolution failed", "tenant", tenant, "error", secretErr)
			writeError(w, http.StatusBadRequest, secretErr.Error())
			return
		}

		if !signature.Verify(secret, body, r.Header.Get(SignatureHeader)) {
			if h.config.Metrics != nil {
				h.config.Metrics.SignatureRejections.Inc()
			}
			h.logger.WarnContext(ctx, "invalid signature", "tenant", tenant)
			writeError(w, http.StatusBadRequest, "invalid signature")
			return
		}
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil || payload.Events == nil {
		writeError(w, http.StatusBadRequest, "events not found")
		return
	}

	batch := &event.Batch{
		ID:      id.NewBatchID(),
		Tenant:  tenant,
		Events:  *payload.Events,
		Request: r,
	}

	if h.config.Metrics != nil {
		h.config.Metrics.BatchesReceived.Inc()
	}

	// Acknowledge before any dispatch side effect is possible. The flush
	// pushes the response onto the wire rather than leaving it in the
	// server's buffer until ServeHTTP returns.
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK")) //nolint:errcheck // best effort
	if err := http.NewResponseController(w).Flush(); err != nil {
		// Not all response writers can flush; the buffered ack still
		// precedes the enqueue.
		h.logger.DebugContext(ctx, "ack flush unsupported", "error", err)
	}

	h.engine.Enqueue(batch)

	h.logger.DebugContext(ctx, "batch accepted",
		"batch_id", batch.ID,
		"tenant", tenant,
		"events", len(batch.Events),
	)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg}) //nolint:errcheck // best effort
}
