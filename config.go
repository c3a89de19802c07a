package linebot

import (
	"net/http"
	"time"

	"github.com/derek82511/line-bot-sdk/client"
)

// Config holds the configuration for a Bot instance.
type Config struct {
	// BaseURL is the platform API origin outbound requests are sent to.
	BaseURL string

	// HTTPClient is the client used for outbound requests. When nil a
	// default client with RequestTimeout is used.
	HTTPClient *http.Client

	// RequestTimeout is the timeout per outbound request. Ignored when
	// HTTPClient is set.
	RequestTimeout time.Duration

	// QueueSize is the capacity of the pending webhook batch queue.
	QueueSize int

	// VerifySignature controls webhook signature checking. Disable only
	// in tests.
	VerifySignature bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:         client.DefaultBaseURL,
		RequestTimeout:  30 * time.Second,
		QueueSize:       64,
		VerifySignature: true,
	}
}
