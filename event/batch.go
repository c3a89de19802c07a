package event

import (
	"net/http"

	"github.com/derek82511/line-bot-sdk/id"
)

// Batch is the ordered sequence of events delivered in a single webhook
// call, tagged with the owning tenant after credential resolution. Fan-out
// preserves the original event order.
type Batch struct {
	// ID is a unique TypeID assigned on receipt, used for log and trace
	// correlation only; it never leaves the process.
	ID id.ID

	// Tenant is the resolved owner of this batch.
	Tenant string

	// Events are the platform events in delivery order.
	Events []Event

	// Request is the originating webhook request, available to batch-level
	// subscribers that want raw access.
	Request *http.Request
}
