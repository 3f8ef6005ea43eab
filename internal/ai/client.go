package ai

import (
	"context"
)

// Client is the interface for language-model evaluation providers.
// Calls are synchronous and may block for several seconds; that is the
// normal cost of the operation, not a fault.
type Client interface {
	// Complete sends a system instruction plus a user message and returns
	// the raw response text.
	Complete(ctx context.Context, system, user string) (string, error)
}
