// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm is the single boundary to the remote text-generation
// service: a narrow transport interface, a per-run call budget, and a
// schema-constrained JSON invocation primitive. All higher pipeline
// stages talk to the model only through this package.
// See docs/ARCHITECTURE § Invocation.
package llm

import (
	"context"

	"github.com/pdiddy/summary-engine/pkg/types"
)

// Completion is the normalized result of one remote call: the response
// text plus whatever usage accounting the provider reported. Each
// transport implementation maps its SDK's response shape into this
// struct exactly once; nothing else in the engine probes provider
// response objects.
type Completion struct {
	Text  string
	Usage types.UsageRecord
}

// Transport sends a prompt and a serialized payload to a completion-style
// API and returns the raw response text. Implementations must issue
// exactly one logical request per call (transport-level rate-limit
// retries of the same request are permitted).
type Transport interface {
	Complete(ctx context.Context, prompt, payload string) (Completion, error)
}
