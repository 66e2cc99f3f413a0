// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"errors"
	"fmt"
)

// DefaultCallBudget is the per-run ceiling used when none is configured.
const DefaultCallBudget = 20

// ErrBudgetExceeded marks a run aborted by the call budget governor.
// Callers distinguish it with errors.Is so the user sees "aborted for
// cost-safety" rather than a generic failure.
var ErrBudgetExceeded = errors.New("call budget exceeded")

// CallBudget is a run-scoped circuit breaker on remote invocations. Every
// attempt counts, including regeneration and repair calls. Once the
// ceiling is crossed, every subsequent attempt fails permanently for that
// run. A CallBudget must not be shared across concurrent runs.
type CallBudget struct {
	attempts int
	ceiling  int
}

// NewCallBudget returns a budget with the given ceiling, or
// DefaultCallBudget when ceiling is not positive.
func NewCallBudget(ceiling int) *CallBudget {
	if ceiling <= 0 {
		ceiling = DefaultCallBudget
	}
	return &CallBudget{ceiling: ceiling}
}

// Attempt records one invocation attempt. It fails on the attempt
// immediately following the ceiling: with ceiling 2, the third attempt
// returns ErrBudgetExceeded.
func (b *CallBudget) Attempt() error {
	b.attempts++
	if b.attempts > b.ceiling {
		return fmt.Errorf("%w: %d attempts over ceiling %d; aborting to prevent runaway costs",
			ErrBudgetExceeded, b.attempts, b.ceiling)
	}
	return nil
}

// Attempts returns the number of attempts recorded so far.
func (b *CallBudget) Attempts() int { return b.attempts }

// Ceiling returns the configured ceiling.
func (b *CallBudget) Ceiling() int { return b.ceiling }
