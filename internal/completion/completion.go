// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package completion calls a chat-completion provider with a single prompt
// and returns the free-text response. No streaming, no multi-turn state.
package completion

import "context"

// Backend abstracts the completion provider so tests can supply a stub.
type Backend interface {
	// Complete sends one user prompt and returns the model's text. Errors
	// are transport or provider failures; the caller decides how to degrade.
	Complete(ctx context.Context, prompt string) (string, error)
}
