// Package llm wraps the external generative-text service behind a single
// request/response interface so the advice and estimation pipelines can fall
// back to local generation when the service is unavailable.
package llm

import (
	"context"
	"errors"
)

// ErrNoCredentials marks a client that was constructed without an API key.
// Callers treat it like any other request failure and degrade locally.
var ErrNoCredentials = errors.New("generative service credentials not configured")

// Client issues one prompt and returns the raw text reply.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
