// Package llm is the structured-generation boundary. The rest of the code
// depends only on the Provider interface; concrete backends live behind the
// factory.
package llm

import (
	"context"
	"errors"
)

// Sentinel errors for the three ways a provider call degrades. Callers
// branch on these to decide between fallback facts and a failed listing.
var (
	ErrUnavailable = errors.New("llm provider unavailable")
	ErrTimeout     = errors.New("llm request timed out")
	ErrMalformed   = errors.New("llm returned malformed output")
)

// Request is one structured-generation call.
type Request struct {
	System      string
	Prompt      string
	Model       string
	Temperature float32
	MaxTokens   int
}

// Provider generates JSON documents from prompts.
type Provider interface {
	// Name identifies the backend, e.g. "openai".
	Name() string

	// GenerateJSON runs the request and unmarshals the response body into
	// out. Malformed responses map to ErrMalformed.
	GenerateJSON(ctx context.Context, req Request, out any) error

	// IsAvailable reports whether the backend is reachable and configured.
	IsAvailable(ctx context.Context) bool
}
