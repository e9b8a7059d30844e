// Package llm provides the generative-language client used for intent
// extraction and answer generation.
package llm

import (
	"context"
	"errors"
)

// ErrQuotaExceeded signals that the generative service refused the call for
// quota reasons. Callers distinguish it from generic failure to pick the
// right fallback wording.
var ErrQuotaExceeded = errors.New("llm: quota exceeded")

// ErrEmptyResponse signals that the service returned no usable text.
var ErrEmptyResponse = errors.New("llm: empty response")

// Client is the generative-language collaborator. Implementations must wrap
// quota refusals in ErrQuotaExceeded.
type Client interface {
	// Generate produces free text for a prompt.
	Generate(ctx context.Context, prompt string, temperature float32) (string, error)
	// GenerateStructured produces keyed fields for a prompt carrying a JSON
	// format instruction, unmarshaled into out.
	GenerateStructured(ctx context.Context, prompt string, temperature float32, out any) error
}
