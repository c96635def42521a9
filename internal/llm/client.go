// Package llm defines the generation collaborator the triage engine talks
// to, plus the OpenAI- and Gemini-backed implementations.
package llm

import "context"

// Turn is one prior exchange entry, in transcript order. Role is "user" or
// "model".
type Turn struct {
	Role    string
	Content string
}

// GenerateInput is everything the collaborator needs for one reply: the
// current message (already carrying any injected context prefix), the prior
// history excluding synthetic warnings and the current message itself, and
// the fixed system prompt.
type GenerateInput struct {
	Message      string
	History      []Turn
	SystemPrompt string
}

// Client is the single capability the orchestrator depends on. Its lifecycle
// is owned by the caller; the engine never constructs one itself.
type Client interface {
	Generate(ctx context.Context, input GenerateInput) (string, error)
}
