package pipeline

import "context"

// Defaults applied by the transport when a completion request omits them.
const (
	DefaultModel  = "gpt-4o"
	DefaultSystem = "You are a helpful assistant."
)

// CompletionRequest is a prompt sent by the editor's LLM node.
type CompletionRequest struct {
	Model  string `json:"model"`
	System string `json:"system"`
	Prompt string `json:"prompt"`
}

// Completion is the text returned for a CompletionRequest.
type Completion struct {
	Text string `json:"text"`
}

// Completer defines the contract for answering LLM node prompts.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)
}
