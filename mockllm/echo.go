// Package mockllm answers LLM node prompts without calling a model.
package mockllm

import (
	"context"
	"fmt"

	"github.com/meikuraledutech/pipeline"
)

// Prefix lengths echoed back, in characters.
const (
	MaxSystemChars = 120
	MaxPromptChars = 500
)

// Echo implements pipeline.Completer by echoing truncated prefixes of the
// request back to the caller.
type Echo struct{}

// New creates an Echo completer.
func New() *Echo {
	return &Echo{}
}

// Complete returns the templated echo for req.
// An empty model is reported as pipeline.DefaultModel.
func (e *Echo) Complete(ctx context.Context, req pipeline.CompletionRequest) (*pipeline.Completion, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("mockllm: %w", err)
	}

	model := req.Model
	if model == "" {
		model = pipeline.DefaultModel
	}

	text := fmt.Sprintf("Echo from mock LLM (model=%s).\nSystem: %s\nPrompt: %s",
		model,
		truncate(req.System, MaxSystemChars),
		truncate(req.Prompt, MaxPromptChars),
	)
	return &pipeline.Completion{Text: text}, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
