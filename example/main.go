package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/meikuraledutech/pipeline"
	"github.com/meikuraledutech/pipeline/mockllm"
)

func main() {
	ctx := context.Background()

	// ── A pipeline as the editor submits it ───────────────────────────
	g := pipeline.Graph{
		Nodes: []pipeline.Node{
			{ID: "customInput-1", Type: "customInput", Data: map[string]any{"inputName": "question"}},
			{ID: "text-1", Type: "text", Data: map[string]any{"text": "Answer: {{question}}"}},
			{ID: "llm-1", Type: "llm", Data: map[string]any{"model": "gpt-4o"}},
			{ID: "customOutput-1", Type: "customOutput"},
		},
		Edges: []pipeline.Edge{
			{ID: "e1", Source: "customInput-1", Target: "text-1"},
			{ID: "e2", Source: "text-1", Target: "llm-1", TargetHandle: "llm-1-prompt"},
			{ID: "e3", Source: "llm-1", Target: "customOutput-1"},
			{ID: "e4", Source: "llm-1", Target: "deleted-node"},
		},
	}

	fmt.Println("acyclic pipeline:")
	printJSON(g.Validate())

	// ── Feed the output back into the prompt ──────────────────────────
	g.Edges = append(g.Edges, pipeline.Edge{ID: "e5", Source: "customOutput-1", Target: "text-1"})

	res := g.Validate()
	fmt.Println("\nwith feedback edge:")
	printJSON(res)
	fmt.Printf("cycle: %v\n", res.Cycle)

	// ── Mock LLM node ─────────────────────────────────────────────────
	var completer pipeline.Completer = mockllm.New()
	out, err := completer.Complete(ctx, pipeline.CompletionRequest{
		Model:  pipeline.DefaultModel,
		System: pipeline.DefaultSystem,
		Prompt: "Answer: what is a DAG?",
	})
	if err != nil {
		log.Fatalf("complete: %v", err)
	}
	fmt.Println("\ncompletion:")
	printJSON(out)
}

func printJSON(v any) {
	out, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(out))
}
