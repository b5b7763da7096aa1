package api

import (
	"bytes"
	"encoding/json"

	"github.com/gofiber/fiber/v3"

	"github.com/meikuraledutech/pipeline"
)

// Node and edge lists are decoded item by item so that every issue can
// point at the offending index, and required fields use optString so that
// a missing field can be told apart from an explicit null.

type nodePayload struct {
	ID       optString      `json:"id"`
	Type     optString      `json:"type"`
	Position map[string]any `json:"position"`
	Data     map[string]any `json:"data"`
}

type edgePayload struct {
	ID           optString `json:"id"`
	Source       optString `json:"source"`
	Target       optString `json:"target"`
	SourceHandle optString `json:"sourceHandle"`
	TargetHandle optString `json:"targetHandle"`
}

// parsePayload keeps the lists raw: absent lists default to empty while an
// explicit null is rejected like any other non-list value.
type parsePayload struct {
	Nodes json.RawMessage `json:"nodes"`
	Edges json.RawMessage `json:"edges"`
}

// graph checks shapes and required fields and converts the payload.
func (p *parsePayload) graph() (pipeline.Graph, error) {
	var issues []Issue
	g := pipeline.Graph{
		Nodes: []pipeline.Node{},
		Edges: []pipeline.Edge{},
	}

	rawNodes, listIssues := decodeList(p.Nodes, "nodes")
	issues = append(issues, listIssues...)
	for i, raw := range rawNodes {
		var n nodePayload
		if err := json.Unmarshal(raw, &n); err != nil {
			issues = append(issues, decodeIssue(err, "nodes", i).Issues...)
			continue
		}
		if is, ok := required(n.ID, "nodes", i, "id"); !ok {
			issues = append(issues, is)
			continue
		}
		g.Nodes = append(g.Nodes, pipeline.Node{
			ID:       n.ID.Value,
			Type:     n.Type.Value,
			Position: n.Position,
			Data:     n.Data,
		})
	}

	rawEdges, listIssues := decodeList(p.Edges, "edges")
	issues = append(issues, listIssues...)
	for i, raw := range rawEdges {
		var e edgePayload
		if err := json.Unmarshal(raw, &e); err != nil {
			issues = append(issues, decodeIssue(err, "edges", i).Issues...)
			continue
		}
		srcIssue, srcOK := required(e.Source, "edges", i, "source")
		dstIssue, dstOK := required(e.Target, "edges", i, "target")
		if !srcOK {
			issues = append(issues, srcIssue)
		}
		if !dstOK {
			issues = append(issues, dstIssue)
		}
		if !srcOK || !dstOK {
			continue
		}
		g.Edges = append(g.Edges, pipeline.Edge{
			ID:           e.ID.Value,
			Source:       e.Source.Value,
			Target:       e.Target.Value,
			SourceHandle: e.SourceHandle.Value,
			TargetHandle: e.TargetHandle.Value,
		})
	}

	if len(issues) > 0 {
		return pipeline.Graph{}, &ValidationError{Issues: issues}
	}
	return g, nil
}

// decodeList splits a raw JSON list into its items. An absent list has no
// items; null or any non-list value is a type error at field.
func decodeList(raw json.RawMessage, field string) ([]json.RawMessage, []Issue) {
	if len(raw) == 0 {
		return nil, nil
	}
	if string(raw) == "null" {
		return nil, []Issue{listTypeIssue(field, "null")}
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, []Issue{listTypeIssue(field, "")}
	}
	return items, nil
}

func listTypeIssue(field, got string) Issue {
	msg := "Input should be a valid list"
	if got != "" {
		msg += ", got " + got
	}
	return Issue{Loc: []any{"body", field}, Msg: msg, Type: "type_error"}
}

// required reports an issue for a field that is absent or null.
func required(v optString, loc ...any) (Issue, bool) {
	switch {
	case !v.Set:
		return missing(loc...), false
	case !v.Valid:
		return Issue{
			Loc:  append([]any{"body"}, loc...),
			Msg:  "Input should be a valid string, got null",
			Type: "type_error",
		}, false
	}
	return Issue{}, true
}

// optString records whether a JSON field was present, null, or a string.
type optString struct {
	Set   bool
	Valid bool
	Value string
}

func (o *optString) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		return nil
	}
	if err := json.Unmarshal(b, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

type completionPayload struct {
	Model  optString `json:"model"`
	System optString `json:"system"`
	Prompt optString `json:"prompt"`
}

// request applies the editor defaults: an absent system instruction gets
// the default one, while an explicit null clears it.
func (p *completionPayload) request() pipeline.CompletionRequest {
	req := pipeline.CompletionRequest{
		Model:  p.Model.Value,
		System: p.System.Value,
		Prompt: p.Prompt.Value,
	}
	if req.Model == "" {
		req.Model = pipeline.DefaultModel
	}
	if !p.System.Set {
		req.System = pipeline.DefaultSystem
	}
	return req
}

// decodeBody decodes the request body with the app's JSON decoder.
// An empty or null body is reported as a missing body.
func decodeBody(c fiber.Ctx, out any) error {
	body := bytes.TrimSpace(c.Body())
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return &ValidationError{Issues: []Issue{missing()}}
	}
	if err := c.App().Config().JSONDecoder(body, out); err != nil {
		return decodeIssue(err)
	}
	return nil
}
