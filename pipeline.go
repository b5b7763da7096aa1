// Package pipeline validates pipeline graphs submitted by the editor.
package pipeline

// Graph is a pipeline snapshot as drawn in the editor: the full set of
// nodes and edges submitted in one request.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node represents a vertex in the pipeline.
// Type, Position and Data belong to the editor and are never interpreted here.
type Node struct {
	ID       string         `json:"id"`
	Type     string         `json:"type,omitempty"`
	Position map[string]any `json:"position,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// Edge represents a directed connection from Source to Target.
// ID and the handle fields name editor ports; validation ignores them.
type Edge struct {
	ID           string `json:"id,omitempty"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
}

// Result is the outcome of validating a graph snapshot.
// Cycle holds the closed vertex path of the first back edge found and is
// only populated when IsDAG is false.
type Result struct {
	NumNodes int      `json:"num_nodes"`
	NumEdges int      `json:"num_edges"`
	IsDAG    bool     `json:"is_dag"`
	Cycle    []string `json:"-"`
}

// Validate reports the size and acyclicity of g.
func (g Graph) Validate() Result {
	return Validate(g.Nodes, g.Edges)
}
