package pipeline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nodes(ids ...string) []Node {
	out := make([]Node, len(ids))
	for i, id := range ids {
		out[i] = Node{ID: id}
	}
	return out
}

func edge(from, to string) Edge {
	return Edge{Source: from, Target: to}
}

func TestValidate_Empty(t *testing.T) {
	res := Validate(nil, nil)
	assert.Equal(t, Result{NumNodes: 0, NumEdges: 0, IsDAG: true}, res)
}

func TestValidate_EmptyNodesWithEdges(t *testing.T) {
	res := Validate(nil, []Edge{edge("a", "b"), edge("b", "a")})
	assert.Equal(t, Result{NumNodes: 0, NumEdges: 0, IsDAG: true}, res)
}

func TestValidate_SingleNode(t *testing.T) {
	res := Validate(nodes("a"), nil)
	assert.Equal(t, Result{NumNodes: 1, NumEdges: 0, IsDAG: true}, res)
}

func TestValidate_SimpleCycle(t *testing.T) {
	res := Validate(nodes("a", "b"), []Edge{edge("a", "b"), edge("b", "a")})

	assert.Equal(t, 2, res.NumNodes)
	assert.Equal(t, 2, res.NumEdges)
	assert.False(t, res.IsDAG)
	assert.Equal(t, []string{"a", "b", "a"}, res.Cycle)
}

func TestValidate_LinearChain(t *testing.T) {
	res := Validate(nodes("a", "b", "c"), []Edge{edge("a", "b"), edge("b", "c")})
	assert.Equal(t, Result{NumNodes: 3, NumEdges: 2, IsDAG: true}, res)
}

func TestValidate_SelfLoop(t *testing.T) {
	res := Validate(nodes("a"), []Edge{edge("a", "a")})

	assert.Equal(t, 1, res.NumNodes)
	assert.Equal(t, 1, res.NumEdges)
	assert.False(t, res.IsDAG)
	assert.Equal(t, []string{"a", "a"}, res.Cycle)
}

func TestValidate_DanglingEdge(t *testing.T) {
	res := Validate(nodes("a"), []Edge{edge("a", "ghost")})
	assert.Equal(t, Result{NumNodes: 1, NumEdges: 1, IsDAG: true}, res)
}

func TestValidate_DanglingEdgeCannotCloseCycle(t *testing.T) {
	// ghost→a would close a→ghost→a if unknown endpoints were kept.
	res := Validate(nodes("a"), []Edge{edge("a", "ghost"), edge("ghost", "a")})
	assert.Equal(t, Result{NumNodes: 1, NumEdges: 2, IsDAG: true}, res)
}

func TestValidate_DisconnectedComponents(t *testing.T) {
	ns := nodes("a", "b", "c", "x", "y")
	es := []Edge{
		edge("a", "b"),
		edge("b", "c"),
		edge("x", "y"),
		edge("y", "x"),
	}

	res := Validate(ns, es)

	assert.Equal(t, 5, res.NumNodes)
	assert.Equal(t, 4, res.NumEdges)
	assert.False(t, res.IsDAG)
	assert.Equal(t, []string{"x", "y", "x"}, res.Cycle)
}

func TestValidate_Diamond(t *testing.T) {
	// d is reached twice; the second visit must see it done, not in progress.
	ns := nodes("a", "b", "c", "d")
	es := []Edge{edge("a", "b"), edge("a", "c"), edge("b", "d"), edge("c", "d")}

	res := Validate(ns, es)

	assert.True(t, res.IsDAG)
	assert.Nil(t, res.Cycle)
}

func TestValidate_CycleBehindAcyclicPrefix(t *testing.T) {
	ns := nodes("a", "b", "c", "d")
	es := []Edge{edge("a", "b"), edge("b", "c"), edge("c", "d"), edge("d", "b")}

	res := Validate(ns, es)

	assert.False(t, res.IsDAG)
	assert.Equal(t, []string{"b", "c", "d", "b"}, res.Cycle)
}

func TestValidate_ReachedFromLaterRoot(t *testing.T) {
	// c is explored first as a root; a later root pointing at it is fine.
	ns := nodes("c", "b", "a")
	es := []Edge{edge("a", "b"), edge("b", "c")}

	res := Validate(ns, es)
	assert.True(t, res.IsDAG)
}

func TestValidate_DuplicateNodeIDs(t *testing.T) {
	res := Validate(nodes("a", "a", "b"), []Edge{edge("a", "b")})
	assert.Equal(t, Result{NumNodes: 3, NumEdges: 1, IsDAG: true}, res)
}

func TestValidate_ParallelEdges(t *testing.T) {
	res := Validate(nodes("a", "b"), []Edge{edge("a", "b"), edge("a", "b")})
	assert.Equal(t, Result{NumNodes: 2, NumEdges: 2, IsDAG: true}, res)
}

func TestValidate_Idempotent(t *testing.T) {
	ns := nodes("a", "b", "c")
	es := []Edge{edge("a", "b"), edge("b", "c"), edge("c", "a")}

	first := Validate(ns, es)
	second := Validate(ns, es)

	assert.Equal(t, first, second)
	assert.Equal(t, nodes("a", "b", "c"), ns)
	assert.Equal(t, []Edge{edge("a", "b"), edge("b", "c"), edge("c", "a")}, es)
}

func TestValidate_DeepChain(t *testing.T) {
	const n = 200_000
	ns := make([]Node, n)
	es := make([]Edge, 0, n)
	for i := range ns {
		ns[i] = Node{ID: fmt.Sprintf("n%d", i)}
		if i > 0 {
			es = append(es, edge(ns[i-1].ID, ns[i].ID))
		}
	}

	res := Validate(ns, es)
	require.True(t, res.IsDAG)
	assert.Equal(t, n-1, res.NumEdges)

	es = append(es, edge(ns[n-1].ID, ns[0].ID))
	res = Validate(ns, es)
	require.False(t, res.IsDAG)
	assert.Len(t, res.Cycle, n+1)
	assert.Equal(t, "n0", res.Cycle[0])
	assert.Equal(t, "n0", res.Cycle[n])
}

func TestGraph_Validate(t *testing.T) {
	g := Graph{
		Nodes: []Node{{ID: "in", Type: "customInput"}, {ID: "out", Type: "customOutput"}},
		Edges: []Edge{{ID: "e1", Source: "in", Target: "out", SourceHandle: "in-value", TargetHandle: "out-value"}},
	}
	assert.Equal(t, Result{NumNodes: 2, NumEdges: 1, IsDAG: true}, g.Validate())
}

func TestBuildAdjacency(t *testing.T) {
	adj := BuildAdjacency(
		nodes("a", "b", "c"),
		[]Edge{edge("a", "c"), edge("a", "b"), edge("b", "ghost"), edge("ghost", "c")},
	)

	assert.Equal(t, Adjacency{
		"a": {"c", "b"},
		"b": {},
		"c": {},
	}, adj)
}
