package pipeline

// Adjacency maps each vertex to its direct successors in edge order.
type Adjacency map[string][]string

// BuildAdjacency keys every node id with an empty successor list and adds
// one entry per edge whose source and target are both known nodes.
// Edges with an unknown endpoint are dropped.
func BuildAdjacency(nodes []Node, edges []Edge) Adjacency {
	adj := make(Adjacency, len(nodes))
	for _, n := range nodes {
		adj[n.ID] = []string{}
	}
	for _, e := range edges {
		if _, ok := adj[e.Source]; !ok {
			continue
		}
		if _, ok := adj[e.Target]; !ok {
			continue
		}
		adj[e.Source] = append(adj[e.Source], e.Target)
	}
	return adj
}

// Validate counts the submitted nodes and edges and checks that the edges
// between known nodes form no cycle. It never fails and does not modify
// its input.
//
// num_edges is the raw submitted count, including edges dropped from the
// adjacency. An empty node set is a DAG and reports zero edges.
func Validate(nodes []Node, edges []Edge) Result {
	if len(nodes) == 0 {
		return Result{IsDAG: true}
	}

	res := Result{
		NumNodes: len(nodes),
		NumEdges: len(edges),
		IsDAG:    true,
	}

	adj := BuildAdjacency(nodes, edges)
	state := make(map[string]visitState, len(adj))
	for _, n := range nodes {
		if state[n.ID] != unvisited {
			continue
		}
		if cycle := findCycle(adj, state, n.ID); cycle != nil {
			res.IsDAG = false
			res.Cycle = cycle
			return res
		}
	}
	return res
}

type visitState uint8

const (
	unvisited visitState = iota
	inProgress
	done
)

// frame is one level of the explicit DFS stack: the vertex being
// explored and the index of its next successor to look at.
type frame struct {
	id   string
	next int
}

// findCycle runs an iterative depth-first search from root. It returns
// the cycle closed by the first back edge, or nil once every vertex
// reachable from root is done.
func findCycle(adj Adjacency, state map[string]visitState, root string) []string {
	state[root] = inProgress
	stack := []frame{{id: root}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		succ := adj[top.id]
		if top.next == len(succ) {
			state[top.id] = done
			stack = stack[:len(stack)-1]
			continue
		}

		next := succ[top.next]
		top.next++

		switch state[next] {
		case inProgress:
			return cyclePath(stack, next)
		case unvisited:
			state[next] = inProgress
			stack = append(stack, frame{id: next})
		}
	}
	return nil
}

// cyclePath extracts the path from the in-progress vertex id down to the
// top of the stack, closed by id again.
func cyclePath(stack []frame, id string) []string {
	start := len(stack) - 1
	for start > 0 && stack[start].id != id {
		start--
	}
	path := make([]string, 0, len(stack)-start+1)
	for _, f := range stack[start:] {
		path = append(path, f.id)
	}
	return append(path, id)
}
