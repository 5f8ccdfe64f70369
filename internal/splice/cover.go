package splice

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

var (
	// ErrCoverMismatch is returned when the paths produced by
	// MinimumPathCover do not cover exactly the edges of the graph.
	ErrCoverMismatch = errors.New("path cover does not match graph edges")

	// ErrRoundLimit is returned when MinimumPathCover exceeds its
	// matching round budget.
	ErrRoundLimit = errors.New("path cover round limit exceeded")
)

// MinimumPathCover returns a small set of source-to-sink paths whose
// union contains every edge of g.
//
// Each round computes a maximum matching over the edges not yet matched
// in an earlier round. Matched edges form disjoint chains; each chain is
// extended to a source by the shortest prefix and to a sink by the
// shortest suffix. Rounds continue until no edge remains. maxRounds <= 0
// selects a budget of one more than the edge count.
func MinimumPathCover(g *Graph, maxRounds int) ([][]ExonKey, error) {
	if err := g.checkAcyclic(); err != nil {
		return nil, err
	}
	edges := g.Edges()
	if len(edges) == 0 {
		return nil, nil
	}
	if maxRounds <= 0 {
		maxRounds = len(edges) + 1
	}
	a := g.anchored()

	var paths [][]ExonKey
	seen := make(map[string]bool)
	remaining := edges
	for round := 0; len(remaining) > 0; round++ {
		matched := matching(remaining)
		if len(matched) == 0 {
			break
		}
		if round >= maxRounds {
			return nil, fmt.Errorf("%w: %d rounds, %d edges left", ErrRoundLimit, round, len(remaining))
		}
		for _, p := range extendChains(g, a, matched) {
			key := pathKey(p)
			if seen[key] {
				continue
			}
			seen[key] = true
			paths = append(paths, p)
		}
		used := make(map[Edge]bool, len(matched))
		for _, e := range matched {
			used[e] = true
		}
		remaining = slices.DeleteFunc(slices.Clone(remaining), func(e Edge) bool { return used[e] })
	}

	if err := checkCover(g, edges, paths); err != nil {
		return nil, err
	}
	slices.SortFunc(paths, comparePaths)
	return paths, nil
}

// extendChains groups matched edges into chains and extends each chain
// into a full source-to-sink path through the anchored graph a.
func extendChains(g *Graph, a *simple.DirectedGraph, matched []Edge) [][]ExonKey {
	k := simple.NewDirectedGraph()
	for _, e := range matched {
		from := g.g.Node(g.ids[e.From])
		to := g.g.Node(g.ids[e.To])
		if k.Node(from.ID()) == nil {
			k.AddNode(from)
		}
		if k.Node(to.ID()) == nil {
			k.AddNode(to)
		}
		k.SetEdge(k.NewEdge(from, to))
	}

	var paths [][]ExonKey
	for _, comp := range topo.ConnectedComponents(graph.Undirect{G: k}) {
		var head Node
		for _, n := range comp {
			if k.To(n.ID()).Len() == 0 {
				head = n.(Node)
				break
			}
		}
		chain := []Node{head}
		for cur := head; ; {
			it := k.From(cur.ID())
			if !it.Next() {
				break
			}
			cur = it.Node().(Node)
			chain = append(chain, cur)
		}
		tail := chain[len(chain)-1]

		var p []ExonKey
		prefix := shortestPath(a, startID, head.ID())
		for _, n := range prefix[1 : len(prefix)-1] {
			p = append(p, n.Exon)
		}
		for _, n := range chain {
			p = append(p, n.Exon)
		}
		suffix := shortestPath(a, tail.ID(), endID)
		for _, n := range suffix[1 : len(suffix)-1] {
			p = append(p, n.Exon)
		}
		paths = append(paths, p)
	}
	slices.SortFunc(paths, comparePaths)
	return paths
}

// shortestPath returns the nodes of a fewest-edge path from one node to
// another, both included. Ties are broken by visiting successors in
// coordinate order. The Start and End anchors guarantee a path exists
// between Start and any exon, and between any exon and End.
func shortestPath(a *simple.DirectedGraph, from, to int64) []Node {
	parent := map[int64]int64{from: from}
	queue := []int64{from}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		if u == to {
			break
		}
		for _, n := range sortedFrom(a, u) {
			if _, ok := parent[n.ID()]; ok {
				continue
			}
			parent[n.ID()] = u
			queue = append(queue, n.ID())
		}
	}

	var rev []Node
	for id := to; ; id = parent[id] {
		rev = append(rev, a.Node(id).(Node))
		if id == from {
			break
		}
	}
	slices.Reverse(rev)
	return rev
}

func checkCover(g *Graph, edges []Edge, paths [][]ExonKey) error {
	covered := make(map[Edge]bool, len(edges))
	for _, p := range paths {
		for i := 1; i < len(p); i++ {
			e := Edge{From: p[i-1], To: p[i]}
			if !g.HasEdge(e.From, e.To) {
				return fmt.Errorf("%w: path uses %v->%v", ErrCoverMismatch, e.From, e.To)
			}
			covered[e] = true
		}
	}
	if len(covered) != len(edges) {
		return fmt.Errorf("%w: %d of %d edges covered", ErrCoverMismatch, len(covered), len(edges))
	}
	return nil
}

func pathKey(p []ExonKey) string {
	var b strings.Builder
	for i, k := range p {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k.String())
	}
	return b.String()
}
