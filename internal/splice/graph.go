package splice

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// ErrCyclicGraph is returned when an exon graph contains a cycle.
// Exon graphs are built from introns that only join exons in genomic
// order, so a cycle indicates corrupted input to the graph.
var ErrCyclicGraph = errors.New("exon graph is not acyclic")

// NodeKind tags the role of a graph node.
type NodeKind uint8

const (
	ExonNode NodeKind = iota
	StartNode
	EndNode
)

// Reserved IDs for the synthetic anchors. Exon nodes use IDs >= 0.
const (
	startID int64 = -1
	endID   int64 = -2
)

// Node is a gonum graph node that is either an exon or one of the
// synthetic Start/End anchors.
type Node struct {
	id   int64
	Kind NodeKind
	Exon ExonKey
}

// ID implements graph.Node.
func (n Node) ID() int64 { return n.id }

func (n Node) String() string {
	switch n.Kind {
	case StartNode:
		return "Start"
	case EndNode:
		return "End"
	default:
		return n.Exon.String()
	}
}

var (
	startNode = Node{id: startID, Kind: StartNode}
	endNode   = Node{id: endID, Kind: EndNode}
)

// Graph is a directed exon graph for one locus.
type Graph struct {
	// Strand is the strand assigned to the graph, StrandUnknown until
	// the graph has been split by strand.
	Strand Strand

	g    *simple.DirectedGraph
	ids  map[ExonKey]int64
	next int64
}

// NewGraph returns an empty exon graph.
func NewGraph() *Graph {
	return &Graph{
		Strand: StrandUnknown,
		g:      simple.NewDirectedGraph(),
		ids:    make(map[ExonKey]int64),
	}
}

// AddExon adds an exon node if it is not already present.
func (g *Graph) AddExon(k ExonKey) {
	g.nodeFor(k)
}

func (g *Graph) nodeFor(k ExonKey) Node {
	if id, ok := g.ids[k]; ok {
		return g.g.Node(id).(Node)
	}
	n := Node{id: g.next, Kind: ExonNode, Exon: k}
	g.next++
	g.ids[k] = n.id
	g.g.AddNode(n)
	return n
}

// AddEdge adds the edge u->v, creating missing nodes. Self edges are ignored.
func (g *Graph) AddEdge(u, v ExonKey) {
	if u == v {
		return
	}
	from := g.nodeFor(u)
	to := g.nodeFor(v)
	g.g.SetEdge(g.g.NewEdge(from, to))
}

// RemoveExon removes an exon and all its edges.
func (g *Graph) RemoveExon(k ExonKey) {
	id, ok := g.ids[k]
	if !ok {
		return
	}
	g.g.RemoveNode(id)
	delete(g.ids, k)
}

// HasExon reports whether k is a node of g.
func (g *Graph) HasExon(k ExonKey) bool {
	_, ok := g.ids[k]
	return ok
}

// HasEdge reports whether the edge u->v exists.
func (g *Graph) HasEdge(u, v ExonKey) bool {
	uid, ok := g.ids[u]
	if !ok {
		return false
	}
	vid, ok := g.ids[v]
	if !ok {
		return false
	}
	return g.g.HasEdgeFromTo(uid, vid)
}

// Successors returns the exons reachable by one edge from k, sorted.
func (g *Graph) Successors(k ExonKey) []ExonKey {
	id, ok := g.ids[k]
	if !ok {
		return nil
	}
	return exonsOf(g.g.From(id))
}

// Predecessors returns the exons with an edge into k, sorted.
func (g *Graph) Predecessors(k ExonKey) []ExonKey {
	id, ok := g.ids[k]
	if !ok {
		return nil
	}
	return exonsOf(g.g.To(id))
}

// Exons returns all exon nodes sorted by Compare.
func (g *Graph) Exons() []ExonKey {
	keys := make([]ExonKey, 0, len(g.ids))
	for k := range g.ids {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, Compare)
	return keys
}

// Edges returns all edges sorted by source then target.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	it := g.g.Edges()
	for it.Next() {
		e := it.Edge()
		edges = append(edges, Edge{
			From: e.From().(Node).Exon,
			To:   e.To().(Node).Exon,
		})
	}
	slices.SortFunc(edges, compareEdges)
	return edges
}

// NodeCount returns the number of exon nodes.
func (g *Graph) NodeCount() int {
	return len(g.ids)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	n := 0
	it := g.g.Edges()
	for it.Next() {
		n++
	}
	return n
}

// Clone returns a deep copy of g.
func (g *Graph) Clone() *Graph {
	c := NewGraph()
	c.Strand = g.Strand
	for _, k := range g.Exons() {
		c.AddExon(k)
	}
	for _, e := range g.Edges() {
		c.AddEdge(e.From, e.To)
	}
	return c
}

// checkAcyclic returns ErrCyclicGraph if g has a cycle.
func (g *Graph) checkAcyclic() error {
	if _, err := topo.Sort(g.g); err != nil {
		return fmt.Errorf("%w: %v", ErrCyclicGraph, err)
	}
	return nil
}

// anchored returns a copy of the graph topology with a Start node joined
// to every node lacking a predecessor and an End node joined from every
// node lacking a successor.
func (g *Graph) anchored() *simple.DirectedGraph {
	a := simple.NewDirectedGraph()
	a.AddNode(startNode)
	a.AddNode(endNode)

	nodes := g.g.Nodes()
	for nodes.Next() {
		a.AddNode(nodes.Node())
	}
	edges := g.g.Edges()
	for edges.Next() {
		e := edges.Edge()
		a.SetEdge(a.NewEdge(e.From(), e.To()))
	}

	nodes = g.g.Nodes()
	for nodes.Next() {
		n := nodes.Node()
		if g.g.To(n.ID()).Len() == 0 {
			a.SetEdge(a.NewEdge(startNode, n))
		}
		if g.g.From(n.ID()).Len() == 0 {
			a.SetEdge(a.NewEdge(n, endNode))
		}
	}
	return a
}

// sortedFrom returns the successors of id in a deterministic order:
// exons by coordinate, then the End anchor.
func sortedFrom(g graph.Directed, id int64) []Node {
	var out []Node
	it := g.From(id)
	for it.Next() {
		out = append(out, it.Node().(Node))
	}
	slices.SortFunc(out, compareNodes)
	return out
}

func compareNodes(a, b Node) int {
	if a.Kind != b.Kind {
		return int(a.Kind) - int(b.Kind)
	}
	return Compare(a.Exon, b.Exon)
}

func exonsOf(it graph.Nodes) []ExonKey {
	var keys []ExonKey
	for it.Next() {
		keys = append(keys, it.Node().(Node).Exon)
	}
	slices.SortFunc(keys, Compare)
	return keys
}
