package assemble

import (
	"maps"
	"slices"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/ged-lab/gimme/internal/splice"
)

// BigCluster is an undirected graph over cluster IDs joining clusters
// that share an exon.
type BigCluster struct {
	g *simple.UndirectedGraph
}

// MergeClusters links clusters through the exons they share. It also
// records the distinct cluster IDs on each exon.
func MergeClusters(reg *Registry) *BigCluster {
	g := simple.NewUndirectedGraph()
	for _, e := range reg.Exons() {
		seen := make(map[int]struct{})
		for k := range e.Introns {
			seen[reg.introns[k].ClusterID] = struct{}{}
		}
		ids := slices.Sorted(maps.Keys(seen))
		e.Clusters = ids

		for _, id := range ids {
			if g.Node(int64(id)) == nil {
				g.AddNode(simple.Node(id))
			}
		}
		for i := 1; i < len(ids); i++ {
			g.SetEdge(g.NewEdge(simple.Node(ids[i-1]), simple.Node(ids[i])))
		}
	}
	return &BigCluster{g: g}
}

// Components returns the connected cluster groups, each sorted, ordered
// by their smallest cluster ID.
func (b *BigCluster) Components() [][]int {
	var comps [][]int
	for _, nodes := range topo.ConnectedComponents(b.g) {
		ids := make([]int, len(nodes))
		for i, n := range nodes {
			ids[i] = int(n.ID())
		}
		slices.Sort(ids)
		comps = append(comps, ids)
	}
	slices.SortFunc(comps, func(a, b []int) int { return a[0] - b[0] })
	return comps
}

// Locus is one connected group of clusters and the exon graph built from
// their introns.
type Locus struct {
	Clusters []int
	Chrom    string
	Start    int
	End      int
	Graph    *splice.Graph
}

// Loci builds an exon graph for each connected component.
func (b *BigCluster) Loci(reg *Registry, clusters []*Cluster) []Locus {
	byID := make(map[int]*Cluster, len(clusters))
	for _, c := range clusters {
		byID[c.ID] = c
	}

	var loci []Locus
	for _, ids := range b.Components() {
		g := splice.NewGraph()
		for _, id := range ids {
			c, ok := byID[id]
			if !ok {
				continue
			}
			for _, intronID := range c.introns() {
				in := reg.intronByID(intronID)
				edges := slices.SortedFunc(maps.Keys(in.Edges), func(a, b splice.Edge) int {
					if o := splice.Compare(a.From, b.From); o != 0 {
						return o
					}
					return splice.Compare(a.To, b.To)
				})
				for _, e := range edges {
					g.AddEdge(e.From, e.To)
				}
			}
		}
		if g.NodeCount() == 0 {
			continue
		}
		exons := g.Exons()
		l := Locus{
			Clusters: ids,
			Chrom:    exons[0].Chrom,
			Start:    exons[0].Start,
			Graph:    g,
		}
		for _, e := range exons {
			l.End = max(l.End, e.End)
		}
		loci = append(loci, l)
	}
	return loci
}
