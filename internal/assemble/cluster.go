package assemble

import (
	"fmt"
	"maps"
	"slices"

	"gonum.org/v1/gonum/graph/simple"

	"github.com/ged-lab/gimme/internal/splice"
)

// Cluster is a directed graph of introns observed together in
// transcripts. Node IDs are intron IDs from the registry.
type Cluster struct {
	ID int
	g  *simple.DirectedGraph
}

func newCluster(id int) *Cluster {
	return &Cluster{ID: id, g: simple.NewDirectedGraph()}
}

func (c *Cluster) addIntron(in *Intron) {
	if c.g.Node(in.id) == nil {
		c.g.AddNode(simple.Node(in.id))
	}
}

// addPath adds the introns of one transcript in order. A single intron
// becomes a lone node.
func (c *Cluster) addPath(introns []*Intron) {
	for _, in := range introns {
		c.addIntron(in)
	}
	for i := 1; i < len(introns); i++ {
		c.g.SetEdge(c.g.NewEdge(simple.Node(introns[i-1].id), simple.Node(introns[i].id)))
	}
}

// absorb copies the nodes and edges of o into c.
func (c *Cluster) absorb(o *Cluster) {
	nodes := o.g.Nodes()
	for nodes.Next() {
		if n := nodes.Node(); c.g.Node(n.ID()) == nil {
			c.g.AddNode(n)
		}
	}
	edges := o.g.Edges()
	for edges.Next() {
		e := edges.Edge()
		c.g.SetEdge(c.g.NewEdge(e.From(), e.To()))
	}
}

// introns returns the intron IDs in the cluster, sorted.
func (c *Cluster) introns() []int64 {
	var ids []int64
	nodes := c.g.Nodes()
	for nodes.Next() {
		ids = append(ids, nodes.Node().ID())
	}
	slices.Sort(ids)
	return ids
}

// Len returns the number of introns in the cluster.
func (c *Cluster) Len() int {
	return c.g.Nodes().Len()
}

// addIntrons registers the introns of one transcript and merges every
// cluster they touch into a new cluster. exons must already be in the
// registry.
func (s *Session) addIntrons(exons []splice.ExonKey) {
	var (
		introns  []*Intron
		existing = make(map[int]struct{})
	)
	for i := 1; i < len(exons); i++ {
		prev, next := s.reg.exons[exons[i-1]], s.reg.exons[exons[i]]
		prev.Next[next.Key] = struct{}{}

		key := IntronKey{Chrom: prev.Key.Chrom, Start: prev.Key.End, End: next.Key.Start}
		in, created := s.reg.intron(key)
		if !created && in.ClusterID != 0 {
			existing[in.ClusterID] = struct{}{}
		}
		in.Edges[splice.Edge{From: prev.Key, To: next.Key}] = struct{}{}
		prev.Introns[key] = struct{}{}
		next.Introns[key] = struct{}{}
		introns = append(introns, in)
	}
	if len(introns) == 0 {
		return
	}

	s.nextCluster++
	cluster := newCluster(s.nextCluster)
	for _, id := range slices.Sorted(maps.Keys(existing)) {
		cluster.absorb(s.clusters[id])
		delete(s.clusters, id)
	}
	for _, id := range cluster.introns() {
		s.reg.intronByID(id).ClusterID = cluster.ID
	}
	cluster.addPath(introns)
	for _, in := range introns {
		in.ClusterID = cluster.ID
	}
	s.clusters[cluster.ID] = cluster
}

// Clusters returns the live clusters ordered by ID.
func (s *Session) Clusters() []*Cluster {
	ids := slices.Sorted(maps.Keys(s.clusters))
	out := make([]*Cluster, len(ids))
	for i, id := range ids {
		out[i] = s.clusters[id]
	}
	return out
}

// CheckPartition verifies that every intron belongs to exactly one live
// cluster and that its ClusterID names that cluster.
func (s *Session) CheckPartition() error {
	owner := make(map[int64]int, len(s.reg.byID))
	for _, c := range s.Clusters() {
		for _, id := range c.introns() {
			if prev, ok := owner[id]; ok {
				return fmt.Errorf("%w: intron %v in clusters %d and %d",
					ErrPartition, s.reg.intronByID(id).Key, prev, c.ID)
			}
			owner[id] = c.ID
			if got := s.reg.intronByID(id).ClusterID; got != c.ID {
				return fmt.Errorf("%w: intron %v in cluster %d but tagged %d",
					ErrPartition, s.reg.intronByID(id).Key, c.ID, got)
			}
		}
	}
	for _, in := range s.reg.byID {
		if _, ok := owner[in.id]; !ok {
			return fmt.Errorf("%w: intron %v has no cluster", ErrPartition, in.Key)
		}
	}
	return nil
}
