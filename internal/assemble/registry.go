package assemble

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"github.com/ged-lab/gimme/internal/splice"
)

// IntronKey identifies an intron by the gap it spans, [Start, End).
type IntronKey struct {
	Chrom string
	Start int
	End   int
}

func (k IntronKey) String() string {
	return fmt.Sprintf("%s:%d-%d", k.Chrom, k.Start, k.End)
}

func compareIntrons(a, b IntronKey) int {
	if c := cmp.Compare(a.Chrom, b.Chrom); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Start, b.Start); c != 0 {
		return c
	}
	return cmp.Compare(a.End, b.End)
}

// Exon is the registry record of a multi-exon transcript block.
type Exon struct {
	Key      splice.ExonKey
	Terminal splice.Terminal
	// Clusters lists the distinct cluster IDs of the exon's introns,
	// filled in by MergeClusters.
	Clusters []int
	Next     map[splice.ExonKey]struct{}
	Introns  map[IntronKey]struct{}
}

// Intron is the registry record of a gap between two exons.
type Intron struct {
	Key IntronKey
	// ClusterID is the owning cluster, 0 until the intron is clustered.
	ClusterID int
	// Edges holds the exon pairs observed flanking the intron.
	Edges map[splice.Edge]struct{}

	id int64
}

// Registry deduplicates exons and introns by coordinate.
type Registry struct {
	exons   map[splice.ExonKey]*Exon
	introns map[IntronKey]*Intron
	byID    []*Intron
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		exons:   make(map[splice.ExonKey]*Exon),
		introns: make(map[IntronKey]*Intron),
	}
}

// Exon returns the exon record for k, or nil.
func (r *Registry) Exon(k splice.ExonKey) *Exon {
	return r.exons[k]
}

// Intron returns the intron record for k, or nil.
func (r *Registry) Intron(k IntronKey) *Intron {
	return r.introns[k]
}

// ExonCount returns the number of distinct exons.
func (r *Registry) ExonCount() int {
	return len(r.exons)
}

// IntronCount returns the number of distinct introns.
func (r *Registry) IntronCount() int {
	return len(r.introns)
}

// Exons returns all exon records sorted by coordinate.
func (r *Registry) Exons() []*Exon {
	exons := slices.Collect(maps.Values(r.exons))
	slices.SortFunc(exons, func(a, b *Exon) int { return splice.Compare(a.Key, b.Key) })
	return exons
}

// Introns returns all intron records sorted by coordinate.
func (r *Registry) Introns() []*Intron {
	introns := slices.Clone(r.byID)
	slices.SortFunc(introns, func(a, b *Intron) int { return compareIntrons(a.Key, b.Key) })
	return introns
}

// Terminal implements splice.Roles.
func (r *Registry) Terminal(k splice.ExonKey) splice.Terminal {
	if e := r.exons[k]; e != nil {
		return e.Terminal
	}
	return splice.TerminalNone
}

// AddExons registers the exons of one multi-exon transcript. The first
// exon is marked left-terminal and the last right-terminal. An exon
// already present keeps its role only if this occurrence agrees with it.
func (r *Registry) AddExons(exons []splice.ExonKey) {
	for i, k := range exons {
		role := splice.TerminalNone
		switch i {
		case 0:
			role = splice.TerminalLeft
		case len(exons) - 1:
			role = splice.TerminalRight
		}

		e, ok := r.exons[k]
		if !ok {
			r.exons[k] = &Exon{
				Key:      k,
				Terminal: role,
				Next:     make(map[splice.ExonKey]struct{}),
				Introns:  make(map[IntronKey]struct{}),
			}
			continue
		}
		if e.Terminal != role {
			e.Terminal = splice.TerminalNone
		}
	}
}

// intron returns the record for k, creating it if needed. The boolean
// reports whether the record was created.
func (r *Registry) intron(k IntronKey) (*Intron, bool) {
	if in, ok := r.introns[k]; ok {
		return in, false
	}
	in := &Intron{
		Key:   k,
		Edges: make(map[splice.Edge]struct{}),
		id:    int64(len(r.byID)),
	}
	r.introns[k] = in
	r.byID = append(r.byID, in)
	return in, true
}

func (r *Registry) intronByID(id int64) *Intron {
	return r.byID[id]
}
