package assemble

import (
	"strings"

	"github.com/ged-lab/gimme/internal/splice"
)

// SequenceFetcher gives access to reference bases for splice-site
// scoring.
type SequenceFetcher interface {
	Fetch(chrom string, start, end int) (string, error)
	ReverseComplement(s string) string
}

// Canonical donor/acceptor dinucleotides on the forward strand.
var forwardMotifs = [][2]string{
	{"GT", "AG"},
	{"GC", "AG"},
	{"AT", "AC"},
}

// motifScorer classifies intron flanks as forward (+1), reverse (-1) or
// ambiguous (0).
type motifScorer struct {
	forward map[[2]string]bool
	reverse map[[2]string]bool
}

func newMotifScorer(seq SequenceFetcher) motifScorer {
	m := motifScorer{
		forward: make(map[[2]string]bool),
		reverse: make(map[[2]string]bool),
	}
	for _, p := range forwardMotifs {
		m.forward[p] = true
		// On the minus strand the acceptor is read first, complemented.
		m.reverse[[2]string{seq.ReverseComplement(p[1]), seq.ReverseComplement(p[0])}] = true
	}
	return m
}

func (m motifScorer) score(donor, acceptor string) int {
	p := [2]string{strings.ToUpper(donor), strings.ToUpper(acceptor)}
	switch {
	case m.forward[p]:
		return 1
	case m.reverse[p]:
		return -1
	default:
		return 0
	}
}

// edgeScore scores the intron between the exons of e. Bases that cannot
// be fetched score 0.
func (m motifScorer) edgeScore(seq SequenceFetcher, e splice.Edge) int {
	donor, err := seq.Fetch(e.From.Chrom, e.From.End, e.From.End+2)
	if err != nil {
		return 0
	}
	acceptor, err := seq.Fetch(e.To.Chrom, e.To.Start-2, e.To.Start)
	if err != nil {
		return 0
	}
	return m.score(donor, acceptor)
}

// windowSums sums each score with its neighbors in a window of three.
// At either end the window is shifted inward; fewer than three scores
// share one window.
func windowSums(scores []int) []int {
	n := len(scores)
	sums := make([]int, n)
	for i := range scores {
		lo, hi := i-1, i+1
		switch {
		case n < 3:
			lo, hi = 0, n-1
		case i == 0:
			lo, hi = 0, 2
		case i == n-1:
			lo, hi = n-3, n-1
		}
		for j := lo; j <= hi; j++ {
			sums[i] += scores[j]
		}
	}
	return sums
}

// SplitStrand splits g by the splice-site motifs of its introns into a
// plus graph (window sum >= 0) and a minus graph (window sum <= 0). If
// no intron has a recognizable motif, or seq is nil, a copy of g with
// unknown strand is returned. A split graph whose edges are all
// ambiguous is dropped, unless both are.
func SplitStrand(g *splice.Graph, seq SequenceFetcher) []*splice.Graph {
	edges := g.Edges()
	if seq == nil || len(edges) == 0 {
		c := g.Clone()
		c.Strand = splice.StrandUnknown
		return []*splice.Graph{c}
	}

	m := newMotifScorer(seq)
	scores := make([]int, len(edges))
	informative := false
	for i, e := range edges {
		scores[i] = m.edgeScore(seq, e)
		if scores[i] != 0 {
			informative = true
		}
	}
	if !informative {
		c := g.Clone()
		c.Strand = splice.StrandUnknown
		return []*splice.Graph{c}
	}

	plus, minus := splice.NewGraph(), splice.NewGraph()
	plus.Strand, minus.Strand = splice.StrandPlus, splice.StrandMinus
	var plusSigned, minusSigned bool
	for i, sum := range windowSums(scores) {
		e := edges[i]
		if sum >= 0 {
			plus.AddEdge(e.From, e.To)
			plusSigned = plusSigned || sum > 0
		}
		if sum <= 0 {
			minus.AddEdge(e.From, e.To)
			minusSigned = minusSigned || sum < 0
		}
	}

	var out []*splice.Graph
	if plusSigned {
		out = append(out, plus)
	}
	if minusSigned {
		out = append(out, minus)
	}
	if len(out) == 0 {
		c := g.Clone()
		c.Strand = splice.StrandUnknown
		out = append(out, c)
	}
	return out
}
