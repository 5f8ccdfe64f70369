package assemble

import (
	"slices"

	"github.com/ged-lab/gimme/internal/splice"
)

// Collapse merges exons of g whose boundaries differ only by terminal
// UTR noise, then lets the surviving exons absorb overlapping single
// exons from singles, which may be nil.
//
// Exons sharing an end are compared in (end, start) order. A shorter
// left-terminal exon is folded into the longer one; a left-terminal
// exon whose start is less than minUTR before the next one is folded
// into it. Exons sharing a start are handled symmetrically in (start,
// end) order for right-terminal exons. Folding moves the outgoing (or
// incoming) edges of the removed exon onto the survivor.
func Collapse(g *splice.Graph, roles splice.Roles, minUTR int, singles *SingleExonIndex) {
	if g.NodeCount() == 0 {
		return
	}
	role := make(splice.RoleMap, g.NodeCount())
	for _, k := range g.Exons() {
		role[k] = roles.Terminal(k)
	}

	collapseEnds(g, role, minUTR)
	collapseStarts(g, role, minUTR)

	if singles == nil {
		return
	}
	for _, k := range g.Exons() {
		singles.Absorb(k, minUTR)
	}
}

func collapseEnds(g *splice.Graph, role splice.RoleMap, minUTR int) {
	exons := g.Exons()
	slices.SortStableFunc(exons, splice.CompareByEnd)

	curr := exons[0]
	for _, next := range exons[1:] {
		if curr.End == next.End {
			if role[next] == splice.TerminalLeft {
				for _, s := range g.Successors(next) {
					g.AddEdge(curr, s)
				}
				g.RemoveExon(next)
				if role[curr] == splice.TerminalRight {
					role[curr] = splice.TerminalNone
				}
				continue
			}
			if role[curr] == splice.TerminalLeft && next.Start-curr.Start < minUTR {
				for _, s := range g.Successors(curr) {
					g.AddEdge(next, s)
				}
				g.RemoveExon(curr)
			}
		}
		curr = next
	}
}

func collapseStarts(g *splice.Graph, role splice.RoleMap, minUTR int) {
	exons := g.Exons()

	curr := exons[0]
	for _, next := range exons[1:] {
		if curr.Start == next.Start {
			if role[curr] == splice.TerminalRight {
				for _, p := range g.Predecessors(curr) {
					g.AddEdge(p, next)
				}
				g.RemoveExon(curr)
				curr = next
				continue
			}
			if role[next] == splice.TerminalRight && next.End-curr.End < minUTR {
				for _, p := range g.Predecessors(next) {
					g.AddEdge(p, curr)
				}
				g.RemoveExon(next)
				continue
			}
		}
		curr = next
	}
}
