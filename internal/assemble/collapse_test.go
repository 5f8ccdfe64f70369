package assemble

import (
	"testing"

	"github.com/ged-lab/gimme/internal/splice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// baseGraph is the six-exon chain 1000-1100 ... 2500-2600 with the
// first exon left-terminal and the last right-terminal.
func baseGraph() (*splice.Graph, splice.RoleMap) {
	g := splice.NewGraph()
	roles := splice.RoleMap{}
	var prev splice.ExonKey
	for i := range 6 {
		k := ex(1000+300*i, 1100+300*i)
		g.AddExon(k)
		if i > 0 {
			g.AddEdge(prev, k)
		}
		prev = k
	}
	roles[ex(1000, 1100)] = splice.TerminalLeft
	roles[ex(2500, 2600)] = splice.TerminalRight
	return g, roles
}

type extraExon struct {
	key  splice.ExonKey
	role splice.Terminal
}

func TestCollapse_Fixtures(t *testing.T) {
	L, R, N := splice.TerminalLeft, splice.TerminalRight, splice.TerminalNone

	tests := []struct {
		name      string
		exons     []extraExon
		edges     []splice.Edge
		wantNodes int
		wantEdges int
		want      []splice.Edge
	}{
		{
			name:      "left terminal",
			exons:     []extraExon{{ex(1050, 1100), L}},
			edges:     []splice.Edge{{From: ex(1050, 1100), To: ex(1300, 1400)}},
			wantNodes: 6, wantEdges: 5,
		},
		{
			name:      "right terminal",
			exons:     []extraExon{{ex(2500, 2550), R}},
			edges:     []splice.Edge{{From: ex(2200, 2300), To: ex(2500, 2550)}},
			wantNodes: 6, wantEdges: 5,
		},
		{
			name:      "left terminal with upstream exon",
			exons:     []extraExon{{ex(700, 800), L}, {ex(900, 1100), R}},
			edges:     []splice.Edge{{From: ex(700, 800), To: ex(900, 1100)}},
			wantNodes: 7, wantEdges: 6,
			want: []splice.Edge{
				{From: ex(700, 800), To: ex(900, 1100)},
				{From: ex(900, 1100), To: ex(1300, 1400)},
				{From: ex(1300, 1400), To: ex(1600, 1700)},
				{From: ex(1600, 1700), To: ex(1900, 2000)},
				{From: ex(1900, 2000), To: ex(2200, 2300)},
				{From: ex(2200, 2300), To: ex(2500, 2600)},
			},
		},
		{
			name:      "right terminal with skipped exon",
			exons:     []extraExon{{ex(1900, 2000), L}, {ex(2500, 2550), R}},
			edges:     []splice.Edge{{From: ex(1900, 2000), To: ex(2500, 2550)}},
			wantNodes: 6, wantEdges: 6,
			want: []splice.Edge{
				{From: ex(1000, 1100), To: ex(1300, 1400)},
				{From: ex(1300, 1400), To: ex(1600, 1700)},
				{From: ex(1600, 1700), To: ex(1900, 2000)},
				{From: ex(1900, 2000), To: ex(2200, 2300)},
				{From: ex(1900, 2000), To: ex(2500, 2600)},
				{From: ex(2200, 2300), To: ex(2500, 2600)},
			},
		},
		{
			name:      "left terminal with skipped exon",
			exons:     []extraExon{{ex(1050, 1100), L}, {ex(1600, 1700), R}},
			edges:     []splice.Edge{{From: ex(1050, 1100), To: ex(1600, 1700)}},
			wantNodes: 6, wantEdges: 6,
			want: []splice.Edge{
				{From: ex(1000, 1100), To: ex(1300, 1400)},
				{From: ex(1000, 1100), To: ex(1600, 1700)},
				{From: ex(1300, 1400), To: ex(1600, 1700)},
				{From: ex(1600, 1700), To: ex(1900, 2000)},
				{From: ex(1900, 2000), To: ex(2200, 2300)},
				{From: ex(2200, 2300), To: ex(2500, 2600)},
			},
		},
		{
			name:  "left and right terminal with skipped exon",
			exons: []extraExon{{ex(1050, 1100), L}, {ex(1600, 1700), N}, {ex(1900, 1950), R}},
			edges: []splice.Edge{
				{From: ex(1050, 1100), To: ex(1600, 1700)},
				{From: ex(1600, 1700), To: ex(1900, 1950)},
			},
			wantNodes: 6, wantEdges: 6,
		},
		{
			name:  "left utr longer than min",
			exons: []extraExon{{ex(1190, 1400), L}, {ex(1600, 1700), N}, {ex(1900, 1950), R}},
			edges: []splice.Edge{
				{From: ex(1190, 1400), To: ex(1600, 1700)},
				{From: ex(1600, 1700), To: ex(1900, 1950)},
			},
			wantNodes: 7, wantEdges: 6,
			want: []splice.Edge{
				{From: ex(1000, 1100), To: ex(1300, 1400)},
				{From: ex(1190, 1400), To: ex(1600, 1700)},
				{From: ex(1300, 1400), To: ex(1600, 1700)},
				{From: ex(1600, 1700), To: ex(1900, 2000)},
				{From: ex(1900, 2000), To: ex(2200, 2300)},
				{From: ex(2200, 2300), To: ex(2500, 2600)},
			},
		},
		{
			name:  "left utr shorter than min",
			exons: []extraExon{{ex(1250, 1400), L}, {ex(1600, 1700), N}, {ex(1900, 1950), R}},
			edges: []splice.Edge{
				{From: ex(1250, 1400), To: ex(1600, 1700)},
				{From: ex(1600, 1700), To: ex(1900, 1950)},
			},
			wantNodes: 6, wantEdges: 5,
		},
		{
			name:  "right utr longer than min",
			exons: []extraExon{{ex(1050, 1100), L}, {ex(1300, 1400), N}, {ex(1600, 1850), R}},
			edges: []splice.Edge{
				{From: ex(1050, 1100), To: ex(1300, 1400)},
				{From: ex(1300, 1400), To: ex(1600, 1850)},
			},
			wantNodes: 7, wantEdges: 6,
			want: []splice.Edge{
				{From: ex(1000, 1100), To: ex(1300, 1400)},
				{From: ex(1300, 1400), To: ex(1600, 1700)},
				{From: ex(1300, 1400), To: ex(1600, 1850)},
				{From: ex(1600, 1700), To: ex(1900, 2000)},
				{From: ex(1900, 2000), To: ex(2200, 2300)},
				{From: ex(2200, 2300), To: ex(2500, 2600)},
			},
		},
		{
			name:  "right utr shorter than min",
			exons: []extraExon{{ex(1050, 1100), L}, {ex(1300, 1400), N}, {ex(1600, 1750), R}},
			edges: []splice.Edge{
				{From: ex(1050, 1100), To: ex(1300, 1400)},
				{From: ex(1300, 1400), To: ex(1600, 1750)},
			},
			wantNodes: 6, wantEdges: 5,
		},
		{
			name:      "left and right utr longer than min",
			exons:     []extraExon{{ex(1150, 1400), L}, {ex(1600, 1850), R}},
			edges:     []splice.Edge{{From: ex(1150, 1400), To: ex(1600, 1850)}},
			wantNodes: 8, wantEdges: 6,
		},
		{
			name:      "left and right utr shorter than min",
			exons:     []extraExon{{ex(1250, 1400), L}, {ex(1600, 1750), R}},
			edges:     []splice.Edge{{From: ex(1250, 1400), To: ex(1600, 1750)}},
			wantNodes: 6, wantEdges: 5,
		},
		{
			name:      "collapse all",
			exons:     []extraExon{{ex(1350, 1400), L}, {ex(1600, 1650), R}},
			edges:     []splice.Edge{{From: ex(1350, 1400), To: ex(1600, 1650)}},
			wantNodes: 6, wantEdges: 5,
		},
		{
			name: "two kept one collapsed",
			exons: []extraExon{
				{ex(990, 1010), L}, {ex(1300, 1400), R}, {ex(950, 1100), L}, {ex(1030, 1040), N},
			},
			edges: []splice.Edge{
				{From: ex(990, 1010), To: ex(1030, 1040)},
				{From: ex(950, 1100), To: ex(1300, 1400)},
				{From: ex(1030, 1040), To: ex(1300, 1400)},
			},
			wantNodes: 8, wantEdges: 7,
		},
		{
			name:  "no collapse inside last exon",
			exons: []extraExon{{ex(2510, 2520), L}, {ex(2530, 2600), R}, {ex(2700, 2800), L}},
			edges: []splice.Edge{
				{From: ex(2510, 2520), To: ex(2530, 2600)},
				{From: ex(2530, 2600), To: ex(2700, 2800)},
			},
			wantNodes: 9, wantEdges: 7,
		},
		{
			name:  "no collapse past last exon",
			exons: []extraExon{{ex(2400, 2450), L}, {ex(2500, 2600), R}, {ex(2700, 2800), L}},
			edges: []splice.Edge{
				{From: ex(2400, 2450), To: ex(2500, 2600)},
				{From: ex(2500, 2600), To: ex(2700, 2800)},
			},
			wantNodes: 8, wantEdges: 7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, roles := baseGraph()
			for _, e := range tt.exons {
				g.AddExon(e.key)
				roles[e.key] = e.role
			}
			for _, e := range tt.edges {
				g.AddEdge(e.From, e.To)
			}

			Collapse(g, roles, 100, nil)

			assert.Equal(t, tt.wantNodes, g.NodeCount())
			assert.Equal(t, tt.wantEdges, g.EdgeCount())
			if tt.want != nil {
				assert.Equal(t, tt.want, g.Edges())
			}
		})
	}
}

func TestCollapse_DoesNotModifyRoles(t *testing.T) {
	g, roles := baseGraph()
	roles[ex(700, 800)] = splice.TerminalLeft
	roles[ex(900, 1100)] = splice.TerminalRight
	g.AddEdge(ex(700, 800), ex(900, 1100))

	Collapse(g, roles, 100, nil)

	assert.False(t, g.HasExon(ex(1000, 1100)))
	assert.Equal(t, splice.TerminalRight, roles[ex(900, 1100)])
}

func TestCollapse_EndBoundary(t *testing.T) {
	build := func(d int) *splice.Graph {
		g := splice.NewGraph()
		x, y := ex(1000, 1200), ex(1000+d, 1200)
		w, z := ex(500, 600), ex(1300, 1400)
		g.AddEdge(x, z)
		g.AddEdge(w, y)
		g.AddEdge(y, z)
		roles := splice.RoleMap{x: splice.TerminalLeft, w: splice.TerminalLeft, z: splice.TerminalRight}
		Collapse(g, roles, 100, nil)
		return g
	}

	kept := build(100)
	assert.Equal(t, 4, kept.NodeCount())

	merged := build(99)
	assert.Equal(t, 3, merged.NodeCount())
	assert.False(t, merged.HasExon(ex(1000, 1200)))
	assert.True(t, merged.HasEdge(ex(1099, 1200), ex(1300, 1400)))
}

func TestCollapse_StartBoundary(t *testing.T) {
	build := func(d int) *splice.Graph {
		g := splice.NewGraph()
		a := ex(1000, 1100)
		c1, c2 := ex(1300, 1400), ex(1300, 1400+d)
		f := ex(1700, 1800)
		g.AddEdge(a, c1)
		g.AddEdge(c1, f)
		g.AddEdge(a, c2)
		roles := splice.RoleMap{a: splice.TerminalLeft, c2: splice.TerminalRight, f: splice.TerminalRight}
		Collapse(g, roles, 100, nil)
		return g
	}

	kept := build(100)
	assert.Equal(t, 4, kept.NodeCount())

	merged := build(99)
	assert.Equal(t, 3, merged.NodeCount())
	assert.False(t, merged.HasExon(ex(1300, 1499)))
	assert.True(t, merged.HasEdge(ex(1000, 1100), ex(1300, 1400)))
}

func TestCollapse_AbsorbsSingleExons(t *testing.T) {
	g, roles := baseGraph()
	idx, err := NewSingleExonIndex(map[string][]splice.ExonKey{
		"chr1": tx("chr1", 1020, 1080, 1950, 2100, 5000, 6000),
	})
	require.NoError(t, err)

	Collapse(g, roles, 100, idx)

	var removed []splice.ExonKey
	for _, s := range idx.Exons() {
		if s.Removed {
			removed = append(removed, s.Key)
		}
	}
	assert.Equal(t, tx("chr1", 1020, 1080), removed)
}

func TestCollapse_Empty(t *testing.T) {
	g := splice.NewGraph()
	Collapse(g, splice.RoleMap{}, 100, nil)
	assert.Zero(t, g.NodeCount())
}
