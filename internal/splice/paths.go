package splice

import "slices"

// MaximalPaths returns every path from a source exon (no predecessors) to
// a sink exon (no successors), in depth-first order with successors
// visited by coordinate. If limit > 0, enumeration stops once limit paths
// have been found.
func MaximalPaths(g *Graph, limit int) ([][]ExonKey, error) {
	if g.NodeCount() == 0 {
		return nil, nil
	}
	if err := g.checkAcyclic(); err != nil {
		return nil, err
	}
	a := g.anchored()

	type frame struct {
		node Node
		next []Node
		i    int
	}

	var (
		paths [][]ExonKey
		path  []ExonKey
	)
	stack := []frame{{node: startNode, next: sortedFrom(a, startID)}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.i == len(top.next) {
			if top.node.Kind == ExonNode {
				path = path[:len(path)-1]
			}
			stack = stack[:len(stack)-1]
			continue
		}
		n := top.next[top.i]
		top.i++

		if n.Kind == EndNode {
			paths = append(paths, slices.Clone(path))
			if limit > 0 && len(paths) >= limit {
				return paths, nil
			}
			continue
		}
		path = append(path, n.Exon)
		stack = append(stack, frame{node: n, next: sortedFrom(a, n.ID())})
	}
	return paths, nil
}

// comparePaths orders paths exon by exon, shorter first on a common prefix.
func comparePaths(a, b []ExonKey) int {
	return slices.CompareFunc(a, b, Compare)
}
