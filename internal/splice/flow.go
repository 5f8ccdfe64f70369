package splice

// network is a residual flow network with unit-free integer capacities.
// Edges are stored in pairs: edge e and its reverse e^1.
type network struct {
	adj [][]int
	to  []int
	cap []int
}

func newNetwork(n int) *network {
	return &network{adj: make([][]int, n)}
}

// addEdge adds u->v with capacity c and returns the forward edge index.
func (n *network) addEdge(u, v, c int) int {
	e := len(n.to)
	n.adj[u] = append(n.adj[u], e)
	n.to = append(n.to, v)
	n.cap = append(n.cap, c)
	n.adj[v] = append(n.adj[v], e+1)
	n.to = append(n.to, u)
	n.cap = append(n.cap, 0)
	return e
}

// maxFlow pushes flow from s to t along breadth-first augmenting paths
// and returns the total flow. Adjacency order is insertion order, so the
// resulting flow assignment is deterministic.
func (n *network) maxFlow(s, t int) int {
	total := 0
	prev := make([]int, len(n.adj))
	seen := make([]bool, len(n.adj))
	for {
		for i := range prev {
			prev[i] = -1
			seen[i] = false
		}
		seen[s] = true
		queue := []int{s}
		for len(queue) > 0 && !seen[t] {
			u := queue[0]
			queue = queue[1:]
			for _, e := range n.adj[u] {
				v := n.to[e]
				if n.cap[e] > 0 && !seen[v] {
					seen[v] = true
					prev[v] = e
					queue = append(queue, v)
				}
			}
		}
		if !seen[t] {
			return total
		}

		aug := -1
		for v := t; v != s; v = n.to[prev[v]^1] {
			if c := n.cap[prev[v]]; aug < 0 || c < aug {
				aug = c
			}
		}
		for v := t; v != s; v = n.to[prev[v]^1] {
			e := prev[v]
			n.cap[e] -= aug
			n.cap[e^1] += aug
		}
		total += aug
	}
}

// matching computes a maximum bipartite matching over the given edges,
// where each exon may be used at most once as a source and once as a
// target. It returns the matched edges.
func matching(edges []Edge) []Edge {
	if len(edges) == 0 {
		return nil
	}
	index := make(map[ExonKey]int)
	var keys []ExonKey
	for _, e := range edges {
		for _, k := range [2]ExonKey{e.From, e.To} {
			if _, ok := index[k]; !ok {
				index[k] = len(keys)
				keys = append(keys, k)
			}
		}
	}

	// Node layout: source, left copies, right copies, sink.
	n := len(keys)
	s, t := 0, 2*n+1
	left := func(i int) int { return 1 + i }
	right := func(i int) int { return 1 + n + i }

	net := newNetwork(2*n + 2)
	for i := range keys {
		net.addEdge(s, left(i), 1)
		net.addEdge(right(i), t, 1)
	}
	middle := make([]int, len(edges))
	for i, e := range edges {
		middle[i] = net.addEdge(left(index[e.From]), right(index[e.To]), 1)
	}
	if net.maxFlow(s, t) == 0 {
		return nil
	}

	var matched []Edge
	for i, e := range edges {
		if net.cap[middle[i]] == 0 {
			matched = append(matched, e)
		}
	}
	return matched
}
