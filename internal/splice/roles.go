package splice

// Roles reports the terminal role of exons.
type Roles interface {
	Terminal(k ExonKey) Terminal
}

// RoleMap is a Roles backed by a map. Missing exons are TerminalNone.
type RoleMap map[ExonKey]Terminal

// Terminal implements Roles.
func (m RoleMap) Terminal(k ExonKey) Terminal {
	return m[k]
}

// TopologyRoles derives terminal roles from the shape of g: an exon with
// successors but no predecessors is left-terminal, one with predecessors
// but no successors is right-terminal, and everything else is neither.
func TopologyRoles(g *Graph) RoleMap {
	roles := make(RoleMap)
	for _, k := range g.Exons() {
		id := g.ids[k]
		hasPred := g.g.To(id).Len() > 0
		hasSucc := g.g.From(id).Len() > 0
		switch {
		case hasSucc && !hasPred:
			roles[k] = TerminalLeft
		case hasPred && !hasSucc:
			roles[k] = TerminalRight
		}
	}
	return roles
}
