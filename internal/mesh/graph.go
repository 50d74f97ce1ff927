package mesh

import "strings"

// edgeWeightDivisor normalizes the sum of two mesh weights into [0, 1] for
// weights up to 100 each. Mesh weights can nudge past 100 under heavy
// commit and issue counts, so the bound is soft; the weight is intentionally
// not re-clamped.
const edgeWeightDivisor = 200.0

// ShouldConnect is the symmetric connection predicate for an unordered pair
// of repository names. Evaluated as an ordered rule list:
//
//  1. A control-plane connects to everything.
//  2. An enhanced repository connects to everything remaining.
//  3. Infrastructure connects unless either side is a simple prototype.
func ShouldConnect(a, b string) bool {
	switch {
	case strings.Contains(a, "control-plane") || strings.Contains(b, "control-plane"):
		return true
	case strings.Contains(a, "enhanced") || strings.Contains(b, "enhanced"):
		return true
	case strings.Contains(a, "infrastructure") || strings.Contains(b, "infrastructure"):
		return !strings.Contains(a, "simple") && !strings.Contains(b, "simple")
	default:
		return false
	}
}

// BuildGraph constructs the mesh topology over one scored set. Nodes are
// exactly the scored repositories — isolated nodes are kept. Edges are
// unordered pairs with no self-loops and no duplicates; enumeration is
// quadratic in the node count, which stays small (one account's
// repositories).
func BuildGraph(repos []*ScoredRepo) Graph {
	g := Graph{Nodes: make([]string, 0, len(repos))}
	for _, r := range repos {
		g.Nodes = append(g.Nodes, r.Name())
	}

	for i := 0; i < len(repos); i++ {
		for j := i + 1; j < len(repos); j++ {
			a, b := repos[i], repos[j]
			if !ShouldConnect(a.Name(), b.Name()) {
				continue
			}
			g.Edges = append(g.Edges, newEdge(a, b))
		}
	}
	return g
}

// newEdge canonicalizes the pair so (a, b) and (b, a) produce one edge form.
func newEdge(a, b *ScoredRepo) Edge {
	weight := (a.MeshWeight + b.MeshWeight) / edgeWeightDivisor
	if a.Name() > b.Name() {
		a, b = b, a
	}
	return Edge{A: a.Name(), B: b.Name(), Weight: weight}
}
