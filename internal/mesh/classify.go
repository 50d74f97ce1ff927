package mesh

import "strings"

// Every classifier in this file is an ordered rule list: the first matching
// rule wins, so rule order is load-bearing. All of them are pure, total
// functions of (name, score) — same inputs, same label, no hidden state.

const largeRepoSize = 1000

// tunnelRule pairs a predicate with the label it assigns.
type tunnelRule struct {
	match func(m *RepoMetrics, rules RuleSet) bool
	label TunnelPotential
}

var tunnelRules = []tunnelRule{
	{func(m *RepoMetrics, r RuleSet) bool { return contains(r.CommandCenter, m.Name) }, TunnelInfinite},
	{func(m *RepoMetrics, r RuleSet) bool { return contains(r.Critical, m.Name) }, TunnelCritical},
	{func(m *RepoMetrics, r RuleSet) bool { return contains(r.Vital, m.Name) }, TunnelVital},
	{func(m *RepoMetrics, r RuleSet) bool { return r.HasMarker(m.Name) }, TunnelActive},
	{func(m *RepoMetrics, r RuleSet) bool { return m.Size > largeRepoSize }, TunnelBridge},
}

// ClassifyTunnelPotential assigns the cross-mesh integration priority.
// Exact-name sets outrank the marker substring, which outranks raw size.
func ClassifyTunnelPotential(m *RepoMetrics, rules RuleSet) TunnelPotential {
	for _, rule := range tunnelRules {
		if rule.match(m, rules) {
			return rule.label
		}
	}
	return TunnelLow
}

// roleRule pairs a predicate on (name, weight) with a topology role.
type roleRule struct {
	match func(name string, weight float64) bool
	label Role
}

func nameHas(substr string) func(string, float64) bool {
	return func(name string, _ float64) bool { return strings.Contains(name, substr) }
}

var roleRules = []roleRule{
	{nameHas("control-plane"), RoleCommandCenter},
	{nameHas("enhanced"), RoleCoreEngine},
	{nameHas("infrastructure"), RoleFoundation},
	{nameHas("simple"), RolePrototype},
	{nameHas("hub"), RoleMemoryLayer},
	{func(_ string, weight float64) bool { return weight < 60 }, RoleDormantNode},
}

// ClassifyRole assigns the topology role. Name substrings outrank the weight
// threshold: a light repository named "x-control-plane-y" is still the
// command center.
func ClassifyRole(name string, weight float64) Role {
	for _, rule := range roleRules {
		if rule.match(name, weight) {
			return rule.label
		}
	}
	return RoleActiveNode
}

// ClassifyEnhancementLevel maps a mesh weight onto five ordered,
// non-overlapping bands, highest first.
func ClassifyEnhancementLevel(weight float64) EnhancementLevel {
	switch {
	case weight >= 90:
		return EnhanceInfinite
	case weight >= 80:
		return EnhanceCritical
	case weight >= 70:
		return EnhanceVital
	case weight >= 60:
		return EnhanceNeural
	default:
		return EnhanceDormant
	}
}

// ClassifyRecursivePotential rates self-improvement headroom. The
// control-plane name override outranks every weight band.
func ClassifyRecursivePotential(name string, weight float64) RecursivePotential {
	switch {
	case strings.Contains(name, "control-plane"):
		return RecursiveUnlimited
	case weight >= 80:
		return RecursiveHigh
	case weight >= 60:
		return RecursiveMedium
	default:
		return RecursiveActivating
	}
}
