package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyTunnelPotential_Precedence(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name string
		size int
		want TunnelPotential
	}{
		{"ob1-control-plane", 0, TunnelInfinite},
		{"ob1-enhanced-capabilities", 0, TunnelCritical},
		{"blockchain-ai-infrastructure", 5000, TunnelCritical}, // exact name beats size
		{"ob1-simple-ai", 0, TunnelVital},
		{"ob1-agent-hub", 0, TunnelVital},
		{"ob1-file-drop", 0, TunnelActive},   // marker substring
		{"ob1-file-drop", 9000, TunnelActive}, // marker beats size
		{"legacy-monolith", 1001, TunnelBridge},
		{"legacy-monolith", 1000, TunnelLow}, // strictly greater than 1000
		{"tiny-tool", 3, TunnelLow},
	}
	for _, tc := range tests {
		m := &RepoMetrics{Name: tc.name, Size: tc.size}
		assert.Equal(t, tc.want, ClassifyTunnelPotential(m, rules), tc.name)
	}
}

func TestClassifyRole_NameRulesBeatWeight(t *testing.T) {
	// A control-plane repository keeps its role regardless of weight.
	assert.Equal(t, RoleCommandCenter, ClassifyRole("x-control-plane-y", 10))
	assert.Equal(t, RoleCommandCenter, ClassifyRole("x-control-plane-y", 99))
}

func TestClassifyRole_Precedence(t *testing.T) {
	tests := []struct {
		name   string
		weight float64
		want   Role
	}{
		{"ob1-control-plane", 50, RoleCommandCenter},
		{"ob1-enhanced-capabilities", 50, RoleCoreEngine},
		{"blockchain-ai-infrastructure", 50, RoleFoundation},
		{"ob1-simple-ai", 50, RolePrototype},
		{"ob1-agent-hub", 50, RoleMemoryLayer},
		{"plain-repo", 59.9, RoleDormantNode},
		{"plain-repo", 60, RoleActiveNode},
		{"plain-repo", 95, RoleActiveNode},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ClassifyRole(tc.name, tc.weight), "%s@%v", tc.name, tc.weight)
	}
}

func TestClassifyEnhancementLevel_Bands(t *testing.T) {
	tests := []struct {
		weight float64
		want   EnhancementLevel
	}{
		{95, EnhanceInfinite},
		{90, EnhanceInfinite},
		{89.9, EnhanceCritical},
		{80, EnhanceCritical},
		{79, EnhanceVital},
		{70, EnhanceVital},
		{69, EnhanceNeural},
		{60, EnhanceNeural},
		{59.9, EnhanceDormant},
		{50, EnhanceDormant},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ClassifyEnhancementLevel(tc.weight), "weight %v", tc.weight)
	}
}

func TestClassifyRecursivePotential(t *testing.T) {
	// Name override wins even at the lowest weight.
	assert.Equal(t, RecursiveUnlimited, ClassifyRecursivePotential("ob1-control-plane", 50))

	assert.Equal(t, RecursiveHigh, ClassifyRecursivePotential("x", 80))
	assert.Equal(t, RecursiveMedium, ClassifyRecursivePotential("x", 79))
	assert.Equal(t, RecursiveMedium, ClassifyRecursivePotential("x", 60))
	assert.Equal(t, RecursiveActivating, ClassifyRecursivePotential("x", 59))
}
