package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	repos := []*ScoredRepo{
		{Metrics: &RepoMetrics{Name: "a"}, MeshWeight: 95, StrategicValue: 80, TunnelPotential: TunnelCritical},
		{Metrics: &RepoMetrics{Name: "b"}, MeshWeight: 72, StrategicValue: 65, TunnelPotential: TunnelVital},
		{Metrics: &RepoMetrics{Name: "c"}, MeshWeight: 55, StrategicValue: 20, TunnelPotential: TunnelLow},
		{Metrics: &RepoMetrics{Name: "d"}, MeshWeight: 62, StrategicValue: 40, TunnelPotential: TunnelActive},
	}
	s := Summarize(repos, 2)

	assert.Equal(t, 4, s.TotalNodes)
	assert.Equal(t, 2, s.ActiveNodes)               // 95, 72
	assert.Equal(t, 1, s.DormantNodes)              // 55
	assert.Equal(t, 2, s.EnhancementOpportunities)  // 55, 62
	assert.Equal(t, 2, s.HighValueNodes)            // 80, 65
	assert.Equal(t, 2, s.BridgePotential)           // CRITICAL + VITAL
	assert.Equal(t, 284.0, s.TotalMeshWeight)
	assert.Equal(t, 2, s.SkippedRepositories)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, 0)
	assert.Equal(t, 0, s.TotalNodes)
	assert.Equal(t, 0.0, s.TotalMeshWeight)
}
