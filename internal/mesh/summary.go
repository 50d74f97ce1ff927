package mesh

// Summary thresholds over mesh weight and strategic value.
const (
	activeWeightFloor     = 70.0
	dormantWeightCeiling  = 60.0
	opportunityWeightCap  = 80.0
	highValueScoreFloor   = 60.0
)

// Summarize aggregates one scored set. skipped is the number of repositories
// whose metrics could not be fetched this run.
func Summarize(repos []*ScoredRepo, skipped int) Summary {
	s := Summary{
		TotalNodes:          len(repos),
		SkippedRepositories: skipped,
	}
	for _, r := range repos {
		s.TotalMeshWeight += r.MeshWeight
		if r.MeshWeight >= activeWeightFloor {
			s.ActiveNodes++
		}
		if r.MeshWeight < dormantWeightCeiling {
			s.DormantNodes++
		}
		if r.MeshWeight < opportunityWeightCap {
			s.EnhancementOpportunities++
		}
		if r.StrategicValue > highValueScoreFloor {
			s.HighValueNodes++
		}
		if r.TunnelPotential == TunnelCritical || r.TunnelPotential == TunnelVital {
			s.BridgePotential++
		}
	}
	return s
}
