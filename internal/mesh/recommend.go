package mesh

import (
	"path/filepath"
	"sort"
	"strings"
)

// Partition thresholds and surfacing caps for bridge recommendations.
const (
	sourceValueThreshold = 60.0 // strategic value above this: capability donor
	targetValueThreshold = 40.0 // strategic value below this: enhancement target
	dormantValueCeiling  = 30.0 // dormant-logic detection
	dormantSizeFloor     = 100

	// TopDisplay and TopExecute bound how many recommendations are surfaced
	// and how many are handed to the action sink.
	TopDisplay = 5
	TopExecute = 3

	// MaxUsefulFiles caps the filename list attached to an executed
	// recommendation, which in turn bounds the issue body size.
	MaxUsefulFiles = 3
)

// Bridge priority bonuses. All conditions are independent and stack.
const (
	markerPairBonus     = 20.0 // both names carry the ecosystem marker
	flagshipSourceBonus = 15.0 // source is the flagship enhancement repository
	priorityTargetBonus = 10.0 // target is a distinguished priority target
)

// Recommend partitions the scored set into sources (value > 60) and targets
// (value < 40 with non-zero size), enumerates the full source x target cross
// product, and returns the candidates ordered by priority descending.
//
// source != target is guarded structurally rather than left to the threshold
// gap. Ties keep discovery order (sources then targets, each in input order)
// via a stable sort.
func Recommend(repos []*ScoredRepo, rules RuleSet) []Recommendation {
	var sources, targets []*ScoredRepo
	for _, r := range repos {
		if r.StrategicValue > sourceValueThreshold {
			sources = append(sources, r)
		}
		if r.StrategicValue < targetValueThreshold && r.Metrics.Size > 0 {
			targets = append(targets, r)
		}
	}

	var recs []Recommendation
	for _, src := range sources {
		for _, tgt := range targets {
			if src.Name() == tgt.Name() {
				continue
			}
			recs = append(recs, Recommendation{
				Source:   src.Name(),
				Target:   tgt.Name(),
				Kind:     KindCapabilityInjection,
				Priority: bridgePriority(src, tgt, rules),
			})
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority > recs[j].Priority
	})
	return recs
}

// bridgePriority scores one source/target pair: source strength plus the
// target's gap to 100, plus stacking ecosystem bonuses.
func bridgePriority(src, tgt *ScoredRepo, rules RuleSet) float64 {
	priority := src.StrategicValue + (strategicValueCap - tgt.StrategicValue)

	if rules.HasMarker(src.Name()) && rules.HasMarker(tgt.Name()) {
		priority += markerPairBonus
	}
	if src.Name() == rules.FlagshipSource {
		priority += flagshipSourceBonus
	}
	if contains(rules.PriorityTargets, tgt.Name()) {
		priority += priorityTargetBonus
	}
	return priority
}

// DormantLogic returns the names of repositories holding underutilized code:
// low strategic value but non-trivial size. Input order is preserved.
func DormantLogic(repos []*ScoredRepo) []string {
	var dormant []string
	for _, r := range repos {
		if r.StrategicValue < dormantValueCeiling && r.Metrics.Size > dormantSizeFloor {
			dormant = append(dormant, r.Name())
		}
	}
	return dormant
}

// UsefulFiles filters a repository's top-level listing down to entries worth
// suggesting for injection: extension in the allow-list AND a name containing
// one of the utility keywords. At most MaxUsefulFiles entries are returned,
// in listing order, so the issue body never references a file outside the
// collected set.
func UsefulFiles(listing []string, rules RuleSet) []string {
	var useful []string
	for _, name := range listing {
		if len(useful) == MaxUsefulFiles {
			break
		}
		if !contains(rules.UsefulExtensions, filepath.Ext(name)) {
			continue
		}
		lower := strings.ToLower(name)
		for _, kw := range rules.UsefulKeywords {
			if strings.Contains(lower, kw) {
				useful = append(useful, name)
				break
			}
		}
	}
	return useful
}
