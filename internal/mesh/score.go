package mesh

import (
	"strings"
	"time"
)

// Strategic value constants. Each input dimension contributes independently
// and saturates, so no single dimension can dominate the score.
const (
	recentCommitWindow = 7 * 24 * time.Hour
	recentCommitPoints = 10.0
	sizeDivisor        = 100.0
	sizePointsCap      = 50.0
	languagePoints     = 20.0
	keywordPoints      = 15.0
	strategicValueCap  = 100.0
)

// Mesh weight constants.
const (
	weightBase        = 50.0
	commitWeightScale = 2.0
	commitWeightCap   = 30.0
	issueWeightScale  = 1.5
	issueWeightCap    = 20.0
)

// StrategicValue computes the value score in [0, 100]: how useful this
// repository is as a capability donor. now is explicit so the recency term is
// deterministic under test. All contributions are non-negative, so only the
// upper clamp is needed.
func StrategicValue(m *RepoMetrics, rules RuleSet, now time.Time) float64 {
	score := 0.0

	// Recent activity: 10 points per commit in the last 7 days.
	for _, ts := range m.RecentCommits {
		if age := now.Sub(ts); age >= 0 && age <= recentCommitWindow {
			score += recentCommitPoints
		}
	}

	// Size, saturating at 50 points (size >= 5000).
	sizePts := float64(m.Size) / sizeDivisor
	if sizePts > sizePointsCap {
		sizePts = sizePointsCap
	}
	score += sizePts

	// Flat bonus for a preferred implementation language.
	if contains(rules.PreferredLanguages, m.PrimaryLanguage) && m.PrimaryLanguage != "" {
		score += languagePoints
	}

	// One hit per keyword found case-insensitively in the description.
	// Distinct keywords stack; a keyword never counts twice.
	if desc := strings.ToLower(m.DescriptionText()); desc != "" {
		for _, kw := range rules.DescriptionKeywords {
			if strings.Contains(desc, strings.ToLower(kw)) {
				score += keywordPoints
			}
		}
	}

	if score > strategicValueCap {
		score = strategicValueCap
	}
	return score
}

// MeshWeight computes the topology weight: base 50 plus saturating
// commit and issue terms. The floor is 50; the practical ceiling is 100,
// which callers treat as a soft bound — the result is deliberately not
// clamped from above.
func MeshWeight(commitCount, issueCount int) float64 {
	commitWeight := float64(commitCount) * commitWeightScale
	if commitWeight > commitWeightCap {
		commitWeight = commitWeightCap
	}
	issueWeight := float64(issueCount) * issueWeightScale
	if issueWeight > issueWeightCap {
		issueWeight = issueWeightCap
	}
	return weightBase + commitWeight + issueWeight
}

// Score runs both scoring passes and every classifier over one record and
// returns the immutable scored repository.
func Score(m *RepoMetrics, rules RuleSet, now time.Time) *ScoredRepo {
	weight := MeshWeight(m.CommitCount, m.IssueCount)
	return &ScoredRepo{
		Metrics:            m,
		StrategicValue:     StrategicValue(m, rules, now),
		MeshWeight:         weight,
		TunnelPotential:    ClassifyTunnelPotential(m, rules),
		Role:               ClassifyRole(m.Name, weight),
		EnhancementLevel:   ClassifyEnhancementLevel(weight),
		RecursivePotential: ClassifyRecursivePotential(m.Name, weight),
	}
}

// ScoreAll scores a batch of metrics records in input order.
func ScoreAll(metrics []RepoMetrics, rules RuleSet, now time.Time) []*ScoredRepo {
	scored := make([]*ScoredRepo, 0, len(metrics))
	for i := range metrics {
		scored = append(scored, Score(&metrics[i], rules, now))
	}
	return scored
}
