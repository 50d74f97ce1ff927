package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func valued(name string, value float64, size int) *ScoredRepo {
	return &ScoredRepo{
		Metrics:        &RepoMetrics{Name: name, Size: size},
		StrategicValue: value,
	}
}

func TestRecommend_Partition(t *testing.T) {
	repos := []*ScoredRepo{
		valued("donor", 80, 500),
		valued("borderline-high", 60, 500), // not > 60: excluded from sources
		valued("needy", 20, 300),
		valued("borderline-low", 40, 300), // not < 40: excluded from targets
		valued("empty-shell", 10, 0),      // size 0: excluded from targets
	}
	recs := Recommend(repos, DefaultRules())
	require.Len(t, recs, 1)
	assert.Equal(t, "donor", recs[0].Source)
	assert.Equal(t, "needy", recs[0].Target)
	assert.Equal(t, KindCapabilityInjection, recs[0].Kind)
}

func TestRecommend_PriorityWorkedExample(t *testing.T) {
	// Source 80, target 20, no bonus rules: 80 + (100-20) = 160.
	repos := []*ScoredRepo{
		valued("donor", 80, 500),
		valued("needy", 20, 300),
	}
	recs := Recommend(repos, DefaultRules())
	require.Len(t, recs, 1)
	assert.Equal(t, 160.0, recs[0].Priority)
}

func TestRecommend_BonusesStack(t *testing.T) {
	rules := DefaultRules()
	repos := []*ScoredRepo{
		valued("ob1-enhanced-capabilities", 80, 500), // marker + flagship
		valued("ob1-agent-hub", 20, 300),             // marker + priority target
	}
	recs := Recommend(repos, rules)
	require.Len(t, recs, 1)
	// 80 + 80 + 20 (marker pair) + 15 (flagship) + 10 (priority target).
	assert.Equal(t, 205.0, recs[0].Priority)
}

func TestRecommend_SortedNonIncreasing(t *testing.T) {
	repos := []*ScoredRepo{
		valued("ob1-enhanced-capabilities", 90, 500),
		valued("plain-donor", 70, 500),
		valued("ob1-agent-hub", 10, 300),
		valued("needy", 35, 300),
		valued("other-needy", 5, 300),
	}
	recs := Recommend(repos, DefaultRules())
	require.NotEmpty(t, recs)
	for i := 1; i < len(recs); i++ {
		assert.GreaterOrEqual(t, recs[i-1].Priority, recs[i].Priority)
	}
	for _, r := range recs {
		assert.NotEqual(t, r.Source, r.Target)
	}
}

func TestRecommend_StableTieBreak(t *testing.T) {
	// Two targets with identical values produce equal priorities; discovery
	// order (input order) must hold.
	repos := []*ScoredRepo{
		valued("donor", 80, 500),
		valued("first-target", 20, 300),
		valued("second-target", 20, 300),
	}
	recs := Recommend(repos, DefaultRules())
	require.Len(t, recs, 2)
	assert.Equal(t, recs[0].Priority, recs[1].Priority)
	assert.Equal(t, "first-target", recs[0].Target)
	assert.Equal(t, "second-target", recs[1].Target)
}

func TestRecommend_EmptySet(t *testing.T) {
	assert.Empty(t, Recommend(nil, DefaultRules()))
	assert.Empty(t, Recommend([]*ScoredRepo{valued("mid", 50, 100)}, DefaultRules()))
}

func TestDormantLogic(t *testing.T) {
	repos := []*ScoredRepo{
		valued("dormant-big", 20, 500),
		valued("dormant-tiny", 20, 50), // size <= 100: skipped
		valued("active", 80, 500),
		valued("dormant-edge", 29.9, 101),
	}
	assert.Equal(t, []string{"dormant-big", "dormant-edge"}, DormantLogic(repos))
}

func TestUsefulFiles_FilterAndCap(t *testing.T) {
	rules := DefaultRules()
	listing := []string{
		"util_core.py",    // keep
		"README.md",       // extension ok, no keyword
		"agent_loop.ts",   // keep
		"helper.rb",       // keyword ok, extension not allowed
		"config.js",       // keep (cap reached)
		"ai_pipeline.py",  // beyond cap
		"agent_config.md", // beyond cap
	}
	files := UsefulFiles(listing, rules)
	assert.Equal(t, []string{"util_core.py", "agent_loop.ts", "config.js"}, files)
	assert.LessOrEqual(t, len(files), MaxUsefulFiles)
}

func TestUsefulFiles_Empty(t *testing.T) {
	assert.Empty(t, UsefulFiles(nil, DefaultRules()))
	assert.Empty(t, UsefulFiles([]string{"main.c", "Makefile"}, DefaultRules()))
}
