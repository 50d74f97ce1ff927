package mesh

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// RuleSet holds every name, keyword, and threshold constant the classifiers
// and the recommendation engine match on. Defaults reflect the mesh this
// engine was built for; any field can be overridden from a YAML file so the
// engine ports to other accounts without a rebuild.
type RuleSet struct {
	// Marker is the organizational substring that tags a repository as part
	// of the ecosystem (tunnel potential ACTIVE, bridge priority bonus).
	Marker string `yaml:"marker"`

	// Exact-name membership sets, checked in this order by the tunnel
	// potential classifier.
	CommandCenter []string `yaml:"command_center"`
	Critical      []string `yaml:"critical"`
	Vital         []string `yaml:"vital"`

	// Strategic value scoring inputs.
	PreferredLanguages  []string `yaml:"preferred_languages"`
	DescriptionKeywords []string `yaml:"description_keywords"`

	// Bridge priority bonuses.
	FlagshipSource  string   `yaml:"flagship_source"`
	PriorityTargets []string `yaml:"priority_targets"`

	// Useful-file filter for executed recommendations.
	UsefulExtensions []string `yaml:"useful_extensions"`
	UsefulKeywords   []string `yaml:"useful_keywords"`
}

// DefaultRules returns the built-in rule constants.
func DefaultRules() RuleSet {
	return RuleSet{
		Marker:        "ob1",
		CommandCenter: []string{"ob1-control-plane"},
		Critical:      []string{"ob1-enhanced-capabilities", "blockchain-ai-infrastructure"},
		Vital:         []string{"ob1-simple-ai", "ob1-agent-hub"},

		PreferredLanguages:  []string{"Python", "JavaScript", "TypeScript"},
		DescriptionKeywords: []string{"ai", "blockchain", "agent", "ob1", "smart", "contract"},

		FlagshipSource:  "ob1-enhanced-capabilities",
		PriorityTargets: []string{"ob1-simple-ai", "ob1-agent-hub"},

		UsefulExtensions: []string{".py", ".js", ".ts", ".md", ".go"},
		UsefulKeywords:   []string{"util", "helper", "config", "ai", "agent"},
	}
}

// LoadRules reads a YAML rules file and overlays it on the defaults. Only
// fields present in the file replace their defaults.
func LoadRules(path string) (RuleSet, error) {
	rules := DefaultRules()
	data, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("reading rules file: %w", err)
	}
	var overlay RuleSet
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return rules, fmt.Errorf("parsing rules file %s: %w", path, err)
	}
	mergeRules(&rules, overlay)
	return rules, nil
}

func mergeRules(dst *RuleSet, src RuleSet) {
	if src.Marker != "" {
		dst.Marker = src.Marker
	}
	if src.CommandCenter != nil {
		dst.CommandCenter = src.CommandCenter
	}
	if src.Critical != nil {
		dst.Critical = src.Critical
	}
	if src.Vital != nil {
		dst.Vital = src.Vital
	}
	if src.PreferredLanguages != nil {
		dst.PreferredLanguages = src.PreferredLanguages
	}
	if src.DescriptionKeywords != nil {
		dst.DescriptionKeywords = src.DescriptionKeywords
	}
	if src.FlagshipSource != "" {
		dst.FlagshipSource = src.FlagshipSource
	}
	if src.PriorityTargets != nil {
		dst.PriorityTargets = src.PriorityTargets
	}
	if src.UsefulExtensions != nil {
		dst.UsefulExtensions = src.UsefulExtensions
	}
	if src.UsefulKeywords != nil {
		dst.UsefulKeywords = src.UsefulKeywords
	}
}

// HasMarker reports whether a repository name carries the ecosystem marker.
func (r RuleSet) HasMarker(name string) bool {
	return r.Marker != "" && strings.Contains(strings.ToLower(name), r.Marker)
}

func contains(set []string, name string) bool {
	for _, s := range set {
		if s == name {
			return true
		}
	}
	return false
}
