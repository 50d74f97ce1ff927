package mesh

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRules_MarkerMatching(t *testing.T) {
	rules := DefaultRules()
	assert.True(t, rules.HasMarker("ob1-agent-hub"))
	assert.True(t, rules.HasMarker("OB1-Agent-Hub"))
	assert.False(t, rules.HasMarker("plain-repo"))
}

func TestLoadRules_OverlayKeepsUnsetDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	body := `
marker: acme
flagship_source: acme-core
preferred_languages:
  - Go
  - Rust
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	rules, err := LoadRules(path)
	require.NoError(t, err)

	assert.Equal(t, "acme", rules.Marker)
	assert.Equal(t, "acme-core", rules.FlagshipSource)
	assert.Equal(t, []string{"Go", "Rust"}, rules.PreferredLanguages)

	// Untouched fields keep their defaults.
	assert.Equal(t, DefaultRules().DescriptionKeywords, rules.DescriptionKeywords)
	assert.Equal(t, DefaultRules().UsefulKeywords, rules.UsefulKeywords)
}

func TestLoadRules_MissingFile(t *testing.T) {
	_, err := LoadRules(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadRules_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("marker: [unterminated"), 0o644))
	_, err := LoadRules(path)
	assert.Error(t, err)
}
