// Package mesh contains the scoring, classification, graph, and
// recommendation logic of the repository mesh engine. Everything in this
// package is pure computation over in-memory metrics: no I/O, no clocks
// (time is always an explicit parameter), no shared state.
package mesh

import "time"

// RepoMetrics is the normalized per-repository metrics snapshot supplied by a
// RepositorySource. Name is the unique key within one mesh snapshot.
type RepoMetrics struct {
	Name            string     `json:"name"`
	Description     *string    `json:"description,omitempty"`
	Size            int        `json:"size"`
	PrimaryLanguage string     `json:"language,omitempty"`
	IssueCount      int        `json:"issues"`
	Stars           int        `json:"stars,omitempty"`
	Forks           int        `json:"forks,omitempty"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`

	// RecentCommits holds commit timestamps, most-recent-first. The source
	// bounds the length (10 for the activity window, up to 100 for topology
	// weighting).
	RecentCommits []time.Time `json:"recent_commits,omitempty"`

	// CommitCount is the number of commits the source observed, which may
	// exceed len(RecentCommits) when the source truncates the timestamp list.
	CommitCount int `json:"commits"`
}

// DescriptionText returns the description or "" when absent.
func (m *RepoMetrics) DescriptionText() string {
	if m.Description == nil {
		return ""
	}
	return *m.Description
}

// TunnelPotential classifies a repository's cross-mesh integration priority.
type TunnelPotential string

const (
	TunnelInfinite TunnelPotential = "INFINITE"
	TunnelCritical TunnelPotential = "CRITICAL"
	TunnelVital    TunnelPotential = "VITAL"
	TunnelActive   TunnelPotential = "ACTIVE"
	TunnelBridge   TunnelPotential = "BRIDGE"
	TunnelLow      TunnelPotential = "LOW"
)

// Role is a repository's topology role in the mesh.
type Role string

const (
	RoleCommandCenter Role = "Command Center"
	RoleCoreEngine    Role = "Core Engine"
	RoleFoundation    Role = "Foundation Layer"
	RolePrototype     Role = "Rapid Prototype"
	RoleMemoryLayer   Role = "Memory Layer"
	RoleDormantNode   Role = "Dormant Node"
	RoleActiveNode    Role = "Active Node"
)

// EnhancementLevel is the weight band a repository falls into.
type EnhancementLevel string

const (
	EnhanceInfinite EnhancementLevel = "INFINITE"
	EnhanceCritical EnhancementLevel = "CRITICAL"
	EnhanceVital    EnhancementLevel = "VITAL"
	EnhanceNeural   EnhancementLevel = "NEURAL"
	EnhanceDormant  EnhancementLevel = "DORMANT"
)

// RecursivePotential rates a repository's self-improvement headroom.
type RecursivePotential string

const (
	RecursiveUnlimited  RecursivePotential = "UNLIMITED"
	RecursiveHigh       RecursivePotential = "HIGH"
	RecursiveMedium     RecursivePotential = "MEDIUM"
	RecursiveActivating RecursivePotential = "ACTIVATING"
)

// ScoredRepo is one repository after scoring and classification. It
// references the source metrics and is never mutated after creation.
type ScoredRepo struct {
	Metrics *RepoMetrics `json:"metrics"`

	// StrategicValue is the value score in [0, 100]: usefulness as a
	// capability donor.
	StrategicValue float64 `json:"strategic_value"`

	// MeshWeight is the topology weight (>= 50): centrality in the mesh. The
	// two scores have different bounds and units and are not interchangeable.
	MeshWeight float64 `json:"mesh_weight"`

	TunnelPotential    TunnelPotential    `json:"tunnel_potential"`
	Role               Role               `json:"role"`
	EnhancementLevel   EnhancementLevel   `json:"enhancement_level"`
	RecursivePotential RecursivePotential `json:"recursive_potential"`
}

// Name returns the stable repository key.
func (r *ScoredRepo) Name() string { return r.Metrics.Name }

// Edge is an undirected weighted connection between two mesh nodes.
// A < B lexicographically so each unordered pair has one canonical form.
type Edge struct {
	A      string  `json:"a"`
	B      string  `json:"b"`
	Weight float64 `json:"weight"`
}

// Graph is the mesh topology over one scored set. It is rebuilt from scratch
// on every analysis run.
type Graph struct {
	Nodes []string `json:"nodes"`
	Edges []Edge   `json:"edges"`
}

// ActionKind tags the kind of action a recommendation proposes.
type ActionKind string

// KindCapabilityInjection is the only recommendation kind the engine emits:
// transfer capability from a high-value source to a low-value target.
const KindCapabilityInjection ActionKind = "CAPABILITY_INJECTION"

// Recommendation is a ranked bridge suggestion. Priority orders the list and
// carries no meaning beyond rank. UsefulFiles is populated only for
// recommendations selected for execution, and holds at most three entries.
type Recommendation struct {
	Source      string     `json:"source"`
	Target      string     `json:"target"`
	Kind        ActionKind `json:"kind"`
	Priority    float64    `json:"priority"`
	UsefulFiles []string   `json:"useful_files,omitempty"`
}

// Summary aggregates one scored set for reporting. Recomputed fully on every
// run.
type Summary struct {
	TotalNodes               int     `json:"total_nodes"`
	ActiveNodes              int     `json:"active_nodes"`              // mesh weight >= 70
	DormantNodes             int     `json:"dormant_nodes"`             // mesh weight < 60
	HighValueNodes           int     `json:"high_value_nodes"`          // strategic value > 60
	BridgePotential          int     `json:"bridge_potential"`          // tunnel potential CRITICAL or VITAL
	EnhancementOpportunities int     `json:"enhancement_opportunities"` // mesh weight < 80
	TotalMeshWeight          float64 `json:"total_mesh_weight"`
	SkippedRepositories      int     `json:"skipped_repositories"`
}

// SnapshotStatus is the fixed status tag written into every snapshot.
const SnapshotStatus = "MESH_ACTIVE"

// Snapshot is the full output of one analysis run: immutable once built,
// written whole to the store, and fully replaced by the next run.
type Snapshot struct {
	Timestamp       time.Time              `json:"timestamp"`
	Status          string                 `json:"status"`
	Repositories    map[string]*ScoredRepo `json:"repositories"`
	Graph           Graph                  `json:"graph"`
	Recommendations []Recommendation       `json:"recommendations"`
	Summary         Summary                `json:"summary"`
}

// Repo looks up a scored repository by name.
func (s *Snapshot) Repo(name string) (*ScoredRepo, bool) {
	r, ok := s.Repositories[name]
	return r, ok
}
