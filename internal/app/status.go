package app

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/protechtimenow/repomesh/internal/mesh"
	"github.com/protechtimenow/repomesh/internal/output"
)

var statusFlagSort string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the latest mesh snapshot summary",
	Long: `Status reads the snapshot written by the last analysis run and renders
the mesh summary plus a per-repository score table.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusFlagSort, "sort", "value", "Sort by: value, weight, name")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	snapshot, err := loadSnapshot(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snapshot)
	}

	renderSummary(snapshot)
	renderRepoTable(snapshot, statusFlagSort)
	return nil
}

func renderSummary(snapshot *mesh.Snapshot) {
	s := snapshot.Summary
	fmt.Println(output.Section("Mesh Status"))
	fmt.Println()
	fmt.Printf(" %s  %s\n", output.StyleBold.Render("Status:"), snapshot.Status)
	fmt.Printf(" %s  %s\n", output.StyleBold.Render("As of:"), snapshot.Timestamp.Format("2006-01-02 15:04 MST"))
	fmt.Printf(" %s  %d total, %d active, %d dormant, %d skipped\n",
		output.StyleBold.Render("Nodes:"),
		s.TotalNodes, s.ActiveNodes, s.DormantNodes, s.SkippedRepositories)
	fmt.Printf(" %s  %.1f\n", output.StyleBold.Render("Total weight:"), s.TotalMeshWeight)
	fmt.Printf(" %s  %d high-value, %d bridge-capable, %d enhancement opportunities\n",
		output.StyleBold.Render("Targets:"),
		s.HighValueNodes, s.BridgePotential, s.EnhancementOpportunities)
	fmt.Println()
}

func renderRepoTable(snapshot *mesh.Snapshot, sortBy string) {
	repos := make([]*mesh.ScoredRepo, 0, len(snapshot.Repositories))
	for _, r := range snapshot.Repositories {
		repos = append(repos, r)
	}
	sort.SliceStable(repos, func(i, j int) bool {
		switch sortBy {
		case "name":
			return repos[i].Name() < repos[j].Name()
		case "weight":
			return repos[i].MeshWeight > repos[j].MeshWeight
		default: // "value"
			return repos[i].StrategicValue > repos[j].StrategicValue
		}
	})

	tbl := output.NewTable("Repository", "Value", "Weight", "Tunnel", "Role")
	for _, r := range repos {
		tbl.AddRow(
			r.Name(),
			output.ScoreStyle(r.StrategicValue).Render(fmt.Sprintf("%5.1f", r.StrategicValue)),
			fmt.Sprintf("%5.1f", r.MeshWeight),
			string(r.TunnelPotential),
			string(r.Role),
		)
	}
	tbl.Print()
}
