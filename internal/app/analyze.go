package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/protechtimenow/repomesh/internal/output"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <repository>",
	Short: "Show one repository's scores and labels",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	snapshot, err := loadSnapshot(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	name := args[0]
	repo, ok := snapshot.Repo(name)
	if !ok {
		return fmt.Errorf("repository %q is not in the mesh", name)
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(repo)
	}

	fmt.Println(output.Section("Analysis: " + name))
	fmt.Println()
	fmt.Printf(" %s  %s\n", output.StyleBold.Render("Strategic value:"),
		output.ScoreStyle(repo.StrategicValue).Render(fmt.Sprintf("%.1f/100", repo.StrategicValue)))
	fmt.Printf(" %s  %.1f\n", output.StyleBold.Render("Mesh weight:"), repo.MeshWeight)
	fmt.Printf(" %s  %s\n", output.StyleBold.Render("Tunnel potential:"), repo.TunnelPotential)
	fmt.Printf(" %s  %s\n", output.StyleBold.Render("Role:"), repo.Role)
	fmt.Printf(" %s  %s\n", output.StyleBold.Render("Enhancement level:"), repo.EnhancementLevel)
	fmt.Printf(" %s  %s\n", output.StyleBold.Render("Recursive potential:"), repo.RecursivePotential)

	m := repo.Metrics
	fmt.Println()
	fmt.Printf(" %s  %d commits, %d issues, size %d\n",
		output.StyleBold.Render("Metrics:"), m.CommitCount, m.IssueCount, m.Size)
	if m.PrimaryLanguage != "" {
		fmt.Printf(" %s  %s\n", output.StyleBold.Render("Language:"), m.PrimaryLanguage)
	}
	if m.Description != nil && *m.Description != "" {
		fmt.Printf(" %s  %s\n", output.StyleBold.Render("Description:"), *m.Description)
	}

	// Show this node's edges.
	var edges []string
	for _, e := range snapshot.Graph.Edges {
		switch name {
		case e.A:
			edges = append(edges, fmt.Sprintf("%s (%.2f)", e.B, e.Weight))
		case e.B:
			edges = append(edges, fmt.Sprintf("%s (%.2f)", e.A, e.Weight))
		}
	}
	fmt.Println()
	if len(edges) == 0 {
		fmt.Println(output.StyleMuted.Render(" No mesh connections."))
		return nil
	}
	fmt.Println(output.Section("Connections"))
	for _, e := range edges {
		fmt.Println("  -", e)
	}
	return nil
}
