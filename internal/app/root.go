// Package app contains the Cobra command tree for meshctl.
package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/protechtimenow/repomesh/internal/output"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor  bool
	flagJSON     bool
	flagSnapshot string
)

var rootCmd = &cobra.Command{
	Use:   "meshctl",
	Short: "Inspect and drive the repository mesh engine",
	Long: `meshctl reads the mesh snapshot produced by the analysis engine and
renders scores, topology, and bridge recommendations. It can also run a full
analysis locally against the GitHub API.

Run 'meshctl' with no arguments for the command list.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("meshctl", appVersion)
		fmt.Println()
		fmt.Println("Use a subcommand:")
		fmt.Println("  status    Show the latest mesh snapshot summary")
		fmt.Println("  analyze   Show one repository's scores and labels")
		fmt.Println("  bridge    List ranked bridge recommendations")
		fmt.Println("  log       Show recent analysis runs")
		fmt.Println("  scan      Run a full mesh analysis now")
		return nil
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagNoColor {
			output.SetNoColor(true)
		} else {
			output.AutoDetect()
		}
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagSnapshot, "snapshot", "", "Snapshot file path (default: $SNAPSHOT_PATH or mesh_map.json)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
}
