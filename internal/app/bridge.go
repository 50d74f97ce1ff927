package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/protechtimenow/repomesh/internal/output"
)

var bridgeFlagLimit int

var bridgeCmd = &cobra.Command{
	Use:   "bridge",
	Short: "List ranked bridge recommendations",
	Long: `Bridge lists the capability-injection recommendations from the latest
snapshot, highest priority first.`,
	RunE: runBridge,
}

func init() {
	bridgeCmd.Flags().IntVar(&bridgeFlagLimit, "limit", 0, "Show at most N recommendations (0 = all)")
	rootCmd.AddCommand(bridgeCmd)
}

func runBridge(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	snapshot, err := loadSnapshot(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	recs := snapshot.Recommendations
	if bridgeFlagLimit > 0 && bridgeFlagLimit < len(recs) {
		recs = recs[:bridgeFlagLimit]
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(recs)
	}

	fmt.Println(output.Section("Bridge Recommendations"))
	fmt.Println()
	if len(recs) == 0 {
		fmt.Println(output.StyleMuted.Render(" No bridges recommended."))
		return nil
	}

	tbl := output.NewTable("#", "Source", "Target", "Priority", "Kind")
	for i, rec := range recs {
		tbl.AddRow(
			fmt.Sprintf("%d", i+1),
			rec.Source,
			rec.Target,
			fmt.Sprintf("%6.1f", rec.Priority),
			string(rec.Kind),
		)
	}
	tbl.Print()
	return nil
}
