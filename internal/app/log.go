package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/protechtimenow/repomesh/internal/output"
	"github.com/protechtimenow/repomesh/internal/store"
)

var logFlagCount int

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show recent analysis runs",
	Long: `Log reads the run history database and lists recent analysis runs
with their headline numbers.`,
	RunE: runLog,
}

func init() {
	logCmd.Flags().IntVar(&logFlagCount, "count", 10, "Number of runs to show")
	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	history, err := store.NewHistory(cfg.HistoryPath, zerolog.Nop())
	if err != nil {
		return fmt.Errorf("opening run history: %w", err)
	}
	defer history.Close()

	runs, err := history.RecentRuns(cmd.Context(), logFlagCount)
	if err != nil {
		return fmt.Errorf("reading run history: %w", err)
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	fmt.Println(output.Section("Run History"))
	fmt.Println()
	if len(runs) == 0 {
		fmt.Println(output.StyleMuted.Render(" No runs recorded yet."))
		return nil
	}

	tbl := output.NewTable("When", "Nodes", "Skipped", "Weight", "Bridges")
	for _, run := range runs {
		tbl.AddRow(
			run.Timestamp.Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", run.TotalNodes),
			fmt.Sprintf("%d", run.Skipped),
			fmt.Sprintf("%.1f", run.TotalMeshWeight),
			fmt.Sprintf("%d", len(run.Recommendations)),
		)
	}
	tbl.Print()
	return nil
}
