package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show the audit trail of generation runs, newest first",
	RunE:  runRuns,
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.Flags().Int("limit", 20, "maximum runs to show")
}

func runRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")

	_, store, err := openLibrary(cfg.DBURL)
	if err != nil {
		return err
	}
	runs, err := store.ListRuns(context.Background(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}
	fmt.Printf("%-20s %-24s %-16s %5s %5s %5s  %s\n",
		"CREATED", "DATASET", "RULESET", "VARS", "RULES", "FLAGS", "SHA256")
	for _, r := range runs {
		name := r.RuleSetName
		if name == "" {
			name = "-"
		}
		fmt.Printf("%-20s %-24s %-16s %5d %5d %5d  %.12s\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.DatasetName, name,
			r.VariableCount, r.RuleCount, r.FlagCount,
			r.ScriptSHA256)
	}
	return nil
}
