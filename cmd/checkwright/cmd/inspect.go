package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/checkwright/checkwright/internal/dataset"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show a dataset's variables, kinds, and detected groups",
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().String("data", "", "survey export file (.csv or .xlsx)")
	inspectCmd.MarkFlagRequired("data")
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dataPath, _ := cmd.Flags().GetString("data")

	ds, err := dataset.Load(dataPath, cfg.SystemColumns)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	logger.Debug("dataset loaded",
		zap.String("path", dataPath),
		zap.Int("variables", len(ds.Variables)),
		zap.Int("rows", ds.Rows))

	fmt.Printf("Dataset: %s (%d rows, %d variables)\n\n", dataPath, ds.Rows, len(ds.Variables))
	fmt.Println("Variables:")
	for _, v := range ds.Variables {
		fmt.Printf("  %-32s %s\n", v.Name, v.Kind)
	}
	if len(ds.Groups) > 0 {
		fmt.Println("\nGroups:")
		for _, g := range ds.Groups {
			fmt.Printf("  %-12s %s\n", g.Base, strings.Join(g.Variables, " "))
		}
	}
	return nil
}
