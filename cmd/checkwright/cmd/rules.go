package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/checkwright/checkwright/internal/manifest"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage stored rule sets",
}

var rulesSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save a rule manifest under a name",
	RunE:  runRulesSave,
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored rule sets",
	RunE:  runRulesList,
}

var rulesShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Show a stored rule set as manifest YAML",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesShow,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesSaveCmd, rulesListCmd, rulesShowCmd)

	rulesSaveCmd.Flags().String("name", "", "rule set name")
	rulesSaveCmd.Flags().String("rules", "", "rule manifest file (YAML)")
	rulesSaveCmd.Flags().String("description", "", "free-form description")
	rulesSaveCmd.MarkFlagRequired("name")
	rulesSaveCmd.MarkFlagRequired("rules")
}

func runRulesSave(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	name, _ := cmd.Flags().GetString("name")
	rulesPath, _ := cmd.Flags().GetString("rules")
	description, _ := cmd.Flags().GetString("description")

	data, err := os.ReadFile(rulesPath)
	if err != nil {
		return fmt.Errorf("failed to read manifest: %w", err)
	}
	m, err := manifest.Parse(data)
	if err != nil {
		return err
	}

	_, store, err := openLibrary(cfg.DBURL)
	if err != nil {
		return err
	}
	id, err := store.SaveRuleSet(context.Background(), name, description, m.Rules)
	if err != nil {
		return err
	}
	logger.Info("rule set saved",
		zap.String("name", name),
		zap.String("ruleset_id", string(id)),
		zap.Int("rules", len(m.Rules)))
	fmt.Printf("Saved rule set %q (%d rules) as %s\n", name, len(m.Rules), id)
	return nil
}

func runRulesList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	_, store, err := openLibrary(cfg.DBURL)
	if err != nil {
		return err
	}
	infos, err := store.ListRuleSets(context.Background())
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Println("No rule sets stored.")
		return nil
	}
	fmt.Printf("%-20s %-6s %-20s %s\n", "NAME", "RULES", "CREATED", "DESCRIPTION")
	for _, info := range infos {
		fmt.Printf("%-20s %-6d %-20s %s\n",
			info.Name, info.RuleCount,
			info.CreatedAt.Format("2006-01-02 15:04:05"),
			info.Description)
	}
	return nil
}

func runRulesShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	_, store, err := openLibrary(cfg.DBURL)
	if err != nil {
		return err
	}
	rs, err := store.GetRuleSet(context.Background(), args[0])
	if err != nil {
		return err
	}
	out, err := manifest.Render("", rs.Entries)
	if err != nil {
		return fmt.Errorf("failed to render manifest: %w", err)
	}
	fmt.Printf("# %s (%s), saved %s\n", rs.Name, rs.ID, rs.CreatedAt.Format("2006-01-02 15:04:05"))
	if rs.Description != "" {
		fmt.Printf("# %s\n", rs.Description)
	}
	fmt.Print(string(out))
	return nil
}
