package cmd

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/checkwright/checkwright/internal/assemble"
	"github.com/checkwright/checkwright/internal/dataset"
	"github.com/checkwright/checkwright/internal/library"
	"github.com/checkwright/checkwright/internal/manifest"
	"github.com/checkwright/checkwright/internal/rules"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Compile rules against a dataset and emit the validation script",
	RunE:  runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().String("data", "", "survey export file (.csv or .xlsx)")
	generateCmd.Flags().String("rules", "", "rule manifest file (YAML)")
	generateCmd.Flags().String("ruleset", "", "stored rule set name")
	generateCmd.Flags().StringP("output", "o", "", "output script path (stdout when empty)")
	generateCmd.Flags().String("flag-prefix", "", "error flag prefix override")
	generateCmd.MarkFlagRequired("data")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dataPath, _ := cmd.Flags().GetString("data")
	rulesPath, _ := cmd.Flags().GetString("rules")
	ruleSetName, _ := cmd.Flags().GetString("ruleset")
	outputPath, _ := cmd.Flags().GetString("output")
	prefixFlag, _ := cmd.Flags().GetString("flag-prefix")

	if (rulesPath == "") == (ruleSetName == "") {
		return fmt.Errorf("exactly one of --rules and --ruleset is required")
	}

	ds, err := dataset.Load(dataPath, cfg.SystemColumns)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	logger.Info("dataset loaded",
		zap.String("path", dataPath),
		zap.Int("rows", ds.Rows),
		zap.Int("variables", len(ds.Variables)),
		zap.Int("groups", len(ds.Groups)))

	m, store, err := resolveManifest(ctx, cfg.DBURL, rulesPath, ruleSetName)
	if err != nil {
		return err
	}

	// Flag-prefix precedence: CLI flag > manifest > config.
	prefix := cfg.FlagPrefix
	if m.FlagPrefix != "" {
		prefix = m.FlagPrefix
	}
	if prefixFlag != "" {
		prefix = prefixFlag
	}

	ruleList, err := m.Build(ds.Groups)
	if err != nil {
		return fmt.Errorf("invalid rule declarations:\n%w", err)
	}

	// Any rule failure aborts before output: a script that silently omits a
	// check looks complete and is worse than no script.
	blocks, err := rules.Compile(ds.Variables, ruleList, rules.Options{FlagPrefix: prefix})
	if err != nil {
		return fmt.Errorf("rule compilation failed:\n%w", err)
	}

	script := assemble.Assemble(blocks)

	flagCount := 0
	for _, b := range blocks {
		flagCount += len(b.Flags)
	}
	logger.Info("script assembled",
		zap.Int("rules", len(ruleList)),
		zap.Int("flags", flagCount),
		zap.Int("bytes", len(script)))

	if outputPath == "" {
		fmt.Print(script)
	} else {
		if err := os.WriteFile(outputPath, []byte(script), 0o644); err != nil {
			return fmt.Errorf("failed to write script: %w", err)
		}
		logger.Info("script written", zap.String("path", outputPath))
	}

	// Manifest-file runs still land in the audit trail when a library is
	// reachable; an unreachable library downgrades to a warning because the
	// script is already delivered.
	if store == nil {
		if _, s, err := openLibrary(cfg.DBURL); err != nil {
			logger.Warn("rule library unavailable, run not recorded", zap.Error(err))
		} else {
			store = s
		}
	}
	recordRun(ctx, store, library.Run{
		RuleSetName:   ruleSetName,
		DatasetName:   filepath.Base(dataPath),
		VariableCount: len(ds.Variables),
		RuleCount:     len(ruleList),
		FlagCount:     flagCount,
		ScriptSHA256:  fmt.Sprintf("%x", sha256.Sum256([]byte(script))),
	})
	return nil
}

// resolveManifest reads the rule declarations from a file or the library.
// The returned store is non-nil only when the library was opened.
func resolveManifest(ctx context.Context, dbConnURL, rulesPath, ruleSetName string) (*manifest.Manifest, *library.Store, error) {
	if rulesPath != "" {
		data, err := os.ReadFile(rulesPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read manifest: %w", err)
		}
		m, err := manifest.Parse(data)
		if err != nil {
			return nil, nil, err
		}
		return m, nil, nil
	}

	// The connection lives until process exit; the store keeps using it
	// for run recording after the script is written.
	_, store, err := openLibrary(dbConnURL)
	if err != nil {
		return nil, nil, err
	}
	rs, err := store.GetRuleSet(ctx, ruleSetName)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("rule set loaded",
		zap.String("name", rs.Name),
		zap.Int("rules", len(rs.Entries)))
	return &manifest.Manifest{Rules: rs.Entries}, store, nil
}

// recordRun appends to the audit trail, best effort: the script is already
// on disk, so a library hiccup downgrades to a warning.
func recordRun(ctx context.Context, store *library.Store, run library.Run) {
	if store == nil {
		return
	}
	id, err := store.RecordRun(ctx, run)
	if err != nil {
		logger.Warn("failed to record run", zap.Error(err))
		return
	}
	logger.Info("run recorded", zap.String("run_id", string(id)))
}
