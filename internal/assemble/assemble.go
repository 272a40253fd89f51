// Package assemble renders compiled rule blocks into the final validation
// script: preamble, flag declarations, the rule logic, and the reject-count
// summary with its frequency report.
package assemble

import (
	"sort"
	"strings"

	"github.com/checkwright/checkwright/internal/types"
)

/*
 * Script assembly.
 *
 * The assembler owns everything block compilation cannot know: which flags
 * exist across the whole rule set, in what order they are declared, and the
 * aggregate reject count. Declaration lists are deduplicated and sorted so
 * repeat assembly of the same blocks is byte-identical regardless of rule
 * order.
 *
 * Flags vs aux: error flags are check outcomes and feed the reject sum and
 * the frequency report; aux indicators (skip-logic filters) only need
 * declaration and zeroing so the generated IF statements read them as 0, not
 * system-missing, for respondents whose trigger never matched.
 */

// RejectCountVar accumulates the per-respondent sum of error flags.
const RejectCountVar = "RejectCount"

var preamble = []string{
	"*============================================================*",
	"* GENERATED DATA VALIDATION SYNTAX *",
	"*============================================================*",
	"",
	"SET DECIMAL=DOT.",
	"DATASET ACTIVATE ALL.",
	"",
}

// Assemble renders the full script text. Blocks render in input order; with
// no blocks only the preamble renders. Output ends with a single trailing
// newline.
func Assemble(blocks []types.CompiledBlock) string {
	var lines []string
	lines = append(lines, preamble...)

	flags := collectFlags(blocks)
	declared := declarationList(blocks)
	if len(declared) > 0 {
		list := strings.Join(declared, " ")
		lines = append(lines,
			"NUMERIC "+list+".",
			"RECODE "+list+" (ELSE=0).",
			"EXECUTE.",
			"",
			"* --- VALIDATION LOGIC --- *",
		)
		for _, b := range blocks {
			lines = append(lines, b.Lines...)
		}
	}
	if len(flags) > 0 {
		list := strings.Join(flags, " ")
		lines = append(lines,
			"* --- REJECT SUMMARY --- *",
			"COMPUTE "+RejectCountVar+" = SUM("+list+").",
			"EXECUTE.",
			"FREQUENCIES VARIABLES="+list+" "+RejectCountVar+".",
		)
	}

	out := strings.Join(lines, "\n")
	return strings.TrimRight(out, "\n") + "\n"
}

// collectFlags returns the deduplicated, sorted error flags across blocks.
func collectFlags(blocks []types.CompiledBlock) []string {
	seen := make(map[string]bool)
	var flags []string
	for _, b := range blocks {
		for _, f := range b.Flags {
			if !seen[string(f)] {
				seen[string(f)] = true
				flags = append(flags, string(f))
			}
		}
	}
	sort.Strings(flags)
	return flags
}

// declarationList returns every variable needing declaration and zeroing:
// error flags plus aux indicators, deduplicated and sorted.
func declarationList(blocks []types.CompiledBlock) []string {
	seen := make(map[string]bool)
	var names []string
	for _, b := range blocks {
		for _, f := range b.Flags {
			if !seen[string(f)] {
				seen[string(f)] = true
				names = append(names, string(f))
			}
		}
		for _, f := range b.Aux {
			if !seen[string(f)] {
				seen[string(f)] = true
				names = append(names, string(f))
			}
		}
	}
	sort.Strings(names)
	return names
}
