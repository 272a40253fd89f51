// internal/rules/compile.go

// Package rules compiles declared validation rules into script statement
// blocks: one CompiledBlock per rule, carrying the statement lines and the
// flag variables they define.
package rules

import (
	"errors"
	"fmt"

	"github.com/checkwright/checkwright/internal/types"
)

/*
 * Rule compilation.
 *
 * Compilation is a pure, synchronous transformation: the rule list and the
 * variable list are read-only inputs, the blocks are freshly allocated
 * outputs, and nothing is retained across calls. Repeat compilation of the
 * same inputs yields byte-identical output.
 *
 * Compilation workflow per rule:
 *   1. Resolve every referenced column against the variable set; any
 *      unknown name aborts that rule with ErrUnknownVariable before a
 *      single line is emitted (no partial blocks).
 *   2. Build the condition tree from the shared missing/answered
 *      predicates and the rule's bounds or trigger.
 *   3. Render statements: a leading comment, the IF assignments, EXECUTE,
 *      and a trailing blank line.
 *
 * Why per-rule isolation: one misdeclared rule must not poison the rest of
 * the script, but it must also never vanish silently - a script that looks
 * complete while missing a check is worse than a loud failure. Compile
 * therefore returns every successful block alongside a joined error that
 * names each failed rule.
 *
 * Conditional checks delegate to the skip-logic generator rather than
 * special-casing triggers per family: a triggered range or text-length rule
 * appends the same two-stage filter/check statements a standalone skip rule
 * produces, into the same block.
 */

// Options control compilation.
type Options struct {
	// FlagPrefix prepends every error-flag name.
	// Empty selects types.DefaultFlagPrefix.
	FlagPrefix string
}

// Compile turns rules into one CompiledBlock per rule, preserving input
// order. A rule that fails validation contributes no block; its error,
// wrapped with the rule position and kind, joins the returned error while
// every other rule compiles normally. Returned blocks are always valid,
// error or not.
func Compile(vars []types.Variable, ruleList []types.Rule, opts Options) ([]types.CompiledBlock, error) {
	if len(ruleList) > types.MaxRules {
		return nil, fmt.Errorf("%w: %d rules (limit %d)", types.ErrTooManyRules, len(ruleList), types.MaxRules)
	}
	if len(vars) > types.MaxVariables {
		return nil, fmt.Errorf("%w: %d columns (limit %d)", types.ErrTooManyVariables, len(vars), types.MaxVariables)
	}

	c := compiler{
		prefix: opts.FlagPrefix,
		vars:   make(map[string]types.Variable, len(vars)),
	}
	if c.prefix == "" {
		c.prefix = types.DefaultFlagPrefix
	}
	for _, v := range vars {
		c.vars[v.Name] = v
	}

	blocks := make([]types.CompiledBlock, 0, len(ruleList))
	var errs []error
	for i, r := range ruleList {
		block, err := c.compileRule(r)
		if err != nil {
			errs = append(errs, fmt.Errorf("rule %d (%s): %w", i, r.Kind(), err))
			continue
		}
		blocks = append(blocks, block)
	}
	return blocks, errors.Join(errs...)
}

// compiler holds the per-call column lookup and options. Value type; no
// state survives Compile.
type compiler struct {
	prefix string
	vars   map[string]types.Variable
}

func (c compiler) compileRule(r types.Rule) (types.CompiledBlock, error) {
	switch rule := r.(type) {
	case *types.RangeRule:
		return c.compileRange(rule)
	case *types.GroupCountRule:
		return c.compileGroupCount(rule)
	case *types.TextLengthRule:
		return c.compileTextLength(rule)
	case *types.StraightlineRule:
		return c.compileStraightline(rule)
	case *types.SkipRule:
		return c.compileSkip(rule)
	}
	return types.CompiledBlock{}, fmt.Errorf("unsupported rule type %T", r)
}

// resolve looks up a referenced column; the only origin of ErrUnknownVariable.
func (c compiler) resolve(name string) (types.Variable, error) {
	v, ok := c.vars[name]
	if !ok {
		return types.Variable{}, fmt.Errorf("%w: %s", types.ErrUnknownVariable, name)
	}
	return v, nil
}

// compileRange emits the out-of-range/missing check. Text columns (tolerated,
// not normal for a range check) skip the numeric bound test and flag only on
// missing. A trigger delegates the conditional part to skip logic with this
// rule's variable as target.
func (c compiler) compileRange(r *types.RangeRule) (types.CompiledBlock, error) {
	v, err := c.resolve(r.Variable)
	if err != nil {
		return types.CompiledBlock{}, err
	}
	var trigVar types.Variable
	if r.Trigger != nil {
		if trigVar, err = c.resolve(r.Trigger.Variable); err != nil {
			return types.CompiledBlock{}, err
		}
	}

	flag := flagFor(c.prefix, checkRange, v.Name)
	var cond expr = missingExpr{v}
	if v.Kind != types.KindText {
		cond = orExpr{missingExpr{v}, notExpr{rangeExpr{name: v.Name, min: r.Min, max: r.Max}}}
	}

	block := types.CompiledBlock{
		Lines: []string{
			"* SQ Check: " + v.Name,
			ifFlag(cond, flag, 1),
			executeStmt,
			"",
		},
		Flags: []types.FlagName{flag},
	}
	if r.Trigger != nil {
		c.appendSkip(&block, v, trigVar, r.Trigger.Value)
	}
	return block, nil
}

// compileGroupCount emits the selection-count compute plus the under- and
// (when bounded) over-selection checks. The first-variable answered guard
// prevents flagging respondents who never saw the group.
func (c compiler) compileGroupCount(r *types.GroupCountRule) (types.CompiledBlock, error) {
	first, err := c.resolveGroup(r.Variables)
	if err != nil {
		return types.CompiledBlock{}, err
	}

	base := baseOf(first.Name)
	count := countVar(base)
	answered := answeredExpr{first}
	minFlag := flagFor(c.prefix, checkGroupMin, base)

	lines := []string{
		"* MQ Check for " + base,
		computeSum(count, r.Variables),
		ifFlag(andExpr{
			compareExpr{lhs: varTerm(count), op: opLt, rhs: numTerm(r.MinCount)},
			answered,
		}, minFlag, 1),
	}
	flags := []types.FlagName{minFlag}

	if r.MaxCount != nil {
		maxFlag := flagFor(c.prefix, checkGroupMax, base)
		lines = append(lines, ifFlag(andExpr{
			compareExpr{lhs: varTerm(count), op: opGt, rhs: numTerm(*r.MaxCount)},
			answered,
		}, maxFlag, 1))
		flags = append(flags, maxFlag)
	}
	lines = append(lines, executeStmt, "")

	return types.CompiledBlock{Lines: lines, Flags: flags}, nil
}

// compileTextLength emits the junk check (answered but shorter than the
// minimum after trimming - a blank answer is never junk) and, for mandatory
// untriggered open ends, the missing check. A trigger delegates presence
// policing to skip logic instead.
func (c compiler) compileTextLength(r *types.TextLengthRule) (types.CompiledBlock, error) {
	v, err := c.resolve(r.Variable)
	if err != nil {
		return types.CompiledBlock{}, err
	}
	var trigVar types.Variable
	if r.Trigger != nil {
		if trigVar, err = c.resolve(r.Trigger.Variable); err != nil {
			return types.CompiledBlock{}, err
		}
	}

	junk := flagFor(c.prefix, checkJunk, v.Name)
	lines := []string{
		"* OE Check: " + v.Name,
		ifFlag(andExpr{
			answeredExpr{v},
			compareExpr{lhs: trimLenTerm(v.Name), op: opLt, rhs: numTerm(r.MinLength)},
		}, junk, 1),
	}
	flags := []types.FlagName{junk}

	if r.Mandatory && r.Trigger == nil {
		miss := flagFor(c.prefix, checkMandatory, v.Name)
		lines = append(lines, ifFlag(missingExpr{v}, miss, 1))
		flags = append(flags, miss)
	}
	lines = append(lines, executeStmt, "")

	block := types.CompiledBlock{Lines: lines, Flags: flags}
	if r.Trigger != nil {
		c.appendSkip(&block, v, trigVar, r.Trigger.Value)
	}
	return block, nil
}

// compileStraightline emits the all-identical check: MIN equals MAX across
// the grid, guarded by the first variable being answered so an entirely
// missing grid never registers as all-same.
func (c compiler) compileStraightline(r *types.StraightlineRule) (types.CompiledBlock, error) {
	first, err := c.resolveGroup(r.Variables)
	if err != nil {
		return types.CompiledBlock{}, err
	}

	base := baseOf(first.Name)
	flag := flagFor(c.prefix, checkStraightline, base)
	cond := andExpr{
		compareExpr{lhs: minOfTerm(r.Variables), op: opEq, rhs: maxOfTerm(r.Variables)},
		answeredExpr{first},
	}

	return types.CompiledBlock{
		Lines: []string{
			"* Straightliner: " + base,
			ifFlag(cond, flag, 1),
			executeStmt,
			"",
		},
		Flags: []types.FlagName{flag},
	}, nil
}

// compileSkip emits the standalone two-stage skip check for the target.
func (c compiler) compileSkip(r *types.SkipRule) (types.CompiledBlock, error) {
	target, err := c.resolve(r.Target)
	if err != nil {
		return types.CompiledBlock{}, err
	}
	trigVar, err := c.resolve(r.Trigger.Variable)
	if err != nil {
		return types.CompiledBlock{}, err
	}

	var block types.CompiledBlock
	c.appendSkip(&block, target, trigVar, r.Trigger.Value)
	return block, nil
}

// commentWall prefixes the skip-logic section banners.
const commentWall = "**************************************"

// appendSkip writes the two-stage skip-logic statements for target under the
// given trigger. Stage one raises the filter indicator when the trigger
// condition holds; stage two flags omission (1) when the filter is set and
// the target is missing, and commission (2) when the filter is unset or
// itself missing and the target is answered. Rows are evaluated
// independently, so the two stages need no shared state beyond the
// indicator column.
func (c compiler) appendSkip(block *types.CompiledBlock, target, trigVar types.Variable, trigValue string) {
	base := baseOf(target.Name)
	indicator := flagFor(c.prefix, checkSkipIndicator, base)
	final := flagFor(c.prefix, checkSkip, base)

	// The indicator is a generated numeric column; missingness only applies
	// when the declaration preamble was stripped from the script.
	indicatorVar := types.Variable{Name: string(indicator), Kind: types.KindNumeric}

	block.Lines = append(block.Lines,
		commentWall+"SKIP LOGIC FILTER FLAG: "+trigVar.Name+"="+trigValue+" -> "+base,
		ifFlag(compareExpr{lhs: varTerm(trigVar.Name), op: opEq, rhs: triggerTerm(trigVar, trigValue)}, indicator, 1),
		executeStmt,
		"",
		commentWall+"SKIP LOGIC EoO/EoC CHECK: "+target.Name+" -> "+string(final),
		ifFlag(andExpr{
			compareExpr{lhs: varTerm(indicator), op: opEq, rhs: numTerm(1)},
			missingExpr{target},
		}, final, 1),
		ifFlag(andExpr{
			orExpr{
				compareExpr{lhs: varTerm(indicator), op: opNe, rhs: numTerm(1)},
				missingExpr{indicatorVar},
			},
			answeredExpr{target},
		}, final, 2),
		executeStmt,
		"",
	)
	block.Flags = append(block.Flags, final)
	block.Aux = append(block.Aux, indicator)
}

// resolveGroup resolves every member of a group rule and returns the first,
// whose answered state guards the group-level checks.
func (c compiler) resolveGroup(variables []string) (types.Variable, error) {
	var first types.Variable
	for i, name := range variables {
		v, err := c.resolve(name)
		if err != nil {
			return types.Variable{}, err
		}
		if i == 0 {
			first = v
		}
	}
	return first, nil
}
