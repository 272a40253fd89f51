// internal/rules/expr.go
package rules

/*
 * Predicate expression tree and script-text rendering.
 *
 * Conditions are built as a small tagged expression type and rendered to
 * text only at serialization, never interpolated ad hoc. This keeps quoting
 * rules (single quotes doubled inside string literals, trigger values quoted
 * by the trigger column's kind) and parenthesization in exactly one place.
 *
 * Rendering rules:
 *   - Nested and/or groups parenthesize; the outermost expression inside
 *     IF(...) does not.
 *   - Comparisons render spaced (Q1 = 1); assignments render tight
 *     (xxQ1_Rng=1.).
 *   - Numbers render minimally: 1, not 1.0.
 *
 * Dependencies: internal/types for Variable kinds.
 */

import (
	"strconv"
	"strings"

	"github.com/checkwright/checkwright/internal/types"
)

// expr is a boolean predicate over one respondent's row.
type expr interface {
	appendTo(b *strings.Builder, nested bool)
}

// term is a scalar operand inside a comparison.
type term interface {
	appendTerm(b *strings.Builder)
}

type compareOp string

const (
	opEq compareOp = "="
	opNe compareOp = "<>"
	opLt compareOp = "<"
	opGt compareOp = ">"
)

// varTerm references a column or flag by name.
type varTerm string

func (t varTerm) appendTerm(b *strings.Builder) {
	b.WriteString(string(t))
}

// numTerm is a numeric literal.
type numTerm float64

func (t numTerm) appendTerm(b *strings.Builder) {
	b.WriteString(strconv.FormatFloat(float64(t), 'f', -1, 64))
}

// strTerm is a single-quoted string literal; embedded quotes are doubled.
type strTerm string

func (t strTerm) appendTerm(b *strings.Builder) {
	b.WriteByte('\'')
	b.WriteString(strings.ReplaceAll(string(t), "'", "''"))
	b.WriteByte('\'')
}

// rawTerm emits its text verbatim. Used for trigger values against numeric
// columns: the declared value appears literally, mismatches included, since
// type errors in rule declarations are a caller concern.
type rawTerm string

func (t rawTerm) appendTerm(b *strings.Builder) {
	b.WriteString(string(t))
}

// trimLenTerm is the trimmed length of a text column: LENGTH(RTRIM(v)).
type trimLenTerm string

func (t trimLenTerm) appendTerm(b *strings.Builder) {
	b.WriteString("LENGTH(RTRIM(")
	b.WriteString(string(t))
	b.WriteString("))")
}

// minOfTerm is the row-wise minimum across columns: MIN(v1 v2 ...).
type minOfTerm []string

func (t minOfTerm) appendTerm(b *strings.Builder) {
	b.WriteString("MIN(")
	b.WriteString(strings.Join(t, " "))
	b.WriteByte(')')
}

// maxOfTerm is the row-wise maximum across columns: MAX(v1 v2 ...).
type maxOfTerm []string

func (t maxOfTerm) appendTerm(b *strings.Builder) {
	b.WriteString("MAX(")
	b.WriteString(strings.Join(t, " "))
	b.WriteByte(')')
}

// missingExpr is the shared missing predicate: text columns compare against
// the empty string alongside the system-missing test, numeric columns use
// the system-missing test alone.
type missingExpr struct {
	v types.Variable
}

func (e missingExpr) appendTo(b *strings.Builder, nested bool) {
	if e.v.Kind == types.KindText {
		b.WriteByte('(')
		b.WriteString(e.v.Name)
		b.WriteString(" = '' | miss(")
		b.WriteString(e.v.Name)
		b.WriteString("))")
		return
	}
	b.WriteString("miss(")
	b.WriteString(e.v.Name)
	b.WriteByte(')')
}

// answeredExpr is the exact negation of missingExpr over the same column.
type answeredExpr struct {
	v types.Variable
}

func (e answeredExpr) appendTo(b *strings.Builder, nested bool) {
	if e.v.Kind == types.KindText {
		b.WriteByte('(')
		b.WriteString(e.v.Name)
		b.WriteString(" <> '' & ~miss(")
		b.WriteString(e.v.Name)
		b.WriteString("))")
		return
	}
	b.WriteString("~miss(")
	b.WriteString(e.v.Name)
	b.WriteByte(')')
}

// rangeExpr tests inclusion in [min,max]: range(v,min,max).
type rangeExpr struct {
	name     string
	min, max float64
}

func (e rangeExpr) appendTo(b *strings.Builder, nested bool) {
	b.WriteString("range(")
	b.WriteString(e.name)
	b.WriteByte(',')
	b.WriteString(strconv.FormatFloat(e.min, 'f', -1, 64))
	b.WriteByte(',')
	b.WriteString(strconv.FormatFloat(e.max, 'f', -1, 64))
	b.WriteByte(')')
}

// notExpr negates its operand with the tight ~ form.
type notExpr struct {
	x expr
}

func (e notExpr) appendTo(b *strings.Builder, nested bool) {
	b.WriteByte('~')
	e.x.appendTo(b, true)
}

// compareExpr is a spaced binary comparison between two terms.
type compareExpr struct {
	lhs term
	op  compareOp
	rhs term
}

func (e compareExpr) appendTo(b *strings.Builder, nested bool) {
	e.lhs.appendTerm(b)
	b.WriteByte(' ')
	b.WriteString(string(e.op))
	b.WriteByte(' ')
	e.rhs.appendTerm(b)
}

// andExpr joins operands with &; parenthesized when nested.
type andExpr []expr

func (e andExpr) appendTo(b *strings.Builder, nested bool) {
	if nested {
		b.WriteByte('(')
	}
	for i, x := range e {
		if i > 0 {
			b.WriteString(" & ")
		}
		x.appendTo(b, true)
	}
	if nested {
		b.WriteByte(')')
	}
}

// orExpr joins operands with |; parenthesized when nested.
type orExpr []expr

func (e orExpr) appendTo(b *strings.Builder, nested bool) {
	if nested {
		b.WriteByte('(')
	}
	for i, x := range e {
		if i > 0 {
			b.WriteString(" | ")
		}
		x.appendTo(b, true)
	}
	if nested {
		b.WriteByte(')')
	}
}

// triggerTerm renders a trigger comparison value: quoted iff the trigger
// column is Text, verbatim otherwise.
func triggerTerm(trigVar types.Variable, value string) term {
	if trigVar.Kind == types.KindText {
		return strTerm(value)
	}
	return rawTerm(value)
}

// renderCond renders an expression bare, as it appears inside IF(...).
func renderCond(e expr) string {
	var b strings.Builder
	e.appendTo(&b, false)
	return b.String()
}

// ifFlag renders the one statement shape every check family uses:
// IF(<cond>) <flag>=<value>.
func ifFlag(cond expr, flag types.FlagName, value int) string {
	var b strings.Builder
	b.WriteString("IF(")
	cond.appendTo(&b, false)
	b.WriteString(") ")
	b.WriteString(string(flag))
	b.WriteByte('=')
	b.WriteString(strconv.Itoa(value))
	b.WriteByte('.')
	return b.String()
}

// computeSum renders COMPUTE <target> = SUM(v1 v2 ...).
func computeSum(target string, vars []string) string {
	var b strings.Builder
	b.WriteString("COMPUTE ")
	b.WriteString(target)
	b.WriteString(" = SUM(")
	b.WriteString(strings.Join(vars, " "))
	b.WriteString(").")
	return b.String()
}

// executeStmt terminates every generated block.
const executeStmt = "EXECUTE."
