// Package types provides domain models shared across checkwright components.
//
// Zero-dependency design: types.go, rules.go and errors.go use only the
// standard library. ID utilities in ids.go import uuid but are isolated so
// the compiler and loader never pull it in.
package types

// VarKind distinguishes textual from numeric dataset columns.
// The loader decides the kind exactly once; the compiler branches on it when
// building missing/answered predicates and when quoting trigger values, and
// never re-derives type information from data.
type VarKind int

const (
	// KindUnspecified is the zero value; a Variable carrying it indicates a
	// loader bug, never a valid column.
	KindUnspecified VarKind = iota

	// KindNumeric columns use only the system-missing test.
	KindNumeric

	// KindText columns additionally compare against the empty string.
	KindText
)

// String returns the kind name as shown in inspect output.
func (k VarKind) String() string {
	switch k {
	case KindNumeric:
		return "Numeric"
	case KindText:
		return "Text"
	}
	return "Unspecified"
}

// Variable describes one dataset column: the exact on-disk header name plus
// the inferred kind. Created once by the dataset loader, immutable afterward.
type Variable struct {
	Name string
	Kind VarKind
}

// FlagName is a derived script variable recording a check outcome, or, for
// skip-logic filter indicators, intermediate bookkeeping. Generated
// deterministically by the compiler's naming function; one semantic check
// maps to exactly one name.
type FlagName string

// CompiledBlock is the output of compiling one rule: ordered statement lines
// plus the flag variables those statements define. Flags are check outcomes
// (declared, zeroed, summed into the reject count, reported); Aux are
// skip-logic filter indicators that need declaration and zeroing but carry
// no outcome. Blocks are never mutated after creation.
type CompiledBlock struct {
	Lines []string
	Flags []FlagName
	Aux   []FlagName
}

// VariableGroup is a family of related columns sharing a leading name token,
// e.g. Q5_1..Q5_8 under base Q5. Detected by the loader; used to expand
// group references in manifests.
type VariableGroup struct {
	Base      string
	Variables []string
}

// RuleSetID identifies a stored rule set.
// String alias enables type safety while keeping plain string serialization.
// UUIDv7 time-ordering ensures sequential IDs cluster in B-tree indexes.
type RuleSetID string

// RunID identifies one recorded generation run.
// String alias enables type safety while keeping plain string serialization.
type RunID string

// DefaultFlagPrefix prepends error-flag names unless overridden through
// configuration, manifest, or CLI flag.
const DefaultFlagPrefix = "xx"

// Resource limits enforced at construction, compile, and load time.
// Realistic surveys sit far below these; the caps bound memory and generated
// script size when fed a malformed input file.
const (
	// MaxRules caps the rule list per compilation.
	// Rule counts are tens to low hundreds in practice.
	MaxRules = 1000

	// MaxVariables caps dataset width after system-column filtering.
	// Wide trackers reach a few thousand columns; 10k leaves headroom.
	MaxVariables = 10000

	// MaxGroupSize caps members per group rule.
	// SUM/MIN/MAX argument lists render on one line; 500 keeps generated
	// statements manageable in a script editor.
	MaxGroupSize = 500

	// MaxNameLength matches the 64-byte variable-name limit of the target
	// scripting package.
	MaxNameLength = 64

	// MaxValueLength caps trigger comparison values.
	// Answer codes and short labels fit comfortably in 256 bytes.
	MaxValueLength = 256
)
