package types

import "errors"

// Sentinel errors for checkwright operations.
var (
	// ErrUnknownVariable indicates a rule references a column absent from the
	// loaded variable list. Raised at compile time; the offending rule aborts
	// with no partial output while other rules proceed.
	ErrUnknownVariable = errors.New("unknown variable")

	// ErrInvalidRange indicates an inverted bound pair (min > max).
	ErrInvalidRange = errors.New("invalid range")

	// ErrEmptyGroup indicates a group rule with zero variables.
	ErrEmptyGroup = errors.New("empty variable group")

	// ErrUnknownGroup indicates a group reference that matches no detected
	// variable group in the dataset.
	ErrUnknownGroup = errors.New("unknown variable group")

	// ErrInvalidCount indicates a negative selection count.
	ErrInvalidCount = errors.New("invalid selection count")

	// ErrInvalidLength indicates a minimum text length below one.
	ErrInvalidLength = errors.New("invalid minimum length")

	// ErrEmptyName indicates an empty variable name.
	ErrEmptyName = errors.New("empty variable name")

	// ErrNameTooLong indicates a variable name exceeding MaxNameLength.
	ErrNameTooLong = errors.New("variable name too long")

	// ErrValueTooLong indicates a trigger value exceeding MaxValueLength.
	ErrValueTooLong = errors.New("trigger value too long")

	// ErrTooManyRules indicates a rule list exceeding MaxRules.
	ErrTooManyRules = errors.New("too many rules")

	// ErrTooManyVariables indicates a dataset exceeding MaxVariables columns.
	ErrTooManyVariables = errors.New("too many variables")

	// ErrGroupTooLarge indicates a group rule exceeding MaxGroupSize members.
	ErrGroupTooLarge = errors.New("variable group too large")

	// ErrUnsupportedFormat indicates a dataset extension with no reader.
	ErrUnsupportedFormat = errors.New("unsupported dataset format")

	// ErrBadHeader indicates an empty or duplicate column header.
	ErrBadHeader = errors.New("bad column header")

	// ErrRuleSetExists indicates the rule-set name is already stored.
	ErrRuleSetExists = errors.New("rule set already exists")

	// ErrRuleSetNotFound indicates no stored rule set under the given name.
	ErrRuleSetNotFound = errors.New("rule set not found")
)
