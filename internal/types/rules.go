// internal/types/rules.go
package types

/*
 * Declared validation rules, one variant per check family.
 *
 * Constructors enforce every construction-time invariant (bounds ordering,
 * non-empty groups, name and value limits) so malformed rules are rejected
 * before they reach the compiler; the compiler only adds the per-dataset
 * unknown-variable check. Constructed rules are immutable: slice fields are
 * copied on the way in.
 *
 * Rule variants:
 *   - RangeRule: single-select answer must lie in [Min,Max] and be present
 *   - GroupCountRule: multi-select selection count within [MinCount,MaxCount]
 *   - TextLengthRule: open-end junk (short non-blank) and optional mandatory
 *   - StraightlineRule: identical answers across a rating grid
 *   - SkipRule: conditional presence/absence driven by a trigger question
 *
 * Dependencies: standard library only.
 */

import "fmt"

// Trigger names the upstream question and the answer code that activates a
// conditional check. Value stays a raw string; rendering quotes it only when
// the trigger variable's kind is Text, and type-mismatched comparisons are
// emitted literally as declared.
type Trigger struct {
	Variable string
	Value    string
}

// Rule is one declared validation check. The five check families implement
// it; the compiler switches on the concrete type.
type Rule interface {
	// Kind returns the manifest kind token for the rule family.
	Kind() string
}

// RangeRule flags a respondent whose answer is missing or numerically
// outside [Min,Max]. An optional Trigger makes the check conditional via
// skip logic.
type RangeRule struct {
	Variable string
	Min      float64
	Max      float64
	Trigger  *Trigger
}

// Kind implements Rule.
func (*RangeRule) Kind() string { return "range" }

// NewRangeRule validates bounds and names and returns an immutable rule.
func NewRangeRule(variable string, min, max float64, trigger *Trigger) (*RangeRule, error) {
	if err := checkName(variable); err != nil {
		return nil, err
	}
	if min > max {
		return nil, fmt.Errorf("%w: min %v > max %v for %s", ErrInvalidRange, min, max, variable)
	}
	t, err := checkTrigger(trigger)
	if err != nil {
		return nil, err
	}
	return &RangeRule{Variable: variable, Min: min, Max: max, Trigger: t}, nil
}

// GroupCountRule checks the number of selected indicator columns in a
// multi-select group: at least MinCount, and at most MaxCount when set.
type GroupCountRule struct {
	Variables []string
	MinCount  int
	MaxCount  *int
}

// Kind implements Rule.
func (*GroupCountRule) Kind() string { return "group_count" }

// NewGroupCountRule validates the member list and count bounds.
func NewGroupCountRule(variables []string, minCount int, maxCount *int) (*GroupCountRule, error) {
	vs, err := checkGroup(variables)
	if err != nil {
		return nil, err
	}
	if minCount < 0 {
		return nil, fmt.Errorf("%w: min_count %d", ErrInvalidCount, minCount)
	}
	if maxCount != nil && *maxCount < minCount {
		return nil, fmt.Errorf("%w: min_count %d > max_count %d", ErrInvalidRange, minCount, *maxCount)
	}
	var mc *int
	if maxCount != nil {
		v := *maxCount
		mc = &v
	}
	return &GroupCountRule{Variables: vs, MinCount: minCount, MaxCount: mc}, nil
}

// TextLengthRule flags a non-blank open-end answer whose trimmed length is
// below MinLength as junk. Mandatory additionally flags a missing answer;
// it only applies without a Trigger, since a Trigger already polices
// presence through skip logic.
type TextLengthRule struct {
	Variable  string
	MinLength int
	Mandatory bool
	Trigger   *Trigger
}

// Kind implements Rule.
func (*TextLengthRule) Kind() string { return "text_length" }

// NewTextLengthRule validates the name and minimum length.
func NewTextLengthRule(variable string, minLength int, mandatory bool, trigger *Trigger) (*TextLengthRule, error) {
	if err := checkName(variable); err != nil {
		return nil, err
	}
	if minLength < 1 {
		return nil, fmt.Errorf("%w: min_length %d", ErrInvalidLength, minLength)
	}
	t, err := checkTrigger(trigger)
	if err != nil {
		return nil, err
	}
	return &TextLengthRule{Variable: variable, MinLength: minLength, Mandatory: mandatory, Trigger: t}, nil
}

// StraightlineRule flags a respondent who gave the identical answer across
// every member of a rating grid, guarded so an entirely-missing grid does
// not register as all-same.
type StraightlineRule struct {
	Variables []string
}

// Kind implements Rule.
func (*StraightlineRule) Kind() string { return "straightline" }

// NewStraightlineRule validates the member list.
func NewStraightlineRule(variables []string) (*StraightlineRule, error) {
	vs, err := checkGroup(variables)
	if err != nil {
		return nil, err
	}
	return &StraightlineRule{Variables: vs}, nil
}

// SkipRule checks conditional consistency: Target must be answered when the
// trigger condition holds (else omission, flag 1) and skipped otherwise
// (else commission, flag 2).
type SkipRule struct {
	Target  string
	Trigger Trigger
}

// Kind implements Rule.
func (*SkipRule) Kind() string { return "skip" }

// NewSkipRule validates the target and trigger names.
func NewSkipRule(target string, trigger Trigger) (*SkipRule, error) {
	if err := checkName(target); err != nil {
		return nil, err
	}
	t, err := checkTrigger(&trigger)
	if err != nil {
		return nil, err
	}
	return &SkipRule{Target: target, Trigger: *t}, nil
}

func checkName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: %q is %d bytes (limit %d)", ErrNameTooLong, name, len(name), MaxNameLength)
	}
	return nil
}

func checkGroup(variables []string) ([]string, error) {
	if len(variables) == 0 {
		return nil, ErrEmptyGroup
	}
	if len(variables) > MaxGroupSize {
		return nil, fmt.Errorf("%w: %d variables (limit %d)", ErrGroupTooLarge, len(variables), MaxGroupSize)
	}
	vs := make([]string, len(variables))
	for i, v := range variables {
		if err := checkName(v); err != nil {
			return nil, err
		}
		vs[i] = v
	}
	return vs, nil
}

func checkTrigger(t *Trigger) (*Trigger, error) {
	if t == nil {
		return nil, nil
	}
	if err := checkName(t.Variable); err != nil {
		return nil, fmt.Errorf("trigger: %w", err)
	}
	if len(t.Value) > MaxValueLength {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrValueTooLong, len(t.Value), MaxValueLength)
	}
	c := *t
	return &c, nil
}
