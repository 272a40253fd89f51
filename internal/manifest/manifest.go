// Package manifest reads and writes the YAML rule declaration file. A
// manifest is the explicit, reviewable replacement for accumulated UI state:
// the full rule list in order, plus an optional flag-prefix override.
package manifest

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/checkwright/checkwright/internal/types"
)

/*
 * Manifest format:
 *
 *   flag_prefix: xx              # optional
 *   rules:
 *     - kind: range
 *       variable: Q1
 *       min: 1
 *       max: 5
 *     - kind: group_count
 *       group: Q5                # expands to the detected group's members
 *       min_count: 1
 *     - kind: skip
 *       target: Q8_1
 *       trigger_variable: Q6
 *       trigger_value: "2"
 *
 * Group-shaped rules (group_count, straightline) take exactly one of
 * `group:` (a loader-detected group name, resolved against the dataset at
 * build time) or `variables:` (explicit members). Everything funnels through
 * the internal/types constructors, so construction invariants hold for
 * manifest input identically to programmatic input.
 *
 * Entry doubles as the stored-rule serialization: the library marshals the
 * same struct to JSON, so a saved rule set and a manifest file carry
 * identical definitions.
 */

// Manifest is the parsed rule declaration file.
type Manifest struct {
	FlagPrefix string  `yaml:"flag_prefix,omitempty" json:"flag_prefix,omitempty"`
	Rules      []Entry `yaml:"rules" json:"rules"`
}

// Entry is one declared rule. Fields are a union across the five kinds;
// Build rejects entries whose fields do not fit their kind's constructor.
type Entry struct {
	Kind string `yaml:"kind" json:"kind"`

	// range, text_length
	Variable string `yaml:"variable,omitempty" json:"variable,omitempty"`

	// range
	Min *float64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max *float64 `yaml:"max,omitempty" json:"max,omitempty"`

	// group_count, straightline
	Group     string   `yaml:"group,omitempty" json:"group,omitempty"`
	Variables []string `yaml:"variables,omitempty,flow" json:"variables,omitempty"`

	// group_count
	MinCount *int `yaml:"min_count,omitempty" json:"min_count,omitempty"`
	MaxCount *int `yaml:"max_count,omitempty" json:"max_count,omitempty"`

	// text_length
	MinLength *int `yaml:"min_length,omitempty" json:"min_length,omitempty"`
	Mandatory bool `yaml:"mandatory,omitempty" json:"mandatory,omitempty"`

	// skip
	Target string `yaml:"target,omitempty" json:"target,omitempty"`

	// skip (required), range and text_length (optional)
	TriggerVariable string `yaml:"trigger_variable,omitempty" json:"trigger_variable,omitempty"`
	TriggerValue    string `yaml:"trigger_value,omitempty" json:"trigger_value,omitempty"`
}

// Parse decodes manifest YAML. Unknown fields are rejected so a typo like
// min_lenght fails loudly instead of silently dropping a constraint.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if len(m.Rules) == 0 {
		return nil, errors.New("manifest declares no rules")
	}
	return &m, nil
}

// Render marshals entries back to manifest YAML, used by `rules show`.
func Render(flagPrefix string, entries []Entry) ([]byte, error) {
	return yaml.Marshal(Manifest{FlagPrefix: flagPrefix, Rules: entries})
}

// Build constructs the rule list, expanding group references against the
// detected groups. Failures are joined per entry (1-based position) so one
// bad declaration never hides the others.
func (m *Manifest) Build(groups []types.VariableGroup) ([]types.Rule, error) {
	byBase := make(map[string][]string, len(groups))
	for _, g := range groups {
		byBase[g.Base] = g.Variables
	}

	rules := make([]types.Rule, 0, len(m.Rules))
	var errs []error
	for i, e := range m.Rules {
		r, err := buildEntry(e, byBase)
		if err != nil {
			errs = append(errs, fmt.Errorf("rule %d (%s): %w", i+1, e.Kind, err))
			continue
		}
		rules = append(rules, r)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return rules, nil
}

func buildEntry(e Entry, groups map[string][]string) (types.Rule, error) {
	switch e.Kind {
	case "range":
		if e.Min == nil || e.Max == nil {
			return nil, errors.New("range requires min and max")
		}
		return types.NewRangeRule(e.Variable, *e.Min, *e.Max, e.trigger())

	case "group_count":
		vars, err := e.members(groups)
		if err != nil {
			return nil, err
		}
		if e.MinCount == nil {
			return nil, errors.New("group_count requires min_count")
		}
		return types.NewGroupCountRule(vars, *e.MinCount, e.MaxCount)

	case "text_length":
		if e.MinLength == nil {
			return nil, errors.New("text_length requires min_length")
		}
		return types.NewTextLengthRule(e.Variable, *e.MinLength, e.Mandatory, e.trigger())

	case "straightline":
		vars, err := e.members(groups)
		if err != nil {
			return nil, err
		}
		return types.NewStraightlineRule(vars)

	case "skip":
		if e.TriggerVariable == "" {
			return nil, errors.New("skip requires trigger_variable and trigger_value")
		}
		return types.NewSkipRule(e.Target, types.Trigger{Variable: e.TriggerVariable, Value: e.TriggerValue})
	}
	return nil, fmt.Errorf("unknown rule kind %q", e.Kind)
}

// trigger returns the optional conditional trigger, nil when undeclared.
func (e Entry) trigger() *types.Trigger {
	if e.TriggerVariable == "" {
		return nil
	}
	return &types.Trigger{Variable: e.TriggerVariable, Value: e.TriggerValue}
}

// members resolves the group-shaped member list: exactly one of group or
// variables must be declared.
func (e Entry) members(groups map[string][]string) ([]string, error) {
	switch {
	case e.Group != "" && len(e.Variables) > 0:
		return nil, errors.New("declare either group or variables, not both")
	case e.Group != "":
		vars, ok := groups[e.Group]
		if !ok {
			return nil, fmt.Errorf("%w: %s", types.ErrUnknownGroup, e.Group)
		}
		return vars, nil
	case len(e.Variables) > 0:
		return e.Variables, nil
	}
	return nil, errors.New("declare group or variables")
}
