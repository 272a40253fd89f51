package rules

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/checkwright/checkwright/internal/types"
)

func TestFlagFor(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		kind   checkKind
		base   string
		want   types.FlagName
	}{
		{name: "range", prefix: "xx", kind: checkRange, base: "Q1", want: "xxQ1_Rng"},
		{name: "group min", prefix: "xx", kind: checkGroupMin, base: "Q5", want: "xxQ5_Min"},
		{name: "group max", prefix: "xx", kind: checkGroupMax, base: "Q5", want: "xxQ5_Max"},
		{name: "junk", prefix: "xx", kind: checkJunk, base: "Q10_other", want: "xxQ10_other_Junk"},
		{name: "mandatory", prefix: "xx", kind: checkMandatory, base: "Q10_other", want: "xxQ10_other_Miss"},
		{name: "straightline", prefix: "xx", kind: checkStraightline, base: "Q7", want: "xxQ7_Str"},
		{name: "skip terminal", prefix: "xx", kind: checkSkip, base: "Q8", want: "xxQ8"},
		{name: "skip indicator ignores prefix", prefix: "xx", kind: checkSkipIndicator, base: "Q8", want: "Flag_Q8"},
		{name: "custom prefix", prefix: "qc", kind: checkRange, base: "Q1", want: "qcQ1_Rng"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := flagFor(tt.prefix, tt.kind, tt.base); got != tt.want {
				t.Errorf("flagFor() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestBaseOf(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "grouped member", in: "Q5_1", want: "Q5"},
		{name: "no underscore", in: "Q1", want: "Q1"},
		{name: "multiple underscores take the first", in: "Q10_other_text", want: "Q10"},
		{name: "leading underscore gives empty base", in: "_hidden", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := baseOf(tt.in); got != tt.want {
				t.Errorf("baseOf(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCountVar(t *testing.T) {
	if got := countVar("Q5"); got != "Q5_Count" {
		t.Errorf("countVar() = %q, want Q5_Count", got)
	}
}

var allCheckKinds = []checkKind{
	checkRange, checkGroupMin, checkGroupMax, checkJunk,
	checkMandatory, checkStraightline, checkSkip, checkSkipIndicator,
}

// Property-based test: every kind produces a name, and distinct kinds never
// collide for the same prefix and base.
func TestFlagFor_PropertyDistinctPerKind(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("kinds map to distinct non-empty names", prop.ForAll(
		func(base string, prefix string) bool {
			seen := make(map[types.FlagName]bool)
			for _, kind := range allCheckKinds {
				name := flagFor(prefix, kind, base)
				if name == "" {
					return false
				}
				if seen[name] {
					return false
				}
				seen[name] = true
			}
			return true
		},
		gen.RegexMatch(`[A-Za-z][A-Za-z0-9]{0,8}`),
		gen.RegexMatch(`[a-z]{1,4}`),
	))

	properties.TestingRun(t)
}

// Property-based test: only the indicator kind escapes the configured prefix.
func TestFlagFor_PropertyPrefixRespected(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("non-indicator flags carry the prefix", prop.ForAll(
		func(base string, prefix string) bool {
			for _, kind := range allCheckKinds {
				name := string(flagFor(prefix, kind, base))
				if kind == checkSkipIndicator {
					if !strings.HasPrefix(name, "Flag_") {
						return false
					}
					continue
				}
				if !strings.HasPrefix(name, prefix) {
					return false
				}
			}
			return true
		},
		gen.RegexMatch(`[A-Za-z][A-Za-z0-9]{0,8}`),
		gen.RegexMatch(`[a-z]{1,4}`),
	))

	properties.TestingRun(t)
}

// Property-based test: baseOf is a prefix of its input and never contains an
// underscore.
func TestBaseOf_PropertyPrefixNoUnderscore(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("base is an underscore-free prefix", prop.ForAll(
		func(name string) bool {
			base := baseOf(name)
			return strings.HasPrefix(name, base) && !strings.Contains(base, "_")
		},
		gen.RegexMatch(`[A-Za-z0-9_]{0,16}`),
	))

	properties.TestingRun(t)
}
