package types

import "testing"

func TestNewIDsParseable(t *testing.T) {
	a := NewRuleSetID()
	b := NewRuleSetID()
	if a == b {
		t.Errorf("consecutive rule set ids collide: %s", a)
	}
	if _, err := ParseRuleSetID(string(a)); err != nil {
		t.Errorf("ParseRuleSetID(%s) error = %v", a, err)
	}
	if NewRunID() == "" {
		t.Error("NewRunID() returned empty id")
	}
}

func TestParseRuleSetID_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "empty", in: ""},
		{name: "not a uuid", in: "wave12"},
		{name: "truncated", in: "0190d3a8-9f2b-7c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseRuleSetID(tt.in); err == nil {
				t.Errorf("ParseRuleSetID(%q) accepted an invalid id", tt.in)
			}
		})
	}
}
