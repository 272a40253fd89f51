package dataset

import (
	"strings"

	"github.com/checkwright/checkwright/internal/types"
)

// DetectGroups finds variable families sharing a leading name token, e.g.
// Q5_1..Q5_8 under base Q5. Members must contain an underscore (a bare Q5 is
// a standalone question, not a group member) and a base needs at least two
// members to count as a group. Groups appear in first-appearance order with
// members in column order. Base derivation mirrors the compiler's flag
// naming: the token before the first underscore.
func DetectGroups(vars []types.Variable) []types.VariableGroup {
	members := make(map[string][]string)
	var order []string
	for _, v := range vars {
		base, _, found := strings.Cut(v.Name, "_")
		if !found || base == "" {
			continue
		}
		if _, seen := members[base]; !seen {
			order = append(order, base)
		}
		members[base] = append(members[base], v.Name)
	}

	var groups []types.VariableGroup
	for _, base := range order {
		if len(members[base]) < 2 {
			continue
		}
		groups = append(groups, types.VariableGroup{Base: base, Variables: members[base]})
	}
	return groups
}
