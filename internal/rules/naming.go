// internal/rules/naming.go
package rules

/*
 * Flag naming.
 *
 * flagFor is the single naming authority: every generated identifier flows
 * through it, so no two semantic checks can collide on a name and tests can
 * pin the scheme in one place. Base derivation (token before the first
 * underscore) is a naming convenience only and never affects check logic.
 */

import (
	"strings"

	"github.com/checkwright/checkwright/internal/types"
)

// checkKind enumerates every flag-producing check.
type checkKind int

const (
	checkRange checkKind = iota
	checkGroupMin
	checkGroupMax
	checkJunk
	checkMandatory
	checkStraightline
	checkSkip
	checkSkipIndicator
)

// flagFor derives the flag name for one check on one base identifier.
// base is the full variable name for per-variable checks and the group base
// for group-shaped checks (group count, straightline, skip).
func flagFor(prefix string, kind checkKind, base string) types.FlagName {
	switch kind {
	case checkRange:
		return types.FlagName(prefix + base + "_Rng")
	case checkGroupMin:
		return types.FlagName(prefix + base + "_Min")
	case checkGroupMax:
		return types.FlagName(prefix + base + "_Max")
	case checkJunk:
		return types.FlagName(prefix + base + "_Junk")
	case checkMandatory:
		return types.FlagName(prefix + base + "_Miss")
	case checkStraightline:
		return types.FlagName(prefix + base + "_Str")
	case checkSkipIndicator:
		return types.FlagName("Flag_" + base)
	}
	// checkSkip: the terminal skip flag carries no suffix.
	return types.FlagName(prefix + base)
}

// countVar names the derived selection-count variable for a group. Not a
// flag: it carries the raw count for inspection, so it takes no prefix.
func countVar(base string) string {
	return base + "_Count"
}

// baseOf returns the token before the first underscore, or the whole name
// when no underscore exists.
func baseOf(name string) string {
	base, _, _ := strings.Cut(name, "_")
	return base
}
