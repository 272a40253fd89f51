package types

import "github.com/google/uuid"

// NewRuleSetID generates a UUIDv7 rule-set identifier.
// Time-ordered IDs ensure sequential inserts cluster in B-tree pages.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewRuleSetID() RuleSetID {
	return RuleSetID(uuid.Must(uuid.NewV7()).String())
}

// NewRunID generates a UUIDv7 run identifier.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewRunID() RunID {
	return RunID(uuid.Must(uuid.NewV7()).String())
}

// ParseRuleSetID validates and converts a string to RuleSetID.
// Rejects malformed UUIDs so a corrupted library row surfaces on load
// instead of flowing through as an opaque string.
func ParseRuleSetID(s string) (RuleSetID, error) {
	_, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return RuleSetID(s), nil
}
