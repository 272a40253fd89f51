// Package library persists named rule sets and the audit trail of generation
// runs. Storage goes through internal/core/db: sqlx over SQLite or
// PostgreSQL, dotsql named queries, checksummed embedded migrations.
package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/checkwright/checkwright/internal/core/db"
	"github.com/checkwright/checkwright/internal/manifest"
	"github.com/checkwright/checkwright/internal/types"
)

/*
 * Rule sets are immutable once saved: a name maps to exactly one definition
 * list, and changing rules means saving under a new name. This keeps every
 * recorded run traceable to the precise definitions it ran with.
 *
 * Rule rows store the manifest entry as JSON, so a saved rule set and a
 * manifest file carry identical definitions; `rules show` re-renders the
 * stored JSON as manifest YAML. Definitions are validated through the
 * rule constructors at build time, on load as on file parse.
 *
 * Timestamps: RFC3339 UTC text in SQLite (DATETIME affinity hands them back
 * as time values), native timestamp in PostgreSQL. Inserts branch on the
 * driver, reads scan uniformly into time.Time.
 */

// Store is the rule library.
type Store struct {
	db *sqlx.DB
	q  *db.Queries
}

// New wraps an open database. The caller owns the connection lifecycle.
func New(database *sqlx.DB) (*Store, error) {
	q, err := db.LoadQueries(database)
	if err != nil {
		return nil, err
	}
	return &Store{db: database, q: q}, nil
}

// RuleSetInfo is one row of `rules list`.
type RuleSetInfo struct {
	ID          types.RuleSetID `db:"ruleset_id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	CreatedAt   time.Time       `db:"created_at"`
	RuleCount   int             `db:"rule_count"`
}

// RuleSet is a loaded rule set: metadata plus definitions in position order.
type RuleSet struct {
	ID          types.RuleSetID
	Name        string
	Description string
	CreatedAt   time.Time
	Entries     []manifest.Entry
}

// Run is one recorded generation.
type Run struct {
	ID            types.RunID `db:"run_id"`
	RuleSetName   string      `db:"ruleset_name"`
	DatasetName   string      `db:"dataset_name"`
	VariableCount int         `db:"variable_count"`
	RuleCount     int         `db:"rule_count"`
	FlagCount     int         `db:"flag_count"`
	ScriptSHA256  string      `db:"script_sha256"`
	CreatedAt     time.Time   `db:"created_at"`
}

// SaveRuleSet stores the entries under name, atomically. A name can only be
// saved once (ErrRuleSetExists); immutability keeps runs traceable.
func (s *Store) SaveRuleSet(ctx context.Context, name, description string, entries []manifest.Entry) (types.RuleSetID, error) {
	if name == "" {
		return "", errors.New("rule set name must not be empty")
	}
	if len(entries) == 0 {
		return "", errors.New("rule set declares no rules")
	}

	getQ, err := s.q.Raw("get-ruleset-by-name")
	if err != nil {
		return "", err
	}
	insertSetQ, err := s.q.Raw("insert-ruleset")
	if err != nil {
		return "", err
	}
	insertRuleQ, err := s.q.Raw("insert-rule")
	if err != nil {
		return "", err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existing rulesetRow
	err = tx.GetContext(ctx, &existing, getQ, name)
	if err == nil {
		return "", fmt.Errorf("%w: %s", types.ErrRuleSetExists, name)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("failed to check rule set name: %w", err)
	}

	id := types.NewRuleSetID()
	if _, err := tx.ExecContext(ctx, insertSetQ, string(id), name, description, s.timestamp(time.Now())); err != nil {
		return "", fmt.Errorf("failed to insert rule set: %w", err)
	}

	for i, e := range entries {
		definition, err := json.Marshal(e)
		if err != nil {
			return "", fmt.Errorf("failed to encode rule %d: %w", i+1, err)
		}
		ruleID := uuid.Must(uuid.NewV7()).String()
		if _, err := tx.ExecContext(ctx, insertRuleQ, ruleID, string(id), i, e.Kind, string(definition)); err != nil {
			return "", fmt.Errorf("failed to insert rule %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit rule set: %w", err)
	}
	return id, nil
}

// GetRuleSet loads a rule set by name with definitions in position order.
func (s *Store) GetRuleSet(ctx context.Context, name string) (*RuleSet, error) {
	var row rulesetRow
	if err := s.q.Get(ctx, "get-ruleset-by-name", &row, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", types.ErrRuleSetNotFound, name)
		}
		return nil, fmt.Errorf("failed to load rule set: %w", err)
	}

	id, err := types.ParseRuleSetID(row.ID)
	if err != nil {
		return nil, fmt.Errorf("corrupt rule set id %q for %s: %w", row.ID, name, err)
	}

	var ruleRows []ruleRow
	if err := s.q.Select(ctx, "get-rules-for-ruleset", &ruleRows, row.ID); err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}

	rs := &RuleSet{
		ID:          id,
		Name:        row.Name,
		Description: row.Description,
		CreatedAt:   row.CreatedAt,
		Entries:     make([]manifest.Entry, 0, len(ruleRows)),
	}
	for _, r := range ruleRows {
		var e manifest.Entry
		if err := json.Unmarshal([]byte(r.Definition), &e); err != nil {
			return nil, fmt.Errorf("corrupt definition at position %d of %s: %w", r.Position, name, err)
		}
		rs.Entries = append(rs.Entries, e)
	}
	return rs, nil
}

// ListRuleSets returns all rule sets, oldest first.
func (s *Store) ListRuleSets(ctx context.Context) ([]RuleSetInfo, error) {
	var infos []RuleSetInfo
	if err := s.q.Select(ctx, "list-rulesets", &infos); err != nil {
		return nil, fmt.Errorf("failed to list rule sets: %w", err)
	}
	return infos, nil
}

// RecordRun appends one generation to the audit trail and returns its ID.
func (s *Store) RecordRun(ctx context.Context, run Run) (types.RunID, error) {
	id := types.NewRunID()
	_, err := s.q.Exec(ctx, "insert-run",
		string(id), run.RuleSetName, run.DatasetName,
		run.VariableCount, run.RuleCount, run.FlagCount,
		run.ScriptSHA256, s.timestamp(time.Now()))
	if err != nil {
		return "", fmt.Errorf("failed to record run: %w", err)
	}
	return id, nil
}

// ListRuns returns the newest runs first, at most limit.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []Run
	if err := s.q.Select(ctx, "list-runs", &runs, limit); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// timestamp renders a driver-appropriate created_at value.
func (s *Store) timestamp(t time.Time) any {
	if s.db.DriverName() == "sqlite3" {
		return t.UTC().Format(time.RFC3339)
	}
	return t.UTC()
}

type rulesetRow struct {
	ID          string    `db:"ruleset_id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

type ruleRow struct {
	ID         string `db:"rule_id"`
	Position   int    `db:"position"`
	Kind       string `db:"kind"`
	Definition string `db:"definition"`
}
