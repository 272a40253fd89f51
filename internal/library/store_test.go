package library

import (
	"context"
	"errors"
	"testing"

	"github.com/checkwright/checkwright/internal/core/db"
	"github.com/checkwright/checkwright/internal/manifest"
	"github.com/checkwright/checkwright/internal/types"
)

// newTestStore opens a migrated in-memory library.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.Open("sqlite://:memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	if err := db.MigrateUp(database); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	s, err := New(database)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return s
}

func sampleEntries() []manifest.Entry {
	min, minLen := 1.0, 5
	return []manifest.Entry{
		{Kind: "range", Variable: "Q1", Min: &min, Max: f(5)},
		{Kind: "text_length", Variable: "Q10_other", MinLength: &minLen, Mandatory: true},
		{Kind: "skip", Target: "Q8_1", TriggerVariable: "Q6", TriggerValue: "2"},
	}
}

func f(v float64) *float64 { return &v }

func TestSaveAndGetRuleSet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.SaveRuleSet(ctx, "wave12", "tracker wave 12 checks", sampleEntries())
	if err != nil {
		t.Fatalf("SaveRuleSet() error = %v", err)
	}
	if id == "" {
		t.Fatal("SaveRuleSet() returned empty id")
	}

	rs, err := s.GetRuleSet(ctx, "wave12")
	if err != nil {
		t.Fatalf("GetRuleSet() error = %v", err)
	}
	if rs.ID != id {
		t.Errorf("ID = %s, want %s", rs.ID, id)
	}
	if rs.Description != "tracker wave 12 checks" {
		t.Errorf("Description = %q", rs.Description)
	}
	if len(rs.Entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(rs.Entries))
	}
	if rs.Entries[0].Kind != "range" || rs.Entries[0].Variable != "Q1" {
		t.Errorf("entry 0 = %+v, want range Q1", rs.Entries[0])
	}
	if rs.Entries[1].MinLength == nil || *rs.Entries[1].MinLength != 5 {
		t.Errorf("entry 1 min_length = %v, want 5", rs.Entries[1].MinLength)
	}
	if rs.Entries[2].TriggerValue != "2" {
		t.Errorf("entry 2 trigger value = %q, want 2", rs.Entries[2].TriggerValue)
	}
	if rs.CreatedAt.IsZero() {
		t.Error("CreatedAt not populated")
	}
}

func TestSaveRuleSet_DuplicateName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.SaveRuleSet(ctx, "wave12", "", sampleEntries()); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	_, err := s.SaveRuleSet(ctx, "wave12", "", sampleEntries())
	if !errors.Is(err, types.ErrRuleSetExists) {
		t.Errorf("second save error = %v, want ErrRuleSetExists", err)
	}
}

func TestSaveRuleSet_Invalid(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.SaveRuleSet(ctx, "", "", sampleEntries()); err == nil {
		t.Error("expected error for empty name")
	}
	if _, err := s.SaveRuleSet(ctx, "empty", "", nil); err == nil {
		t.Error("expected error for empty entry list")
	}
}

func TestGetRuleSet_CorruptID(t *testing.T) {
	s := newTestStore(t)

	// A row written by something other than SaveRuleSet: the id is not a
	// UUID, so the load must fail loudly instead of passing it through.
	_, err := s.db.Exec(
		"INSERT INTO rule_sets (ruleset_id, name, description, created_at) VALUES (?, ?, ?, ?)",
		"not-a-uuid", "broken", "", "2026-08-24T00:00:00Z")
	if err != nil {
		t.Fatalf("failed to seed row: %v", err)
	}

	if _, err := s.GetRuleSet(context.Background(), "broken"); err == nil {
		t.Error("GetRuleSet() accepted a corrupt rule set id")
	}
}

func TestGetRuleSet_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetRuleSet(context.Background(), "missing")
	if !errors.Is(err, types.ErrRuleSetNotFound) {
		t.Errorf("GetRuleSet() error = %v, want ErrRuleSetNotFound", err)
	}
}

func TestListRuleSets(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.SaveRuleSet(ctx, "alpha", "first", sampleEntries()); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SaveRuleSet(ctx, "beta", "second", sampleEntries()[:1]); err != nil {
		t.Fatal(err)
	}

	infos, err := s.ListRuleSets(ctx)
	if err != nil {
		t.Fatalf("ListRuleSets() error = %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("got %d rule sets, want 2", len(infos))
	}
	if infos[0].Name != "alpha" || infos[0].RuleCount != 3 {
		t.Errorf("infos[0] = %+v, want alpha with 3 rules", infos[0])
	}
	if infos[1].Name != "beta" || infos[1].RuleCount != 1 {
		t.Errorf("infos[1] = %+v, want beta with 1 rule", infos[1])
	}
}

func TestRecordAndListRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i, name := range []string{"first.csv", "second.csv", "third.csv"} {
		_, err := s.RecordRun(ctx, Run{
			RuleSetName:   "wave12",
			DatasetName:   name,
			VariableCount: 10 + i,
			RuleCount:     3,
			FlagCount:     5,
			ScriptSHA256:  "abc123",
		})
		if err != nil {
			t.Fatalf("RecordRun(%s) error = %v", name, err)
		}
	}

	runs, err := s.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2 (limit)", len(runs))
	}
	// Newest first: UUIDv7 run ids are time-ordered, so the tie on
	// created_at still resolves to insertion order.
	if runs[0].DatasetName != "third.csv" {
		t.Errorf("runs[0] = %s, want third.csv", runs[0].DatasetName)
	}
	if runs[1].DatasetName != "second.csv" {
		t.Errorf("runs[1] = %s, want second.csv", runs[1].DatasetName)
	}
	if runs[0].VariableCount != 12 {
		t.Errorf("VariableCount = %d, want 12", runs[0].VariableCount)
	}
}

func TestListRuns_DefaultLimit(t *testing.T) {
	s := newTestStore(t)
	runs, err := s.ListRuns(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("got %d runs on empty library, want 0", len(runs))
	}
}
