package database

import (
	"context"
	"testing"
	"time"

	"github.com/nao1215/torlook/internal/model"
)

func openTestDB(t *testing.T) *CheckDB {
	t.Helper()

	cdb, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := cdb.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return cdb
}

func sampleResult(source string, outcome model.Outcome) *model.CheckResult {
	result := model.NewCheckResult(source)
	result.Schema = "ip-port"
	result.Target = "8.8.8.8:53"
	result.SetOutcome(outcome)
	if outcome == model.OutcomeExitNode {
		result.Answer = "127.0.0.2"
	}
	return result
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database when allowed", func(t *testing.T) {
		t.Parallel()

		cdb, err := Open(t.TempDir(), DefaultOptions())
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer cdb.Close()
	})

	t.Run("rejects missing database when creation disabled", func(t *testing.T) {
		t.Parallel()

		opts := Options{CreateIfNotExists: false}
		if _, err := Open(t.TempDir(), opts); err == nil {
			t.Error("Open() expected error for missing database, got nil")
		}
	})

	t.Run("reopens existing database when creation disabled", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cdb, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		if err := cdb.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}

		reopened, err := Open(dir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("Open() reopen error = %v", err)
		}
		defer reopened.Close()
	})
}

func TestSaveAndGetLatestResult(t *testing.T) {
	t.Parallel()

	cdb := openTestDB(t)
	ctx := context.Background()

	t.Run("unknown source returns nil", func(t *testing.T) {
		result, err := cdb.GetLatestResult(ctx, "203.0.113.1")
		if err != nil {
			t.Fatalf("GetLatestResult() error = %v", err)
		}
		if result != nil {
			t.Errorf("GetLatestResult() = %+v, want nil", result)
		}
	})

	t.Run("round trip preserves fields", func(t *testing.T) {
		saved := sampleResult("198.51.100.7", model.OutcomeExitNode)
		if _, err := cdb.SaveResult(ctx, saved); err != nil {
			t.Fatalf("SaveResult() error = %v", err)
		}

		got, err := cdb.GetLatestResult(ctx, "198.51.100.7")
		if err != nil {
			t.Fatalf("GetLatestResult() error = %v", err)
		}
		if got == nil {
			t.Fatal("GetLatestResult() = nil, want result")
		}
		if got.Source != saved.Source {
			t.Errorf("Source = %q, want %q", got.Source, saved.Source)
		}
		if got.Target != saved.Target {
			t.Errorf("Target = %q, want %q", got.Target, saved.Target)
		}
		if got.Schema != saved.Schema {
			t.Errorf("Schema = %q, want %q", got.Schema, saved.Schema)
		}
		if got.Outcome != model.OutcomeExitNode {
			t.Errorf("Outcome = %v, want %v", got.Outcome, model.OutcomeExitNode)
		}
		if got.Answer != "127.0.0.2" {
			t.Errorf("Answer = %q, want %q", got.Answer, "127.0.0.2")
		}
		if got.CheckedAt.IsZero() {
			t.Error("CheckedAt is zero, want stored timestamp")
		}
	})

	t.Run("latest wins among multiple checks", func(t *testing.T) {
		first := sampleResult("192.0.2.9", model.OutcomeNotExitNode)
		first.CheckedAt = time.Now().Add(-time.Hour)
		if _, err := cdb.SaveResult(ctx, first); err != nil {
			t.Fatalf("SaveResult() error = %v", err)
		}

		second := sampleResult("192.0.2.9", model.OutcomeExitNode)
		if _, err := cdb.SaveResult(ctx, second); err != nil {
			t.Fatalf("SaveResult() error = %v", err)
		}

		got, err := cdb.GetLatestResult(ctx, "192.0.2.9")
		if err != nil {
			t.Fatalf("GetLatestResult() error = %v", err)
		}
		if got.Outcome != model.OutcomeExitNode {
			t.Errorf("Outcome = %v, want latest %v", got.Outcome, model.OutcomeExitNode)
		}
	})
}

func TestGetHistory(t *testing.T) {
	t.Parallel()

	cdb := openTestDB(t)
	ctx := context.Background()

	base := time.Now().Add(-3 * time.Hour)
	outcomes := []model.Outcome{
		model.OutcomeNotExitNode,
		model.OutcomeIndeterminate,
		model.OutcomeExitNode,
	}
	for i, outcome := range outcomes {
		result := sampleResult("192.0.2.44", outcome)
		result.CheckedAt = base.Add(time.Duration(i) * time.Hour)
		if _, err := cdb.SaveResult(ctx, result); err != nil {
			t.Fatalf("SaveResult() error = %v", err)
		}
	}

	t.Run("returns newest first", func(t *testing.T) {
		history, err := cdb.GetHistory(ctx, "192.0.2.44", 0)
		if err != nil {
			t.Fatalf("GetHistory() error = %v", err)
		}
		if len(history) != 3 {
			t.Fatalf("GetHistory() returned %d results, want 3", len(history))
		}
		if history[0].Outcome != model.OutcomeExitNode {
			t.Errorf("history[0].Outcome = %v, want %v", history[0].Outcome, model.OutcomeExitNode)
		}
		if history[2].Outcome != model.OutcomeNotExitNode {
			t.Errorf("history[2].Outcome = %v, want %v", history[2].Outcome, model.OutcomeNotExitNode)
		}
	})

	t.Run("respects limit", func(t *testing.T) {
		history, err := cdb.GetHistory(ctx, "192.0.2.44", 2)
		if err != nil {
			t.Fatalf("GetHistory() error = %v", err)
		}
		if len(history) != 2 {
			t.Errorf("GetHistory() returned %d results, want 2", len(history))
		}
	})

	t.Run("unknown source returns empty history", func(t *testing.T) {
		history, err := cdb.GetHistory(ctx, "203.0.113.99", 0)
		if err != nil {
			t.Fatalf("GetHistory() error = %v", err)
		}
		if len(history) != 0 {
			t.Errorf("GetHistory() returned %d results, want 0", len(history))
		}
	})
}

func TestHasRecentCheck(t *testing.T) {
	t.Parallel()

	cdb := openTestDB(t)
	ctx := context.Background()

	result := sampleResult("198.51.100.20", model.OutcomeExitNode)
	if _, err := cdb.SaveResult(ctx, result); err != nil {
		t.Fatalf("SaveResult() error = %v", err)
	}

	recent, err := cdb.HasRecentCheck(ctx, "198.51.100.20", time.Hour)
	if err != nil {
		t.Fatalf("HasRecentCheck() error = %v", err)
	}
	if !recent {
		t.Error("HasRecentCheck() = false, want true for fresh result")
	}

	recent, err = cdb.HasRecentCheck(ctx, "203.0.113.200", time.Hour)
	if err != nil {
		t.Fatalf("HasRecentCheck() error = %v", err)
	}
	if recent {
		t.Error("HasRecentCheck() = true, want false for unchecked source")
	}
}

func TestListCheckedSources(t *testing.T) {
	t.Parallel()

	cdb := openTestDB(t)
	ctx := context.Background()

	for _, source := range []string{"192.0.2.2", "192.0.2.1", "192.0.2.2"} {
		if _, err := cdb.SaveResult(ctx, sampleResult(source, model.OutcomeNotExitNode)); err != nil {
			t.Fatalf("SaveResult() error = %v", err)
		}
	}

	sources, err := cdb.ListCheckedSources(ctx)
	if err != nil {
		t.Fatalf("ListCheckedSources() error = %v", err)
	}
	want := []string{"192.0.2.1", "192.0.2.2"}
	if len(sources) != len(want) {
		t.Fatalf("ListCheckedSources() = %v, want %v", sources, want)
	}
	for i := range want {
		if sources[i] != want[i] {
			t.Errorf("sources[%d] = %q, want %q", i, sources[i], want[i])
		}
	}
}
