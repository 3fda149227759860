package snapshot

import (
	"os"
	"strings"
	"testing"
)

func testSnapshot() *Snapshot {
	auc := 0.7102
	return &Snapshot{
		Source:        "codalab-old",
		CompetitionID: 24122,
		BaseURL:       "https://competitions.codalab.org",
		ResultsURL:    "https://competitions.codalab.org/competitions/24122#results",
		ResultsID:     40019,
		FetchedAt:     "2021-10-05T14:30:00Z",
		Rows: []Row{
			{Team: "alpha", AUC: &auc},
		},
	}
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	if store.Exists("codalab-old") {
		t.Fatal("Expected no cache before save")
	}

	if err := store.Save("codalab-old", testSnapshot()); err != nil {
		t.Fatalf("Expected save to succeed, got error: %v", err)
	}
	if !store.Exists("codalab-old") {
		t.Fatal("Expected cache to exist after save")
	}

	loaded, err := store.Load("codalab-old")
	if err != nil {
		t.Fatalf("Expected load to succeed, got error: %v", err)
	}
	if loaded == nil {
		t.Fatal("Expected a snapshot, got nil")
	}
	if loaded.Source != "codalab-old" || loaded.CompetitionID != 24122 {
		t.Errorf("Unexpected snapshot identity: %+v", loaded)
	}
	if len(loaded.Rows) != 1 || loaded.Rows[0].Team != "alpha" {
		t.Errorf("Unexpected rows: %+v", loaded.Rows)
	}
	if loaded.Rows[0].AUC == nil || *loaded.Rows[0].AUC != 0.7102 {
		t.Errorf("Expected AUC 0.7102, got: %v", loaded.Rows[0].AUC)
	}
}

func TestStoreLoadMissing(t *testing.T) {
	store := NewStore(t.TempDir())

	snap, err := store.Load("nope")
	if err != nil {
		t.Fatalf("Expected no error for missing cache, got: %v", err)
	}
	if snap != nil {
		t.Errorf("Expected nil snapshot for missing cache, got: %+v", snap)
	}
}

func TestStoreFileFormat(t *testing.T) {
	store := NewStore(t.TempDir())
	if err := store.Save("codalab-old", testSnapshot()); err != nil {
		t.Fatalf("Expected save to succeed, got error: %v", err)
	}

	data, err := os.ReadFile(store.Path("codalab-old"))
	if err != nil {
		t.Fatalf("Expected to read snapshot file, got error: %v", err)
	}
	text := string(data)

	if !strings.HasSuffix(text, "\n") {
		t.Error("Expected trailing newline")
	}
	if !strings.Contains(text, "  \"base_url\"") {
		t.Error("Expected 2-space indentation")
	}

	// Top-level keys come out sorted.
	keys := []string{"\"base_url\"", "\"competition_id\"", "\"fetched_at\"", "\"results_id\"", "\"results_url\"", "\"rows\"", "\"source\""}
	last := -1
	for _, k := range keys {
		i := strings.Index(text, k)
		if i < 0 {
			t.Fatalf("Expected key %s in output", k)
		}
		if i < last {
			t.Errorf("Expected key %s to appear after previous key, output not sorted", k)
		}
		last = i
	}
}

func TestMarshalSortedCompact(t *testing.T) {
	out, err := MarshalSorted(map[string]int{"b": 2, "a": 1}, "")
	if err != nil {
		t.Fatalf("Expected marshal to succeed, got error: %v", err)
	}
	if string(out) != `{"a":1,"b":2}` {
		t.Errorf("Expected compact sorted output, got: %s", out)
	}
}

func TestIsPlaceholder(t *testing.T) {
	cases := []struct {
		name string
		snap Snapshot
		want bool
	}{
		{"epoch timestamp", Snapshot{FetchedAt: "1970-01-01T00:00:00Z", Rows: []Row{{Team: "x"}}}, true},
		{"placeholder note", Snapshot{FetchedAt: "2021-10-05T00:00:00Z", Note: "Placeholder seed", Rows: []Row{{Team: "x"}}}, true},
		{"no rows", Snapshot{FetchedAt: "2021-10-05T00:00:00Z"}, true},
		{"real data", Snapshot{FetchedAt: "2021-10-05T00:00:00Z", Rows: []Row{{Team: "x"}}}, false},
	}
	for _, c := range cases {
		if got := c.snap.IsPlaceholder(); got != c.want {
			t.Errorf("%s: IsPlaceholder() = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestUTCNowFormat(t *testing.T) {
	now := UTCNow()
	if len(now) != len("2006-01-02T15:04:05Z") || !strings.HasSuffix(now, "Z") {
		t.Errorf("Expected Z-suffixed second-precision timestamp, got: %q", now)
	}
}
