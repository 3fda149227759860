package leaderboard

import (
	"testing"

	"github.com/msnews/leaderboard-comb/app/snapshot"
)

func f(v float64) *float64 { return &v }

func metricRow(team string, auc, mrr, ndcg5, ndcg10 float64) snapshot.Row {
	return snapshot.Row{Team: team, AUC: f(auc), MRR: f(mrr), NDCG5: f(ndcg5), NDCG10: f(ndcg10)}
}

func TestCombineRanksAcrossSources(t *testing.T) {
	snaps := []*snapshot.Snapshot{
		{
			Source:        "codalab-old",
			CompetitionID: 24122,
			ResultsURL:    "https://competitions.codalab.org/competitions/24122#results",
			FetchedAt:     "2021-10-05T00:00:00Z",
			Rows: []snapshot.Row{
				metricRow("x-team", 0.90, 0.40, 0.40, 0.45),
			},
		},
		{
			Source:        "codabench",
			CompetitionID: 13955,
			ResultsURL:    "https://www.codabench.org/competitions/13955/",
			FetchedAt:     "2021-10-06T00:00:00Z",
			Rows: []snapshot.Row{
				metricRow("y-team", 0.95, 0.45, 0.42, 0.48),
			},
		},
		{
			// Placeholder with no rows contributes neither rows nor metadata.
			Source:    "codalab-new",
			FetchedAt: "1970-01-01T00:00:00Z",
		},
	}

	c := Combine(snaps)
	if len(c.Rows) != 2 {
		t.Fatalf("Expected 2 combined rows, got: %d", len(c.Rows))
	}
	if len(c.Sources) != 2 {
		t.Fatalf("Expected 2 contributing sources, got: %d", len(c.Sources))
	}
	for _, s := range c.Sources {
		if s.Source == "codalab-new" {
			t.Error("Expected empty snapshot to be omitted from sources")
		}
	}

	first, second := c.Rows[0], c.Rows[1]
	if first.Team != "y-team" || first.Rank != 1 {
		t.Errorf("Expected y-team at rank 1, got: %q rank %d", first.Team, first.Rank)
	}
	if second.Team != "x-team" || second.Rank != 2 {
		t.Errorf("Expected x-team at rank 2, got: %q rank %d", second.Team, second.Rank)
	}
	if first.Source != "codabench" || first.CompetitionID != 13955 {
		t.Errorf("Expected source stamped onto row, got: %q / %d", first.Source, first.CompetitionID)
	}
	if c.GeneratedAt == "" {
		t.Error("Expected a generated_at stamp")
	}
}

func TestCombineTieBreaksReverseAlphabetically(t *testing.T) {
	snaps := []*snapshot.Snapshot{{
		Source:    "codalab-old",
		FetchedAt: "2021-10-05T00:00:00Z",
		Rows: []snapshot.Row{
			metricRow("Alpha", 0.7, 0.3, 0.3, 0.4),
			metricRow("Beta", 0.7, 0.3, 0.3, 0.4),
		},
	}}

	c := Combine(snaps)
	if len(c.Rows) != 2 {
		t.Fatalf("Expected 2 rows, got: %d", len(c.Rows))
	}
	if c.Rows[0].Team != "Beta" {
		t.Errorf("Expected Beta above Alpha on a full metric tie, got: %q first", c.Rows[0].Team)
	}
}

func TestCombineMissingMetricsSink(t *testing.T) {
	snaps := []*snapshot.Snapshot{{
		Source:    "codalab-old",
		FetchedAt: "2021-10-05T00:00:00Z",
		Rows: []snapshot.Row{
			{Team: "no-scores"},
			metricRow("scored", 0.1, 0.1, 0.1, 0.1),
		},
	}}

	c := Combine(snaps)
	if c.Rows[0].Team != "scored" {
		t.Errorf("Expected scored row first, got: %q", c.Rows[0].Team)
	}
	if c.Rows[1].Team != "no-scores" || c.Rows[1].Rank != 2 {
		t.Errorf("Expected metric-less row last at rank 2, got: %q rank %d", c.Rows[1].Team, c.Rows[1].Rank)
	}
}

func TestCombineSecondaryMetricOrder(t *testing.T) {
	snaps := []*snapshot.Snapshot{{
		Source:    "codalab-old",
		FetchedAt: "2021-10-05T00:00:00Z",
		Rows: []snapshot.Row{
			metricRow("low-mrr", 0.7, 0.30, 0.5, 0.5),
			metricRow("high-mrr", 0.7, 0.35, 0.1, 0.1),
		},
	}}

	c := Combine(snaps)
	if c.Rows[0].Team != "high-mrr" {
		t.Errorf("Expected MRR to break the AUC tie, got: %q first", c.Rows[0].Team)
	}
}

func TestCombineDeterministic(t *testing.T) {
	snaps := []*snapshot.Snapshot{{
		Source:    "codalab-old",
		FetchedAt: "2021-10-05T00:00:00Z",
		Rows: []snapshot.Row{
			metricRow("a", 0.7, 0.3, 0.3, 0.4),
			metricRow("b", 0.9, 0.4, 0.4, 0.5),
			metricRow("c", 0.8, 0.35, 0.35, 0.45),
		},
	}}

	first := Combine(snaps)
	second := Combine(snaps)
	if len(first.Rows) != len(second.Rows) {
		t.Fatalf("Expected identical row counts, got: %d and %d", len(first.Rows), len(second.Rows))
	}
	for i := range first.Rows {
		if first.Rows[i].Team != second.Rows[i].Team || first.Rows[i].Rank != second.Rows[i].Rank {
			t.Errorf("Row %d differs between runs: %q/%d vs %q/%d", i,
				first.Rows[i].Team, first.Rows[i].Rank,
				second.Rows[i].Team, second.Rows[i].Rank)
		}
	}
}

func TestCombineEmptyInput(t *testing.T) {
	c := Combine(nil)
	if c.Rows == nil || len(c.Rows) != 0 {
		t.Errorf("Expected empty (non-nil) rows, got: %v", c.Rows)
	}
	if c.Sources == nil || len(c.Sources) != 0 {
		t.Errorf("Expected empty (non-nil) sources, got: %v", c.Sources)
	}
}
