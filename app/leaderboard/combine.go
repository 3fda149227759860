package leaderboard

import (
	"math"
	"sort"

	"github.com/msnews/leaderboard-comb/app/snapshot"
)

// SourceMeta records one source's contribution to a combined leaderboard.
type SourceMeta struct {
	Source        string `json:"source"`
	CompetitionID int    `json:"competition_id"`
	ResultsURL    string `json:"results_url"`
	FetchedAt     string `json:"fetched_at"`
}

// Combined is the terminal artifact of one run: every contributing
// source's rows, globally sorted, with dense 1-based ranks.
type Combined struct {
	GeneratedAt string         `json:"generated_at"`
	Sources     []SourceMeta   `json:"sources"`
	Rows        []snapshot.Row `json:"rows"`
}

// Combine merges the snapshots into one ranked leaderboard. Snapshots with
// zero rows are skipped (they contribute no metadata either) but never
// fail the merge. Apart from the generated_at stamp the result depends
// only on snapshot content, not arrival order.
func Combine(snaps []*snapshot.Snapshot) *Combined {
	combined := &Combined{
		GeneratedAt: snapshot.UTCNow(),
		Sources:     []SourceMeta{},
		Rows:        []snapshot.Row{},
	}

	for _, s := range snaps {
		if len(s.Rows) == 0 {
			continue
		}
		combined.Sources = append(combined.Sources, SourceMeta{
			Source:        s.Source,
			CompetitionID: s.CompetitionID,
			ResultsURL:    s.ResultsURL,
			FetchedAt:     s.FetchedAt,
		})
		for _, r := range s.Rows {
			r.Source = s.Source
			r.CompetitionID = s.CompetitionID
			r.ResultsURL = s.ResultsURL
			r.Rank = 0
			combined.Rows = append(combined.Rows, r)
		}
	}

	sort.SliceStable(combined.Rows, func(i, j int) bool {
		return rowLess(combined.Rows[i], combined.Rows[j])
	})
	for i := range combined.Rows {
		combined.Rows[i].Rank = i + 1
	}

	return combined
}

// metricValue treats a missing metric as negative infinity so rows without
// a score sink to the bottom.
func metricValue(v *float64) float64 {
	if v == nil {
		return math.Inf(-1)
	}
	return *v
}

// rowLess is a single reversed lexicographic order over
// (auc, mrr, ndcg5, ndcg10, team): descending on every component, team
// included, so full metric ties break reverse-alphabetically. The team
// direction matches the published artifact and is pinned by tests; do not
// flip it without versioning the output.
func rowLess(a, b snapshot.Row) bool {
	pairs := [4][2]*float64{
		{a.AUC, b.AUC},
		{a.MRR, b.MRR},
		{a.NDCG5, b.NDCG5},
		{a.NDCG10, b.NDCG10},
	}
	for _, p := range pairs {
		av, bv := metricValue(p[0]), metricValue(p[1])
		if av != bv {
			return av > bv
		}
	}
	return a.Team > b.Team
}
