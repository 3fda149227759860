package snapshot

import (
	"strings"
	"time"
)

// Row is one participant's result normalized to the canonical schema.
// Metric and date fields are nil when the source value was absent or
// unparseable; Source, CompetitionID, ResultsURL and Rank are stamped
// during combination only.
type Row struct {
	Team          string   `json:"team"`
	AUC           *float64 `json:"auc"`
	MRR           *float64 `json:"mrr"`
	NDCG5         *float64 `json:"ndcg5"`
	NDCG10        *float64 `json:"ndcg10"`
	DateISO       *string  `json:"date_iso"`
	DateDisplay   *string  `json:"date_display"`
	DateRaw       *string  `json:"date_raw,omitempty"`
	Source        string   `json:"source,omitempty"`
	CompetitionID int      `json:"competition_id,omitempty"`
	ResultsURL    string   `json:"results_url,omitempty"`
	Rank          int      `json:"rank,omitempty"`
}

// Phase records which competition sub-stage a snapshot was fetched from.
type Phase struct {
	ID  any            `json:"id"`
	Raw map[string]any `json:"raw,omitempty"`
}

// Snapshot is one source's cached or freshly fetched result set,
// pre-ranking.
type Snapshot struct {
	Source        string `json:"source"`
	CompetitionID int    `json:"competition_id"`
	BaseURL       string `json:"base_url"`
	ResultsURL    string `json:"results_url"`
	ResultsID     int    `json:"results_id,omitempty"`
	PhaseID       int    `json:"phase_id,omitempty"`
	Phase         *Phase `json:"phase,omitempty"`
	Method        string `json:"method,omitempty"`
	Note          string `json:"note,omitempty"`
	FetchedAt     string `json:"fetched_at"`
	Rows          []Row  `json:"rows"`
}

// IsPlaceholder reports whether the snapshot does not represent real
// fetched data: epoch timestamp, an explicit marker in the note, or no
// rows at all. These competitions are known to have results, so an empty
// row set can only be a seed.
func (s *Snapshot) IsPlaceholder() bool {
	if strings.HasPrefix(s.FetchedAt, "1970-01-01") {
		return true
	}
	if strings.Contains(strings.ToLower(s.Note), "placeholder") {
		return true
	}
	return len(s.Rows) == 0
}

// UTCNow returns the current UTC time at second precision, Z-suffixed.
func UTCNow() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05Z")
}
