package fetch

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/msnews/leaderboard-comb/app/normalize"
	"github.com/msnews/leaderboard-comb/app/snapshot"
	"github.com/msnews/leaderboard-comb/app/sources"
)

// Codalab fetches official results from a CodaLab instance, either via the
// stable /results/<id>/data CSV export or via phase discovery on the
// competition JSON API.
type Codalab struct {
	client *Client
}

func NewCodalab(client *Client) *Codalab {
	return &Codalab{client: client}
}

// ResultsCSV fetches and normalizes the results CSV export. The payload
// may arrive ZIP-wrapped.
func (f *Codalab) ResultsCSV(ctx context.Context, src sources.Source) (*snapshot.Snapshot, error) {
	url := fmt.Sprintf("%s/competitions/%d/results/%d/data",
		strings.TrimSuffix(src.BaseURL, "/"), src.CompetitionID, src.ResultsID)

	raw, err := f.client.Get(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	csvText, err := UnwrapCSV(raw)
	if err != nil {
		return nil, err
	}

	headers, grid := ParseCSVTable(csvText)
	return &snapshot.Snapshot{
		Source:        src.Name,
		CompetitionID: src.CompetitionID,
		BaseURL:       src.BaseURL,
		ResultsURL:    src.ResultsURL,
		ResultsID:     src.ResultsID,
		FetchedAt:     snapshot.UTCNow(),
		Rows:          normalize.Rows(normalize.NewGrid(headers, grid)),
	}, nil
}

// LeaderboardAPI discovers the official phase through the competition API
// and normalizes its leaderboard data.
func (f *Codalab) LeaderboardAPI(ctx context.Context, src sources.Source, phaseRegex string) (*snapshot.Snapshot, error) {
	phases, err := f.fetchPhases(ctx, src)
	if err != nil {
		return nil, err
	}

	phase := pickPhase(phases, phaseRegex)
	phaseID := phaseIdentifier(phase)
	if phaseID == nil {
		return nil, fmt.Errorf("could not determine CodaLab phase id for competition %d", src.CompetitionID)
	}

	lb, err := f.fetchLeaderboardData(ctx, src, phaseID)
	if err != nil {
		return nil, err
	}

	return &snapshot.Snapshot{
		Source:        src.Name,
		CompetitionID: src.CompetitionID,
		BaseURL:       src.BaseURL,
		ResultsURL:    src.ResultsURL,
		Phase:         &snapshot.Phase{ID: phaseID, Raw: phase},
		FetchedAt:     snapshot.UTCNow(),
		Rows:          normalize.Rows(leaderboardRecords(lb)),
	}, nil
}

// fetchPhases tries both URL spellings CodaLab instances use and unwraps
// the common response envelopes.
func (f *Codalab) fetchPhases(ctx context.Context, src sources.Source) ([]map[string]any, error) {
	base := strings.TrimSuffix(src.BaseURL, "/")
	candidates := []string{
		fmt.Sprintf("%s/api/competition/%d/phases/", base, src.CompetitionID),
		fmt.Sprintf("%s/api/competitions/%d/phases/", base, src.CompetitionID),
	}

	var lastErr error
	for _, url := range candidates {
		var data any
		if err := f.client.GetJSON(ctx, url, &data); err != nil {
			lastErr = err
			continue
		}
		if phases := phaseList(data); phases != nil {
			return phases, nil
		}
		lastErr = fmt.Errorf("unexpected phases response shape from %s", url)
	}
	return nil, fmt.Errorf("failed to fetch CodaLab phases for %d: %w", src.CompetitionID, lastErr)
}

func phaseList(data any) []map[string]any {
	unwrap := func(items []any) []map[string]any {
		phases := make([]map[string]any, 0, len(items))
		for _, item := range items {
			if m, ok := item.(map[string]any); ok {
				phases = append(phases, m)
			}
		}
		return phases
	}

	switch v := data.(type) {
	case []any:
		return unwrap(v)
	case map[string]any:
		if items, ok := v["results"].([]any); ok {
			return unwrap(items)
		}
		if items, ok := v["phases"].([]any); ok {
			return unwrap(items)
		}
	}
	return nil
}

// pickPhase returns the first phase whose descriptive fields match the
// regex, falling back to the last phase, which is usually the final or
// official one.
func pickPhase(phases []map[string]any, phaseRegex string) map[string]any {
	rx, err := regexp.Compile(phaseRegex)
	if err == nil {
		for _, p := range phases {
			var parts []string
			for _, k := range []string{"label", "name", "title", "description"} {
				if s := stringValue(p[k]); s != "" {
					parts = append(parts, s)
				}
			}
			if rx.MatchString(strings.Join(parts, " ")) {
				return p
			}
		}
	}
	if len(phases) == 0 {
		return nil
	}
	return phases[len(phases)-1]
}

func phaseIdentifier(phase map[string]any) any {
	if phase == nil {
		return nil
	}
	for _, k := range []string{"id", "pk", "phase_id"} {
		if v, ok := phase[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func (f *Codalab) fetchLeaderboardData(ctx context.Context, src sources.Source, phaseID any) (map[string]any, error) {
	base := strings.TrimSuffix(src.BaseURL, "/")
	candidates := []string{
		fmt.Sprintf("%s/api/competition/%d/phases/%v/leaderboard/data", base, src.CompetitionID, phaseID),
		fmt.Sprintf("%s/api/competitions/%d/phases/%v/leaderboard/data", base, src.CompetitionID, phaseID),
	}

	var lastErr error
	for _, url := range candidates {
		var data map[string]any
		if err := f.client.GetJSON(ctx, url, &data); err != nil {
			lastErr = err
			continue
		}
		if _, ok := data["scores"]; ok {
			if _, ok := data["headers"]; ok {
				return data, nil
			}
		}
		lastErr = fmt.Errorf("unexpected leaderboard response shape from %s", url)
	}
	return nil, fmt.Errorf("failed to fetch CodaLab leaderboard data: %w", lastErr)
}

// leaderboardRecords flattens the API's headers+scores shape into
// field-keyed records so the shared row normalizer can consume it. Score
// entries are either [id, entry] pairs or entry objects; entry values line
// up with the header labels and are commonly {"val": ...}.
func leaderboardRecords(lb map[string]any) normalize.Table {
	var labels []string
	if hs, ok := lb["headers"].([]any); ok {
		for _, h := range hs {
			m, ok := h.(map[string]any)
			if !ok {
				continue
			}
			label := strings.TrimSpace(stringValue(m["label"]))
			if label == "" {
				label = strings.TrimSpace(stringValue(m["name"]))
			}
			labels = append(labels, label)
		}
	}

	headers := append([]string{"Team"}, labels...)
	headers = append(headers, "Submission date")
	var records []map[string]string

	scores, _ := lb["scores"].([]any)
	for _, s := range scores {
		var entry map[string]any
		switch v := s.(type) {
		case []any:
			if len(v) >= 2 {
				entry, _ = v[1].(map[string]any)
			}
		case map[string]any:
			entry = v
		}
		if entry == nil {
			continue
		}

		team := ""
		for _, k := range []string{"team_name", "team", "username", "user_name"} {
			if team = strings.TrimSpace(stringValue(entry[k])); team != "" {
				break
			}
		}

		record := map[string]string{"Team": team}
		values, _ := entry["values"].([]any)
		for i, label := range labels {
			if i >= len(values) {
				break
			}
			v := values[i]
			if m, ok := v.(map[string]any); ok {
				if val, ok := m["val"]; ok {
					v = val
				}
			}
			record[label] = stringValue(v)
		}

		for _, k := range []string{"submitted_at", "submission_date", "date"} {
			if s := stringValue(entry[k]); s != "" {
				record["Submission date"] = s
				break
			}
		}

		records = append(records, record)
	}

	return normalize.NewRecords(headers, records)
}

func stringValue(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprintf("%v", s)
	}
}
