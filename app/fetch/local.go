package fetch

import (
	"fmt"
	"os"

	"github.com/msnews/leaderboard-comb/app/normalize"
	"github.com/msnews/leaderboard-comb/app/snapshot"
	"github.com/msnews/leaderboard-comb/app/sources"
)

// LocalCSV builds a snapshot from a locally downloaded results CSV,
// avoiding network and TLS trouble entirely. The payload may be
// ZIP-wrapped, like the live export.
func LocalCSV(src sources.Source, path string) (*snapshot.Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read local CSV: %w", err)
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
		Note:          fmt.Sprintf("Loaded from local CSV: %s", path),
		FetchedAt:     snapshot.UTCNow(),
		Rows:          normalize.Rows(normalize.NewGrid(headers, grid)),
	}, nil
}
