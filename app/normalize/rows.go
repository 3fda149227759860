package normalize

import (
	"strings"
	"time"

	"github.com/msnews/leaderboard-comb/app/snapshot"
)

// Table is a uniform view over one source's raw tabular data. CSV exports,
// JSON records and scraped cell grids all reduce to this; Rows is the one
// normalization algorithm shared by every adapter.
type Table interface {
	Headers() []string
	Len() int
	// Cell returns the text at (row, header), "" when the header is
	// unresolved or the row is ragged.
	Cell(row int, header string) string
}

// Grid adapts positional rows aligned to a header list.
type Grid struct {
	headers []string
	index   map[string]int
	rows    [][]string
}

func NewGrid(headers []string, rows [][]string) *Grid {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, ok := index[h]; !ok {
			index[h] = i
		}
	}
	return &Grid{headers: headers, index: index, rows: rows}
}

func (g *Grid) Headers() []string { return g.headers }

func (g *Grid) Len() int { return len(g.rows) }

func (g *Grid) Cell(row int, header string) string {
	if header == "" || row < 0 || row >= len(g.rows) {
		return ""
	}
	i, ok := g.index[header]
	if !ok || i >= len(g.rows[row]) {
		return ""
	}
	return g.rows[row][i]
}

// Records adapts field-keyed rows, e.g. records from a JSON API.
type Records struct {
	headers []string
	rows    []map[string]string
}

func NewRecords(headers []string, rows []map[string]string) *Records {
	return &Records{headers: headers, rows: rows}
}

func (r *Records) Headers() []string { return r.headers }

func (r *Records) Len() int { return len(r.rows) }

func (r *Records) Cell(row int, header string) string {
	if header == "" || row < 0 || row >= len(r.rows) {
		return ""
	}
	return r.rows[row][header]
}

// Rows converts a raw table into canonical rows. Columns are resolved once
// per table; rows whose team cell is empty after trimming are dropped;
// input row order is preserved. Degenerate input (no headers, no rows)
// yields an empty set rather than an error.
func Rows(t Table) []snapshot.Row {
	headers := t.Headers()
	if len(headers) == 0 || t.Len() == 0 {
		return nil
	}

	teamCol := ResolveColumn(headers, TeamColumns)
	dateCol := ResolveColumn(headers, DateColumns)
	aucCol := ResolveColumn(headers, AUCColumns)
	mrrCol := ResolveColumn(headers, MRRColumns)
	ndcg5Col := ResolveColumn(headers, NDCG5Columns)
	ndcg10Col := ResolveColumn(headers, NDCG10Columns)

	var rows []snapshot.Row
	for i := 0; i < t.Len(); i++ {
		team := strings.TrimSpace(t.Cell(i, teamCol))
		if team == "" {
			continue
		}

		rawDate := strings.TrimSpace(t.Cell(i, dateCol))
		var dt *time.Time
		if rawDate != "" {
			dt = ParseDate(rawDate)
		}

		display := FormatDisplayDate(dt)
		if display == "" {
			display = rawDate
		}

		rows = append(rows, snapshot.Row{
			Team:        team,
			AUC:         ParseNumber(t.Cell(i, aucCol)),
			MRR:         ParseNumber(t.Cell(i, mrrCol)),
			NDCG5:       ParseNumber(t.Cell(i, ndcg5Col)),
			NDCG10:      ParseNumber(t.Cell(i, ndcg10Col)),
			DateISO:     optional(FormatISODate(dt)),
			DateDisplay: optional(display),
			DateRaw:     optional(rawDate),
		})
	}
	return rows
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
