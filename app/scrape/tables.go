package scrape

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/msnews/leaderboard-comb/app/normalize"
)

// ErrNoResultsTable means no candidate table on the page had any rows.
var ErrNoResultsTable = errors.New("could not locate a results table on the page")

// Table is one candidate table extracted from a results page.
type Table struct {
	Headers []string
	Rows    [][]string
}

// The canonical metric headers a results table is expected to carry;
// candidates are scored by how many of these they match.
var metricKeys = []string{"auc", "mrr", "ndcg@5", "ndcg@10"}

// Extract parses page HTML and returns every table as a header/cell grid.
func Extract(html []byte) ([]Table, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page HTML: %w", err)
	}

	var tables []Table
	doc.Find("table").Each(func(_ int, sel *goquery.Selection) {
		var t Table
		sel.Find("thead th").Each(func(_ int, th *goquery.Selection) {
			t.Headers = append(t.Headers, strings.TrimSpace(th.Text()))
		})
		sel.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
			var row []string
			tr.Find("td").Each(func(_ int, td *goquery.Selection) {
				row = append(row, strings.TrimSpace(td.Text()))
			})
			t.Rows = append(t.Rows, row)
		})
		tables = append(tables, t)
	})
	return tables, nil
}

// SelectResultsTable picks the candidate with the most matched metric
// headers among tables that have at least one row.
func SelectResultsTable(tables []Table) (*Table, error) {
	var best *Table
	bestScore := -1
	for i := range tables {
		t := &tables[i]
		if len(t.Rows) == 0 {
			continue
		}
		score := 0
		for _, key := range metricKeys {
			kn := normalize.NormalizeKey(key)
			for _, h := range t.Headers {
				if strings.Contains(normalize.NormalizeKey(h), kn) {
					score++
					break
				}
			}
		}
		if score > bestScore {
			best, bestScore = t, score
		}
	}
	if best == nil {
		return nil, ErrNoResultsTable
	}
	return best, nil
}
