package scrape

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/msnews/leaderboard-comb/app/normalize"
	"github.com/msnews/leaderboard-comb/app/snapshot"
)

// Bootstrap extracts the hard-coded leaderboard rows from the legacy
// index.html table. Best effort, used only to seed a cache when the
// upstream source cannot be reached; the displayed date text is preserved
// verbatim since the legacy markup carries no machine-readable date.
func Bootstrap(html []byte) ([]snapshot.Row, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, err
	}

	table := doc.Find("table.performanceTable").First()
	if table.Length() == 0 {
		return nil, nil
	}

	var rows []snapshot.Row
	table.Find("tr.leaderboardline, tr.leaderboardlinemask").Each(func(_ int, tr *goquery.Selection) {
		tds := tr.Find("td")
		if tds.Length() < 6 {
			return
		}

		team := strings.TrimSpace(tds.Eq(1).Text())
		if team == "" {
			return
		}

		date := strings.TrimSpace(tds.Eq(0).Find("span.date").Text())
		var datePtr *string
		if date != "" {
			datePtr = &date
		}

		rows = append(rows, snapshot.Row{
			Team:        team,
			AUC:         normalize.ParseNumber(tds.Eq(2).Text()),
			MRR:         normalize.ParseNumber(tds.Eq(3).Text()),
			NDCG5:       normalize.ParseNumber(tds.Eq(4).Text()),
			NDCG10:      normalize.ParseNumber(tds.Eq(5).Text()),
			DateRaw:     datePtr,
			DateDisplay: datePtr,
		})
	})
	return rows, nil
}
