package leaderboard

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/msnews/leaderboard-comb/app/snapshot"
)

// DefaultJSGlobal is the window global the site's fallback script expects.
const DefaultJSGlobal = "MIND_LEADERBOARD"

// MarshalCanonical serializes the leaderboard with keys sorted, 2-space
// indent and a trailing newline. This is the durable artifact consumed by
// index.html's fetch path.
func (c *Combined) MarshalCanonical() ([]byte, error) {
	data, err := snapshot.MarshalSorted(c, "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// RenderJS renders a single-line script assigning the payload to a window
// global, so the site works when index.html is opened via file:// and
// fetch() is unavailable.
func RenderJS(c *Combined, globalName string) ([]byte, error) {
	if globalName == "" {
		globalName = DefaultJSGlobal
	}
	payload, err := snapshot.MarshalSorted(c, "")
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("window.%s = %s;\n", globalName, payload)), nil
}

func fmtMetric(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.4f", *v)
}

// Markers identifying the leaderboard region of index.html.
const (
	sectionAnchor = `<h1 id="leaderboard">`
	tableMarker   = `<table class="table performanceTable"`
)

// Legacy script block previously injected right after the table; removed
// on every render so repeated injections never accumulate.
var injectedScriptPattern = regexp.MustCompile(
	`\s*<script\s+src="\./assets/data/leaderboard\.js"></script>\s*<script[\s\S]*?</script>`)

// RenderTableHTML renders the full leaderboard table in the legacy
// index.html markup: alternating row classes, rank+date cell, team cell
// and four bolded metric cells formatted to 4 decimal places.
func RenderTableHTML(rows []snapshot.Row) string {
	var buf bytes.Buffer

	writeLine := func(indent int, s string) {
		buf.WriteString(strings.Repeat(" ", indent))
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLine(24, `<table class="table performanceTable">`)
	writeLine(28, `<tr class='leaderboardhead'>`)
	for _, th := range []string{"Rank", "Team", "AUC", "MRR", "nDCG@5", "nDCG@10"} {
		writeLine(32, "<th>")
		writeLine(36, th)
		writeLine(32, "</th>")
	}
	writeLine(28, "</tr>")

	for i, r := range rows {
		cls := "leaderboardline"
		if i%2 == 1 {
			cls = "leaderboardlinemask"
		}
		rank := r.Rank
		if rank == 0 {
			rank = i + 1
		}
		date := ""
		if r.DateDisplay != nil {
			date = *r.DateDisplay
		} else if r.DateRaw != nil {
			date = *r.DateRaw
		}

		writeLine(28, fmt.Sprintf("<tr class='%s'>", cls))
		writeLine(32, "<td>")
		writeLine(36, `<p class="word-break2">`)
		writeLine(40, fmt.Sprintf("%d", rank))
		writeLine(36, fmt.Sprintf(`</p><span class="date label label-default">%s</span>`, date))
		writeLine(32, "</td>")
		writeLine(32, `<td class="word-break">`)
		writeLine(36, r.Team)
		writeLine(32, "</td>")
		for _, metric := range []*float64{r.AUC, r.MRR, r.NDCG5, r.NDCG10} {
			writeLine(32, `<td class="word-break">`)
			writeLine(36, fmt.Sprintf("<b>%s</b>", fmtMetric(metric)))
			writeLine(32, "</td>")
		}
		writeLine(28, "</tr>")
	}

	buf.WriteString(strings.Repeat(" ", 24))
	buf.WriteString("</table>")
	return buf.String()
}

// InjectIndexHTML replaces the leaderboard table rows inside the marked
// region of the document, leaving everything outside the table untouched
// structurally, and strips any previously injected companion script block.
// Re-rendering the same leaderboard is byte-stable.
func InjectIndexHTML(html string, c *Combined) (string, error) {
	anchor := strings.Index(html, sectionAnchor)
	if anchor == -1 {
		return "", fmt.Errorf("could not find leaderboard section in index.html")
	}

	tableStart := strings.Index(html[anchor:], tableMarker)
	if tableStart == -1 {
		return "", fmt.Errorf("could not find leaderboard table in index.html")
	}
	tableStart += anchor

	// Replace from the beginning of the line to avoid doubling indentation.
	replaceStart := tableStart
	if lineStart := strings.LastIndex(html[:tableStart], "\n"); lineStart != -1 {
		replaceStart = lineStart + 1
	}

	tableEnd := strings.Index(html[tableStart:], "</table>")
	if tableEnd == -1 {
		return "", fmt.Errorf("could not find end of leaderboard table in index.html")
	}
	tableEnd += tableStart + len("</table>")

	out := html[:replaceStart] + RenderTableHTML(c.Rows) + html[tableEnd:]

	if loc := injectedScriptPattern.FindStringIndex(out); loc != nil {
		out = out[:loc[0]] + out[loc[1]:]
	}

	return out, nil
}
