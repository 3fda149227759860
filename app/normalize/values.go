package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Words that leaderboard exports use for "no value".
var nullWords = map[string]struct{}{
	"na":   {},
	"n/a":  {},
	"none": {},
	"null": {},
	"-":    {},
}

var numberPattern = regexp.MustCompile(`[-+]?\d+(\.\d+)?`)

// ParseNumber extracts the first signed decimal numeral from free-form cell
// text, after stripping thousands separators. Returns nil for empty text,
// null words, or text without a numeral.
func ParseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, ok := nullWords[strings.ToLower(s)]; ok {
		return nil
	}
	s = strings.ReplaceAll(s, ",", "")
	m := numberPattern.FindString(s)
	if m == "" {
		return nil
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return nil
	}
	return &f
}

// ISO-8601 shapes tried before the display-format list.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Display formats seen in leaderboard exports.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"Jan 2, 2006",
	"Jan. 2, 2006",
	"January 2, 2006",
}

// The site abbreviates September as "Sept."; Go's reference layouts only
// know "Sep".
var septPattern = regexp.MustCompile(`\bSept\b`)

// ParseDate parses free-form date text: strict ISO-8601 first (trailing Z
// treated as UTC), then the fixed display-format list, then a tolerant
// last-resort parse. Returns nil when nothing matches.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}

	normalized := septPattern.ReplaceAllString(s, "Sep")
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, normalized); err == nil {
			return &t
		}
	}

	if t, err := dateparse.ParseAny(s); err == nil {
		return &t
	}

	return nil
}

// FormatDisplayDate renders a date in the site's style, e.g. "Oct. 05, 2021".
// September keeps the site's "Sept." abbreviation.
func FormatDisplayDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	mon := t.Format("Jan")
	if mon == "Sep" {
		mon = "Sept"
	}
	return fmt.Sprintf("%s. %02d, %04d", mon, t.Day(), t.Year())
}

// FormatISODate renders the date portion only, e.g. "2021-10-05".
func FormatISODate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
