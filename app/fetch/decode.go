package fetch

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// DecodeText decodes export bytes as UTF-8, falling back to Latin-1 for the
// occasional legacy CSV.
func DecodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(decoded)
}

// UnwrapCSV extracts CSV text from an export payload that may be a ZIP
// archive. A *.csv entry is preferred; otherwise the first file is taken.
func UnwrapCSV(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return DecodeText(data), nil
	}

	var fallback *zip.File
	for _, f := range zr.File {
		if fallback == nil {
			fallback = f
		}
		if strings.HasSuffix(strings.ToLower(f.Name), ".csv") {
			return readZipFile(f)
		}
	}
	if fallback == nil {
		return "", fmt.Errorf("ZIP payload is empty")
	}
	return readZipFile(fallback)
}

func readZipFile(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open ZIP entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("failed to read ZIP entry %s: %w", f.Name, err)
	}
	return DecodeText(data), nil
}

// sniffDelimiter picks the delimiter that dominates the header line,
// supporting comma, tab and semicolon exports.
func sniffDelimiter(text string) rune {
	header, _, _ := strings.Cut(text, "\n")
	best := ','
	bestCount := strings.Count(header, ",")
	for _, cand := range []rune{'\t', ';'} {
		if n := strings.Count(header, string(cand)); n > bestCount {
			best, bestCount = cand, n
		}
	}
	return best
}

// ParseCSVTable parses CSV text into a header list and positional rows.
// Degenerate input (empty text, no header row, unreadable records) yields
// an empty table; absent values are a normal condition here, not an error.
func ParseCSVTable(text string) ([]string, [][]string) {
	text = strings.TrimPrefix(text, "\ufeff")
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = sniffDelimiter(text)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil || len(records) == 0 {
		return nil, nil
	}
	return records[0], records[1:]
}
