package normalize

import (
	"testing"
	"time"
)

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1,234.5", 1234.5, true},
		{"0.6958", 0.6958, true},
		{"-0.5", -0.5, true},
		{"+12", 12, true},
		{"AUC: 0.69", 0.69, true},
		{"  0.7102  ", 0.7102, true},
		{"n/a", 0, false},
		{"NA", 0, false},
		{"none", 0, false},
		{"null", 0, false},
		{"-", 0, false},
		{"", 0, false},
		{"   ", 0, false},
		{"abc", 0, false},
	}

	for _, c := range cases {
		got := ParseNumber(c.in)
		if c.ok {
			if got == nil {
				t.Errorf("ParseNumber(%q) = nil, want %v", c.in, c.want)
			} else if *got != c.want {
				t.Errorf("ParseNumber(%q) = %v, want %v", c.in, *got, c.want)
			}
		} else if got != nil {
			t.Errorf("ParseNumber(%q) = %v, want nil", c.in, *got)
		}
	}
}

func TestParseDateISO(t *testing.T) {
	got := ParseDate("2021-10-05")
	if got == nil {
		t.Fatal("Expected 2021-10-05 to parse")
	}
	if got.Year() != 2021 || got.Month() != time.October || got.Day() != 5 {
		t.Errorf("Expected 2021-10-05, got: %v", got)
	}

	got = ParseDate("2021-10-05T14:30:00Z")
	if got == nil || got.Hour() != 14 {
		t.Errorf("Expected ISO datetime with Z to parse, got: %v", got)
	}
}

func TestParseDateCommonFormats(t *testing.T) {
	for _, in := range []string{
		"2021-10-05 14:30:00",
		"Oct 5, 2021",
		"Oct. 05, 2021",
		"October 5, 2021",
	} {
		got := ParseDate(in)
		if got == nil {
			t.Errorf("Expected %q to parse", in)
			continue
		}
		if got.Year() != 2021 || got.Month() != time.October || got.Day() != 5 {
			t.Errorf("ParseDate(%q) = %v, want October 5 2021", in, got)
		}
	}
}

func TestParseDateUnparseable(t *testing.T) {
	for _, in := range []string{"", "   ", "not a date"} {
		if got := ParseDate(in); got != nil {
			t.Errorf("ParseDate(%q) = %v, want nil", in, got)
		}
	}
}

func TestFormatDisplayDate(t *testing.T) {
	d := time.Date(2021, 10, 5, 0, 0, 0, 0, time.UTC)
	if got := FormatDisplayDate(&d); got != "Oct. 05, 2021" {
		t.Errorf("Expected 'Oct. 05, 2021', got: %q", got)
	}
	if got := FormatDisplayDate(nil); got != "" {
		t.Errorf("Expected empty display for nil date, got: %q", got)
	}
}

func TestSeptemberRoundTrip(t *testing.T) {
	got := ParseDate("Sept. 05, 2021")
	if got == nil {
		t.Fatal("Expected 'Sept. 05, 2021' to parse")
	}
	if got.Month() != time.September || got.Day() != 5 || got.Year() != 2021 {
		t.Fatalf("Expected September 5 2021, got: %v", got)
	}
	if display := FormatDisplayDate(got); display != "Sept. 05, 2021" {
		t.Errorf("Expected display to round-trip to 'Sept. 05, 2021', got: %q", display)
	}
}

func TestFormatISODate(t *testing.T) {
	d := time.Date(2021, 10, 5, 14, 30, 0, 0, time.UTC)
	if got := FormatISODate(&d); got != "2021-10-05" {
		t.Errorf("Expected '2021-10-05', got: %q", got)
	}
	if got := FormatISODate(nil); got != "" {
		t.Errorf("Expected empty ISO date for nil, got: %q", got)
	}
}
