package cli

import (
	"math"
	"strconv"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// parseUSD strips the currency formatting and parses the value back.
func parseUSD(s string) float64 {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "$", "")
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func TestUSDFormattingProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("FormatUSD carries the dollar sign and the sign of the amount", prop.ForAll(
		func(amount float64) bool {
			formatted := FormatUSD(amount)
			if amount >= 0 {
				return strings.HasPrefix(formatted, "$")
			}
			return strings.HasPrefix(formatted, "-$")
		},
		gen.Float64Range(-1e12, 1e12),
	))

	properties.Property("FormatUSD preserves the value to within a cent", prop.ForAll(
		func(amount float64) bool {
			parsed := parseUSD(FormatUSD(amount))
			return math.Abs(parsed-amount) < 0.011
		},
		gen.Float64Range(-1e9, 1e9),
	))

	properties.TestingRun(t)
}

func TestBarRenderingProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("Bar always renders exactly the requested width", prop.ForAll(
		func(value, max float64, width int) bool {
			return utf8.RuneCountInString(Bar(value, max, width)) == width
		},
		gen.Float64Range(0, 1e6),
		gen.Float64Range(0, 1e6),
		gen.IntRange(1, 120),
	))

	properties.Property("SplitBar always renders exactly the requested width", prop.ForAll(
		func(left, right, width int) bool {
			return utf8.RuneCountInString(SplitBar(left, right, width)) == width
		},
		gen.IntRange(0, 100000),
		gen.IntRange(0, 100000),
		gen.IntRange(1, 120),
	))

	properties.Property("SplitBar left segment grows with the left share", prop.ForAll(
		func(left, right int) bool {
			const width = 40
			bar := SplitBar(left, right, width)
			filled := strings.Count(bar, "█")
			total := left + right
			if total == 0 {
				return filled == 0
			}
			return filled == left*width/total
		},
		gen.IntRange(0, 100000),
		gen.IntRange(0, 100000),
	))

	properties.TestingRun(t)
}

func TestFormatEdgeCases(t *testing.T) {
	if got := FormatUSD(math.NaN()); got != "n/a" {
		t.Errorf("expected n/a for NaN, got %s", got)
	}
	if got := FormatPercent(math.NaN()); got != "n/a" {
		t.Errorf("expected n/a for NaN, got %s", got)
	}
	if got := FormatVolume(2_500_000); got != "$2.50M" {
		t.Errorf("expected $2.50M, got %s", got)
	}
	if got := FormatVolume(1_200); got != "$1.20K" {
		t.Errorf("expected $1.20K, got %s", got)
	}
	if got := FormatPercent(42.25); got != "42.2%" && got != "42.3%" {
		t.Errorf("unexpected percent formatting: %s", got)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2021-01-15")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.Hour() != 0 || d.Location() != d.UTC().Location() {
		t.Errorf("expected UTC midnight, got %v", d)
	}
	if FormatDate(d) != "15-Jan-2021" {
		t.Errorf("unexpected formatting: %s", FormatDate(d))
	}

	if _, err := ParseDate("15/01/2021"); err == nil {
		t.Error("expected error for malformed date")
	}
}
