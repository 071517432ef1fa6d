package cli

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatUSD formats a dollar amount with comma grouping and two
// decimal places.
func FormatUSD(amount float64) string {
	if math.IsNaN(amount) {
		return "n/a"
	}
	negative := amount < 0
	if negative {
		amount = -amount
	}
	result := "$" + humanize.CommafWithDigits(amount, 2)
	if negative {
		result = "-" + result
	}
	return result
}

// FormatVolume formats a USD volume in compact form for large values.
func FormatVolume(amount float64) string {
	if math.IsNaN(amount) {
		return "n/a"
	}
	abs := math.Abs(amount)
	switch {
	case abs >= 1e9:
		return fmt.Sprintf("$%.2fB", amount/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("$%.2fM", amount/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("$%.2fK", amount/1e3)
	}
	return FormatUSD(amount)
}

// FormatPercent formats a percentage value.
func FormatPercent(value float64) string {
	if math.IsNaN(value) {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", value)
}

// FormatSignedPercent formats a percentage with an explicit sign.
func FormatSignedPercent(value float64) string {
	if math.IsNaN(value) {
		return "n/a"
	}
	if value > 0 {
		return fmt.Sprintf("+%.1f%%", value)
	}
	return fmt.Sprintf("%.1f%%", value)
}

// FormatCount formats an integer count with comma grouping.
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// FormatQuantity formats a position size.
func FormatQuantity(qty float64) string {
	if math.IsNaN(qty) {
		return "n/a"
	}
	return humanize.CommafWithDigits(qty, 2)
}

// FormatDate formats a calendar date. Join dates are UTC days, so no
// timezone conversion is applied.
func FormatDate(t time.Time) string {
	return t.UTC().Format("02-Jan-2006")
}

// ParseDate parses a calendar-date flag value in 2006-01-02 form.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}
