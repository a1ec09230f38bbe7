package flightcsv

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Parsers for the raw string fields of a flight CSV row. The feed formats
// prices as "$1,234.00", durations as "5h 30m" and stops as "nonstop",
// "1 stop" or "2 stops".

var (
	hoursRe   = regexp.MustCompile(`(\d+)h`)
	minutesRe = regexp.MustCompile(`(\d+)m`)
	digitsRe  = regexp.MustCompile(`\d+`)
)

// DateLayout is the date format used by flight CSV files.
const DateLayout = "2006-01-02"

// ParsePrice extracts a numeric price from a formatted price string.
func ParsePrice(s string) (float64, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", s, err)
	}
	return price, nil
}

// ParseDuration converts a duration string like "5h 30m" to minutes.
// Unparseable input yields 0.
func ParseDuration(s string) int {
	hours := 0
	minutes := 0

	if m := hoursRe.FindStringSubmatch(s); m != nil {
		hours, _ = strconv.Atoi(m[1])
	}
	if m := minutesRe.FindStringSubmatch(s); m != nil {
		minutes, _ = strconv.Atoi(m[1])
	}

	return hours*60 + minutes
}

// ParseStops converts a stops description to a stop count.
// "nonstop" and unparseable input yield 0.
func ParseStops(s string) int {
	lower := strings.ToLower(s)
	if strings.Contains(lower, "nonstop") || strings.Contains(lower, "direct") {
		return 0
	}
	if m := digitsRe.FindString(lower); m != "" {
		n, _ := strconv.Atoi(m)
		return n
	}
	return 0
}

// ParseDate parses a flight date in DateLayout form.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// NormalizeRoute upper-cases and trims a route key such as "bos-ord".
func NormalizeRoute(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
