package keydate

import (
	"regexp"
	"time"

	"github.com/FPI-TW/report-sub000/reporttypes"
)

// Layout is the date layout found in keys and stored in DatedItem.Date.
const Layout = "2006-01-02"

var datePattern = regexp.MustCompile(`[0-9]{4}-[0-9]{2}-[0-9]{2}`)

// Parse returns the first valid date found in key.
func Parse(key string) (string, bool) {
	return ParseWith(key, reporttypes.DateFirstMatch)
}

// ParseWith returns the date found in key according to policy.
// Overlapping candidates are considered, so "2024-01-2024-02-03" yields 2024-02-03
// when the leading candidate is not a date.
func ParseWith(key string, policy reporttypes.DatePolicy) (string, bool) {
	var found string
	for start := 0; start < len(key); {
		loc := datePattern.FindStringIndex(key[start:])
		if loc == nil {
			break
		}
		candidate := key[start+loc[0] : start+loc[1]]
		if valid(candidate) {
			if policy != reporttypes.DateLastMatch {
				return candidate, true
			}
			found = candidate
		}
		start += loc[0] + 1
	}
	return found, found != ""
}

// YearMonth splits a date produced by Parse into its year and month.
func YearMonth(date string) (int, int, bool) {
	t, err := time.Parse(Layout, date)
	if err != nil {
		return 0, 0, false
	}
	return t.Year(), int(t.Month()), true
}

func valid(candidate string) bool {
	_, err := time.Parse(Layout, candidate)
	return err == nil
}
