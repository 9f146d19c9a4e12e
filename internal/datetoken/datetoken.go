// Package datetoken resolves the relative date tokens the widget accepts as
// field values, such as "today" or "today+7", into calendar dates.
package datetoken

import (
	"regexp"
	"strconv"
	"time"
)

// Layout is the format resolved dates are rendered in.
const Layout = "2006-01-02"

var tokenRegex = regexp.MustCompile(`^today(?:([+-])(\d+))?$`)

// Resolve resolves value relative to the current local date.
func Resolve(value string) string {
	return ResolveAt(value, time.Now())
}

// ResolveAt resolves value relative to the date of now. "today" becomes that
// date, "today+N" and "today-N" shift it by N days, and any other value,
// including the empty string and literal dates, is returned unchanged.
func ResolveAt(value string, now time.Time) string {
	matches := tokenRegex.FindStringSubmatch(value)
	if matches == nil {
		return value
	}
	days := 0
	if matches[2] != "" {
		var err error
		if days, err = strconv.Atoi(matches[2]); err != nil {
			// Too many digits to be a day offset
			return value
		}
		if matches[1] == "-" {
			days = -days
		}
	}
	return now.AddDate(0, 0, days).Format(Layout)
}
