package model

import (
	"strings"
	"time"
)

// Date layouts used by the templates.
const (
	LayoutMonthYear     = "01/2006"
	LayoutShortMonth    = "Jan 2006"
	LayoutLongMonth     = "January 2006"
	LayoutYear          = "2006"
	PresentLabel        = "Present"
	dateOnly            = "2006-01-02"
	dateTimeNoZone      = "2006-01-02T15:04:05"
	dateTimeNoZoneMilli = "2006-01-02T15:04:05.000"
)

var parseLayouts = []string{time.RFC3339Nano, time.RFC3339, dateTimeNoZoneMilli, dateTimeNoZone, dateOnly, "2006-01"}

// ParseDate accepts ISO-8601 dates and date-times. Times are normalised to UTC
// so a month boundary never moves with the local zone.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range parseLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// FormatDate renders an ISO date with the given layout. Unparseable input is
// returned as written.
func FormatDate(s, layout string) string {
	t, ok := ParseDate(s)
	if !ok {
		return strings.TrimSpace(s)
	}
	return t.Format(layout)
}

// FormatRange renders "start - end", with "Present" for ongoing entries.
func FormatRange(start string, end *string, current bool, layout string) string {
	from := FormatDate(start, layout)
	to := ""
	switch {
	case current:
		to = PresentLabel
	case end != nil:
		to = FormatDate(*end, layout)
	}
	switch {
	case from == "" && to == "":
		return ""
	case from == "":
		return to
	case to == "":
		return from
	}
	return from + " - " + to
}
