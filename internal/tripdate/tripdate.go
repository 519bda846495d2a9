// Package tripdate parses and formats the calendar dates that key trips.
package tripdate

import (
	"strings"
	"time"
)

// Layout is the ISO 8601 calendar date layout used on the wire and as the
// grouping key.
const Layout = "2006-01-02"

// Parse validates s as a strict YYYY-MM-DD date and returns it at UTC midnight.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) != len(Layout) {
		return time.Time{}, &time.ParseError{Layout: Layout, Value: s, LayoutElem: Layout, ValueElem: s, Message: ": not a YYYY-MM-DD date"}
	}
	return time.ParseInLocation(Layout, s, time.UTC)
}

// Format renders t as YYYY-MM-DD.
func Format(t time.Time) string { return t.Format(Layout) }

// Label renders an ISO date as dd/mm/yyyy for display. Empty input renders
// "—"; unparseable input is returned unchanged.
func Label(iso string) string {
	if iso == "" {
		return "—"
	}
	t, err := Parse(iso)
	if err != nil {
		return iso
	}
	return t.Format("02/01/2006")
}
