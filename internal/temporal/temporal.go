// Package temporal normalizes the free-text date and time fragments the
// generator produces into canonical calendar values. The generator gives no
// guarantee on output shape, so this package is the safety net that has to
// tolerate its drift: several input layouts are accepted and anything
// unrecognizable reports ok=false for the caller to substitute.
//
// Both functions are pure: the processing instant is an explicit parameter,
// never ambient system time.
package temporal

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

var ordinalSuffix = regexp.MustCompile(`(\d+)(st|nd|rd|th)`)

// dateLayouts are tried in order after the relative keywords and strict ISO
// form have been ruled out. Year defaults to the processing year.
var dateLayouts = []string{
	"2 January",
	"January 2",
	"2 Jan",
	"Jan 2",
}

// timeLayouts are tried in order: hour+meridiem, hour:minute+meridiem,
// then 24-hour clock.
var timeLayouts = []string{
	"3PM",
	"3:04PM",
	"15:04",
}

// ParseDate resolves a free-text date fragment against the processing
// instant now. Resolution order: "today"/"yesterday", strict ISO
// (YYYY-MM-DD), then ordinal-stripped "day month" / "month day" with the
// year defaulting to now's year. ok is false when nothing matches; the
// caller must substitute the processing date.
func ParseDate(s string, now time.Time) (time.Time, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return time.Time{}, false
	}

	switch s {
	case "today":
		return dateOnly(now), true
	case "yesterday":
		return dateOnly(now.AddDate(0, 0, -1)), true
	}

	if t, err := time.Parse("2006-01-02", s); err == nil {
		return dateOnly(t), true
	}

	// "12th june" -> "12 june"; month names need their canonical casing
	// for the time package to accept them.
	s = ordinalSuffix.ReplaceAllString(s, "$1")
	s = capitalizeWords(s)
	s = strings.Join(strings.Fields(s), " ")

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location()), true
		}
	}

	return time.Time{}, false
}

// ParseTime resolves a free-text clock fragment into canonical "HH:MM".
// Accepted shapes, first match wins: "5PM", "5:30PM", "23:15". Case and
// interior spaces are ignored. ok is false when nothing matches; the caller
// must substitute the processing time or leave it null.
func ParseTime(s string) (string, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return "", false
	}

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04"), true
		}
	}

	return "", false
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func capitalizeWords(s string) string {
	var b strings.Builder
	startOfWord := true
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			startOfWord = true
			b.WriteRune(r)
		case startOfWord:
			b.WriteRune(unicode.ToUpper(r))
			startOfWord = false
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
