package clarifier

import (
	"testing"
	"time"
)

// Wednesday, January 7, 2026.
var wednesday = time.Date(2026, 1, 7, 10, 0, 0, 0, time.UTC)

func TestParseRelativeDate(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"this weekend", "we're going this weekend", "2026-01-10 to 2026-01-11"},
		{"upcoming weekend", "the upcoming weekend works", "2026-01-10 to 2026-01-11"},
		{"next weekend", "maybe next weekend", "2026-01-17 to 2026-01-18"},
		{"weeks from next weekend", "2 weeks from next weekend", "2026-01-31 to 2026-02-01"},
		{"a week from this weekend", "a week from this weekend", "2026-01-17 to 2026-01-18"},
		{"tomorrow", "flying out tomorrow", "2026-01-08"},
		{"next week", "sometime next week", "2026-01-12 to 2026-01-18"},
		{"in N days", "leaving in 3 days", "2026-01-10"},
		{"no match", "going to Paris", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseRelativeDate(tc.text, wednesday); got != tc.want {
				t.Errorf("ParseRelativeDate(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}

func TestParseRelativeDateOnSaturday(t *testing.T) {
	saturday := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	if got := ParseRelativeDate("this weekend", saturday); got != "2026-01-10 to 2026-01-11" {
		t.Errorf("weekend in progress = %q", got)
	}
	sunday := time.Date(2026, 1, 11, 9, 0, 0, 0, time.UTC)
	if got := ParseRelativeDate("this weekend", sunday); got != "2026-01-10 to 2026-01-11" {
		t.Errorf("weekend in progress from Sunday = %q", got)
	}
}

func TestDetectAmbiguousDate(t *testing.T) {
	ambiguous := []string{
		"sometime next week",
		"in 2 weeks",
		"going for two weeks",
		"maybe next month",
		"in 3 days",
		"end of march probably",
	}
	for _, q := range ambiguous {
		if !DetectAmbiguousDate(q) {
			t.Errorf("DetectAmbiguousDate(%q) = false, want true", q)
		}
	}
	if DetectAmbiguousDate("January 15 to January 20") {
		t.Error("concrete dates flagged as ambiguous")
	}
}

func TestHasSpecificDate(t *testing.T) {
	specific := []string{
		"15 Jan",
		"March 5",
		"2026-01-15",
		"01/15/2026",
		"15-18 Jan",
		"january 15",
		"15th of January",
		"this weekend",
	}
	for _, q := range specific {
		if !HasSpecificDate(q) {
			t.Errorf("HasSpecificDate(%q) = false, want true", q)
		}
	}
	for _, q := range []string{"next week", "soon", "going to Paris"} {
		if HasSpecificDate(q) {
			t.Errorf("HasSpecificDate(%q) = true, want false", q)
		}
	}
}
