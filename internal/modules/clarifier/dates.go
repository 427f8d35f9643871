// README: Relative date resolution and ambiguous/specific date detection for dialogue turns.
package clarifier

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var (
	reWeeksFromWeekend = regexp.MustCompile(`(\d+|a|one)\s*weeks?\s*from\s*(next|this)\s*weekend`)
	reNextWeekend      = regexp.MustCompile(`\bnext\s+weekend\b`)
	reThisWeekend      = regexp.MustCompile(`\bthis\s+weekend\b`)
	reUpcomingWeekend  = regexp.MustCompile(`\bupcoming\s+weekend\b`)
	reNextWeek         = regexp.MustCompile(`\bnext\s+week\b`)
	reInDays           = regexp.MustCompile(`in\s+(\d+)\s+days?`)

	ambiguousPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b\d+\s*weeks?\b`),
		regexp.MustCompile(`\b\d+\s*months?\b`),
		regexp.MustCompile(`\bnext\s+week\b`),
		regexp.MustCompile(`\bthis\s+week\b`),
		regexp.MustCompile(`\bin\s+\d+\s+days?\b`),
	}

	specificPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{1,2}\s*(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)`),
		regexp.MustCompile(`\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)\s*\d{1,2}`),
		regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
		regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b`),
		regexp.MustCompile(`\b\d{1,2}-\d{1,2}\s*(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)`),
		regexp.MustCompile(`\b(january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2}`),
		regexp.MustCompile(`\b\d{1,2}(st|nd|rd|th)\s+(of\s+)?(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)`),
	}
)

var ambiguousDatePhrases = []string{
	"next week", "this week", "a week", "one week", "two weeks", "2 weeks",
	"in 2 weeks", "in two weeks", "few weeks", "couple weeks", "couple of weeks",
	"next month", "this month", "a month", "one month", "two months",
	"soon", "in a few days", "few days", "couple days", "couple of days",
	"sometime", "around", "roughly", "approximately",
	"end of month", "beginning of month", "mid month",
	"end of january", "end of february", "end of march", "end of april",
	"end of may", "end of june", "end of july", "end of august",
	"end of september", "end of october", "end of november", "end of december",
}

// upcomingWeekend returns the nearest Saturday-Sunday pair. On a Saturday or
// Sunday it returns the weekend already in progress.
func upcomingWeekend(now time.Time) (time.Time, time.Time) {
	var saturday time.Time
	switch now.Weekday() {
	case time.Saturday:
		saturday = now
	case time.Sunday:
		saturday = now.AddDate(0, 0, -1)
	default:
		daysUntil := (int(time.Saturday) - int(now.Weekday()) + 7) % 7
		if daysUntil == 0 {
			daysUntil = 7
		}
		saturday = now.AddDate(0, 0, daysUntil)
	}
	return saturday, saturday.AddDate(0, 0, 1)
}

// nextWeekend is the weekend FOLLOWING the upcoming one.
func nextWeekend(now time.Time) (time.Time, time.Time) {
	saturday, _ := upcomingWeekend(now)
	saturday = saturday.AddDate(0, 0, 7)
	return saturday, saturday.AddDate(0, 0, 1)
}

func weekendWithOffset(now time.Time, base string, weeks int) (time.Time, time.Time) {
	var saturday time.Time
	if base == "next" {
		saturday, _ = nextWeekend(now)
	} else {
		saturday, _ = upcomingWeekend(now)
	}
	saturday = saturday.AddDate(0, 0, 7*weeks)
	return saturday, saturday.AddDate(0, 0, 1)
}

// ParseRelativeDate resolves weekend expressions, "tomorrow", "next week", and
// "in N days" to concrete dates. Returns "" when nothing matches. The result
// is either "YYYY-MM-DD" or "YYYY-MM-DD to YYYY-MM-DD".
func ParseRelativeDate(text string, now time.Time) string {
	lower := strings.ToLower(strings.TrimSpace(text))

	if m := reWeeksFromWeekend.FindStringSubmatch(lower); m != nil {
		weeks := 1
		if m[1] != "a" && m[1] != "one" {
			weeks, _ = strconv.Atoi(m[1])
		}
		sat, sun := weekendWithOffset(now, m[2], weeks)
		return fmt.Sprintf("%s to %s", sat.Format(dateLayout), sun.Format(dateLayout))
	}
	if reNextWeekend.MatchString(lower) {
		sat, sun := nextWeekend(now)
		return fmt.Sprintf("%s to %s", sat.Format(dateLayout), sun.Format(dateLayout))
	}
	if reThisWeekend.MatchString(lower) || reUpcomingWeekend.MatchString(lower) {
		sat, sun := upcomingWeekend(now)
		return fmt.Sprintf("%s to %s", sat.Format(dateLayout), sun.Format(dateLayout))
	}
	if strings.Contains(lower, "tomorrow") {
		return now.AddDate(0, 0, 1).Format(dateLayout)
	}
	if reNextWeek.MatchString(lower) {
		// Monday through Sunday of the following week.
		daysUntilMonday := (int(time.Monday) - int(now.Weekday()) + 7) % 7
		if daysUntilMonday == 0 {
			daysUntilMonday = 7
		}
		monday := now.AddDate(0, 0, daysUntilMonday)
		sunday := monday.AddDate(0, 0, 6)
		return fmt.Sprintf("%s to %s", monday.Format(dateLayout), sunday.Format(dateLayout))
	}
	if m := reInDays.FindStringSubmatch(lower); m != nil {
		days, _ := strconv.Atoi(m[1])
		return now.AddDate(0, 0, days).Format(dateLayout)
	}
	return ""
}

// DetectAmbiguousDate reports whether the text contains a relative date phrase
// that needs clarification before it can be trusted ("next week", "2 weeks").
func DetectAmbiguousDate(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range ambiguousDatePhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	for _, re := range ambiguousPatterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

// HasSpecificDate reports whether the text contains a concrete calendar date.
// "this weekend" counts: it resolves to an exact two-day period.
func HasSpecificDate(text string) bool {
	lower := strings.ToLower(text)
	for _, re := range specificPatterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return strings.Contains(lower, "this weekend") || strings.Contains(lower, "upcoming weekend")
}
