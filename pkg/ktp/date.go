package ktp

import (
	"regexp"
	"strconv"
	"time"
)

const DateLayout = "02-01-2006"

type dateStrategy func(text string) (time.Time, bool)

var dateStrategies = []dateStrategy{
	parseSeparatedDate,
	parseAlternateDate,
	parseLooseDate,
}

// RE2 has no backreferences, so the "same separator twice" rule is expressed
// as one pattern per separator.
var separatedDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{1,2})-(\d{2})-(\d{4})`),
	regexp.MustCompile(`(\d{1,2})/(\d{2})/(\d{4})`),
	regexp.MustCompile(`(\d{1,2})\.(\d{2})\.(\d{4})`),
}

var looseDatePattern = regexp.MustCompile(`(\d{1,4})[-/.](\d{1,2})[-/.](\d{2,4})`)

// ParseDate extracts a calendar date from loosely formatted text. The second
// return value is false when no strategy recognises a valid date.
func ParseDate(text string) (time.Time, bool) {
	for _, strategy := range dateStrategies {
		if t, ok := strategy(text); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseSeparatedDate(text string) (time.Time, bool) {
	var match []string
	start := -1
	for _, re := range separatedDatePatterns {
		loc := re.FindStringSubmatchIndex(text)
		if loc == nil || (start >= 0 && loc[0] >= start) {
			continue
		}
		start = loc[0]
		match = []string{text[loc[2]:loc[3]], text[loc[4]:loc[5]], text[loc[6]:loc[7]]}
	}
	if match == nil {
		return time.Time{}, false
	}

	day, _ := strconv.Atoi(match[0])
	month, _ := strconv.Atoi(match[1])
	year, _ := strconv.Atoi(match[2])
	return calendarDate(year, month, day)
}

func parseAlternateDate(text string) (time.Time, bool) {
	t, err := time.Parse("2006 1-2", text)
	if err != nil || t.Year() < 1 {
		return time.Time{}, false
	}
	return t, true
}

// parseLooseDate reads the groups as day, month, year. Every group, the
// year included, must lie in 1..31.
func parseLooseDate(text string) (time.Time, bool) {
	match := looseDatePattern.FindStringSubmatch(text)
	if match == nil {
		return time.Time{}, false
	}

	parts := make([]int, 3)
	for i, group := range match[1:] {
		n, err := strconv.Atoi(group)
		if err != nil || n < 1 || n > 31 {
			return time.Time{}, false
		}
		parts[i] = n
	}
	return calendarDate(parts[2], parts[1], parts[0])
}

func calendarDate(year, month, day int) (time.Time, bool) {
	if year < 1 || year > 9999 || month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}
