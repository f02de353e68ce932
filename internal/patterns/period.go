package patterns

import (
	"regexp"
	"strconv"
	"strings"
)

var monthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var shortMonths = map[string]string{
	"jan": "January", "feb": "February", "mar": "March", "apr": "April",
	"may": "May", "jun": "June", "jul": "July", "aug": "August",
	"sep": "September", "oct": "October", "nov": "November", "dec": "December",
}

var (
	fullMonthYear = regexp.MustCompile(`(?i)\b(January|February|March|April|May|June|July|August|September|October|November|December)\b[\s\-,/]*(\d{4})\b`)
	// abbreviated month followed by a year ("FEB 2024"; "Feb-24" is ignored)
	shortMonthYear = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[\s\-,/]*(\d{4})\b`)
	bareFullMonth  = regexp.MustCompile(`(?i)\b(January|February|March|April|May|June|July|August|September|October|November|December)\b`)
	numericPeriod  = regexp.MustCompile(`\b(0?[1-9]|1[0-2])[/-](\d{4})\b`)
)

// ExtractPeriod finds the statement period as a month name and numeric year.
// A month name adjacent to a year wins anywhere in the text, so incidental
// words like "may" in prose cannot shadow an explicit period further down.
// After that it tries a numeric MM/YYYY token, and only then settles for a
// bare word-bounded month name with year 0.
func ExtractPeriod(text string) (month string, year int) {
	if m := fullMonthYear.FindStringSubmatch(text); len(m) > 2 {
		year, _ = strconv.Atoi(m[2])
		return canonicalMonth(m[1]), year
	}

	if m := shortMonthYear.FindStringSubmatch(text); len(m) > 2 {
		year, _ = strconv.Atoi(m[2])
		return canonicalMonth(m[1]), year
	}

	if m := numericPeriod.FindStringSubmatch(text); len(m) > 2 {
		num, _ := strconv.Atoi(strings.TrimPrefix(m[1], "0"))
		year, _ = strconv.Atoi(m[2])
		if num >= 1 && num <= 12 {
			return monthNames[num-1], year
		}
		return "", year
	}

	if m := bareFullMonth.FindString(text); m != "" {
		return canonicalMonth(m), 0
	}

	return "", 0
}

// canonicalMonth maps any casing of a full or abbreviated month name to the
// canonical full name.
func canonicalMonth(name string) string {
	return shortMonths[strings.ToLower(name[:3])]
}
