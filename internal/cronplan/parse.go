package cronplan

import (
	"strconv"
	"strings"
)

// Parse maps a 5-field cron expression onto the structured schedule model.
// It recognizes exactly five shapes: every day, weekdays (literal "1-5"),
// weekends (literal "0,6"), weekly (comma list of day numbers), and monthly
// (single day-of-month with no day-of-week restriction). Any other syntax,
// including step values, ranges, or month restrictions, returns (nil, false).
// Parse never panics and has no side effects.
func Parse(expr string) (*Schedule, bool) {
	fields := strings.Fields(strings.TrimSpace(expr))
	if len(fields) != 5 {
		return nil, false
	}

	minute, ok := parseNumber(fields[0], 0, 59)
	if !ok {
		return nil, false
	}
	hour, ok := parseNumber(fields[1], 0, 23)
	if !ok {
		return nil, false
	}

	dom, month, dow := fields[2], fields[3], fields[4]

	// The editor has no month-level scheduling concept.
	if month != "*" {
		return nil, false
	}

	s := &Schedule{Hour: hour, Minute: minute, Weekdays: []int{0}, MonthDay: 1}

	switch {
	case dom == "*" && dow == "*":
		s.Frequency = EveryDay
		return s, true

	case dom == "*" && dow == "1-5":
		s.Frequency = Weekdays
		return s, true

	case dom == "*" && dow == "0,6":
		s.Frequency = Weekends
		return s, true

	case dom == "*":
		days, ok := parseDayList(dow)
		if !ok {
			return nil, false
		}
		s.Frequency = Weekly
		s.Weekdays = days
		return s, true

	case dow == "*":
		day, ok := parseNumber(dom, 1, 28)
		if !ok {
			return nil, false
		}
		s.Frequency = Monthly
		s.MonthDay = day
		return s, true
	}

	return nil, false
}

// parseDayList parses a comma-separated list of day numbers in [0,6],
// returning the sorted, de-duplicated set.
func parseDayList(field string) ([]int, bool) {
	parts := strings.Split(field, ",")
	days := make([]int, 0, len(parts))
	for _, part := range parts {
		d, ok := parseNumber(part, 0, 6)
		if !ok {
			return nil, false
		}
		days = append(days, d)
	}
	return normalizeWeekdays(days), true
}

// parseNumber parses a plain decimal field and checks its range. Leading
// zeros are fine ("09" and "9" are the same hour); signs are not.
func parseNumber(field string, min, max int) (int, bool) {
	if field == "" || field[0] == '+' || field[0] == '-' {
		return 0, false
	}
	n, err := strconv.Atoi(field)
	if err != nil {
		return 0, false
	}
	if n < min || n > max {
		return 0, false
	}
	return n, true
}
