package cronplan

import (
	"fmt"
	"strings"
)

// dayNames indexes weekday names with the editor's Monday-first numbering.
var dayNames = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// Describe renders a cron expression as an English sentence, with an
// optional timezone suffix. Expressions outside the recognized subset are
// rendered as "Custom schedule". Describe is total and never fails.
func Describe(expr, timezone string) string {
	sentence := "Custom schedule"

	if s, ok := Parse(expr); ok {
		at := fmt.Sprintf("%02d:%02d", s.Hour, s.Minute)
		switch s.Frequency {
		case EveryDay:
			sentence = "Every day at " + at
		case Weekdays:
			sentence = "Every weekday at " + at
		case Weekends:
			sentence = "Every weekend at " + at
		case Weekly:
			sentence = "Every " + joinDayNames(s.Weekdays) + " at " + at
		case Monthly:
			sentence = fmt.Sprintf("Monthly on the %s at %s", ordinal(s.MonthDay), at)
		}
	}

	if timezone != "" {
		sentence += " (" + timezone + ")"
	}
	return sentence
}

// joinDayNames joins weekday names with commas and a final "and":
// "Monday", "Monday and Wednesday", "Monday, Wednesday and Friday".
func joinDayNames(days []int) string {
	days = normalizeWeekdays(days)
	names := make([]string, 0, len(days))
	for _, d := range days {
		if d >= 0 && d < len(dayNames) {
			names = append(names, dayNames[d])
		}
	}

	switch len(names) {
	case 0:
		return dayNames[0]
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}

// ordinal returns n with its English ordinal suffix (1st, 2nd, 3rd, 4th,
// with 11th-13th as the usual exceptions).
func ordinal(n int) string {
	suffix := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
