// Package cronplan translates between the structured schedule model used by
// the console's "easy mode" editor and 5-field cron expressions. It only
// understands the small subset of cron syntax the editor can represent;
// everything else is treated as an opaque custom expression.
package cronplan

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Frequency selects which recurrence pattern a Schedule describes.
type Frequency string

const (
	EveryDay Frequency = "every_day"
	Weekdays Frequency = "weekdays"
	Weekends Frequency = "weekends"
	Weekly   Frequency = "weekly"
	Monthly  Frequency = "monthly"
)

// Schedule is the structured "easy mode" representation of a recurring
// schedule. Weekdays is meaningful only when Frequency is Weekly and uses
// Monday=0 through Sunday=6; MonthDay is meaningful only when Frequency is
// Monthly and is capped at 28 so every month has the chosen day.
type Schedule struct {
	Frequency Frequency `json:"frequency"`
	Hour      int       `json:"hour"`
	Minute    int       `json:"minute"`
	Weekdays  []int     `json:"weekdays,omitempty"`
	MonthDay  int       `json:"month_day,omitempty"`
}

// DefaultSchedule returns the schedule a fresh editor starts from:
// every day at 09:00.
func DefaultSchedule() Schedule {
	return Schedule{
		Frequency: EveryDay,
		Hour:      9,
		Minute:    0,
		Weekdays:  []int{0},
		MonthDay:  1,
	}
}

// Build serializes the schedule into a canonical 5-field cron expression.
// It is total: missing or non-canonical data is defaulted or normalized
// rather than rejected, so the output is always syntactically valid cron.
func (s Schedule) Build() string {
	minute := fmt.Sprintf("%02d", s.Minute)
	hour := fmt.Sprintf("%02d", s.Hour)

	switch s.Frequency {
	case Weekdays:
		return fmt.Sprintf("%s %s * * 1-5", minute, hour)
	case Weekends:
		return fmt.Sprintf("%s %s * * 0,6", minute, hour)
	case Weekly:
		days := normalizeWeekdays(s.Weekdays)
		if len(days) == 0 {
			return fmt.Sprintf("%s %s * * 1", minute, hour)
		}
		parts := make([]string, len(days))
		for i, d := range days {
			parts[i] = strconv.Itoa(d)
		}
		return fmt.Sprintf("%s %s * * %s", minute, hour, strings.Join(parts, ","))
	case Monthly:
		return fmt.Sprintf("%s %s %d * *", minute, hour, s.MonthDay)
	default:
		return fmt.Sprintf("%s %s * * *", minute, hour)
	}
}

// normalizeWeekdays returns the ascending-sorted, de-duplicated copy of days.
func normalizeWeekdays(days []int) []int {
	seen := make(map[int]bool, len(days))
	out := make([]int, 0, len(days))
	for _, d := range days {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Ints(out)
	return out
}
