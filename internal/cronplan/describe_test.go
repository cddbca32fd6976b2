package cronplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	t.Run("describes each recognized shape", func(t *testing.T) {
		cases := []struct {
			expr string
			want string
		}{
			{"00 09 * * *", "Every day at 09:00"},
			{"30 07 * * 1-5", "Every weekday at 07:30"},
			{"15 10 * * 0,6", "Every weekend at 10:15"},
			{"00 18 * * 0", "Every Monday at 18:00"},
			{"00 18 * * 0,2", "Every Monday and Wednesday at 18:00"},
			{"00 18 * * 0,2,4", "Every Monday, Wednesday and Friday at 18:00"},
			{"00 09 1 * *", "Monthly on the 1st at 09:00"},
			{"00 09 2 * *", "Monthly on the 2nd at 09:00"},
			{"00 09 3 * *", "Monthly on the 3rd at 09:00"},
			{"00 09 4 * *", "Monthly on the 4th at 09:00"},
			{"00 09 11 * *", "Monthly on the 11th at 09:00"},
			{"00 09 12 * *", "Monthly on the 12th at 09:00"},
			{"00 09 13 * *", "Monthly on the 13th at 09:00"},
			{"00 09 21 * *", "Monthly on the 21st at 09:00"},
			{"00 09 22 * *", "Monthly on the 22nd at 09:00"},
			{"00 09 23 * *", "Monthly on the 23rd at 09:00"},
			{"00 09 28 * *", "Monthly on the 28th at 09:00"},
		}
		for _, tc := range cases {
			assert.Equal(t, tc.want, Describe(tc.expr, ""), "expr: %s", tc.expr)
		}
	})

	t.Run("falls back to custom schedule", func(t *testing.T) {
		assert.Equal(t, "Custom schedule", Describe("*/10 * * * *", ""))
		assert.Equal(t, "Custom schedule", Describe("not a cron", ""))
	})

	t.Run("appends timezone to every branch", func(t *testing.T) {
		assert.Equal(t, "Every day at 09:00 (Europe/Berlin)", Describe("00 09 * * *", "Europe/Berlin"))
		assert.Equal(t, "Custom schedule (Europe/Berlin)", Describe("*/10 * * * *", "Europe/Berlin"))
	})

	t.Run("never reports builder output as custom", func(t *testing.T) {
		schedules := []Schedule{
			{Frequency: EveryDay, Hour: 0, Minute: 0},
			{Frequency: Weekdays, Hour: 23, Minute: 59},
			{Frequency: Weekends, Hour: 12, Minute: 30},
			{Frequency: Weekly, Hour: 8, Minute: 15, Weekdays: []int{6}},
			{Frequency: Weekly, Hour: 8, Minute: 15, Weekdays: nil},
			{Frequency: Monthly, Hour: 7, Minute: 45, MonthDay: 28},
		}
		for _, s := range schedules {
			got := Describe(s.Build(), "")
			assert.NotEqual(t, "Custom schedule", got, "schedule: %+v", s)
		}
	})
}

func TestOrdinal(t *testing.T) {
	cases := map[int]string{
		1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 10: "10th",
		11: "11th", 12: "12th", 13: "13th", 14: "14th",
		21: "21st", 22: "22nd", 23: "23rd", 24: "24th", 28: "28th",
	}
	for n, want := range cases {
		assert.Equal(t, want, ordinal(n))
	}
}
