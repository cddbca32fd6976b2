package cronplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("recognizes every day", func(t *testing.T) {
		s, ok := Parse("00 09 * * *")
		require.True(t, ok)
		assert.Equal(t, EveryDay, s.Frequency)
		assert.Equal(t, 9, s.Hour)
		assert.Equal(t, 0, s.Minute)
	})

	t.Run("recognizes weekdays by exact field match", func(t *testing.T) {
		s, ok := Parse("30 7 * * 1-5")
		require.True(t, ok)
		assert.Equal(t, Weekdays, s.Frequency)
		assert.Equal(t, 7, s.Hour)
		assert.Equal(t, 30, s.Minute)
	})

	t.Run("recognizes weekends by exact field match", func(t *testing.T) {
		s, ok := Parse("15 10 * * 0,6")
		require.True(t, ok)
		assert.Equal(t, Weekends, s.Frequency)
	})

	t.Run("recognizes weekly day lists sorted and deduplicated", func(t *testing.T) {
		s, ok := Parse("00 18 * * 4,0,2,0")
		require.True(t, ok)
		assert.Equal(t, Weekly, s.Frequency)
		assert.Equal(t, []int{0, 2, 4}, s.Weekdays)
	})

	t.Run("recognizes a single day as weekly", func(t *testing.T) {
		s, ok := Parse("00 18 * * 3")
		require.True(t, ok)
		assert.Equal(t, Weekly, s.Frequency)
		assert.Equal(t, []int{3}, s.Weekdays)
	})

	t.Run("recognizes monthly", func(t *testing.T) {
		s, ok := Parse("00 09 15 * *")
		require.True(t, ok)
		assert.Equal(t, Monthly, s.Frequency)
		assert.Equal(t, 15, s.MonthDay)
	})

	t.Run("normalizes zero-padded numbers", func(t *testing.T) {
		padded, ok := Parse("05 09 * * *")
		require.True(t, ok)
		plain, ok2 := Parse("5 9 * * *")
		require.True(t, ok2)
		assert.Equal(t, *plain, *padded)
	})

	t.Run("rejects unsupported expressions", func(t *testing.T) {
		unsupported := []string{
			"*/5 * * * *",     // step values
			"0 9 1,15 * *",    // multiple days of month
			"0 9 * 6 *",       // month restriction
			"0 9 * * 2-4",     // range other than 1-5
			"0 9 29 * *",      // day of month past 28
			"0 9 1 * 1",       // both day fields restricted
			"60 9 * * *",      // minute out of range
			"0 24 * * *",      // hour out of range
			"0 9 * * 7",       // day of week out of range
			"0 9 * * MON",     // names not supported
			"0 9 * * * *",     // six fields
			"0 9 * *",         // four fields
			"",                // empty
			"not a cron",      // garbage
			"-5 9 * * *",      // signed number
			"+5 9 * * *",      // signed number
			"@daily",          // descriptor
		}
		for _, expr := range unsupported {
			s, ok := Parse(expr)
			assert.False(t, ok, "expected unsupported: %q", expr)
			assert.Nil(t, s)
		}
	})
}

func TestBuild(t *testing.T) {
	t.Run("zero pads minute and hour", func(t *testing.T) {
		s := Schedule{Frequency: EveryDay, Hour: 9, Minute: 5}
		assert.Equal(t, "05 09 * * *", s.Build())
	})

	t.Run("builds each frequency", func(t *testing.T) {
		cases := []struct {
			name     string
			schedule Schedule
			want     string
		}{
			{"every day", Schedule{Frequency: EveryDay, Hour: 9}, "00 09 * * *"},
			{"weekdays", Schedule{Frequency: Weekdays, Hour: 7, Minute: 30}, "30 07 * * 1-5"},
			{"weekends", Schedule{Frequency: Weekends, Hour: 10, Minute: 15}, "15 10 * * 0,6"},
			{"weekly", Schedule{Frequency: Weekly, Hour: 18, Weekdays: []int{0, 2, 4}}, "00 18 * * 0,2,4"},
			{"monthly", Schedule{Frequency: Monthly, Hour: 9, MonthDay: 15}, "00 09 15 * *"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				assert.Equal(t, tc.want, tc.schedule.Build())
			})
		}
	})

	t.Run("weekly output is sorted and deduplicated", func(t *testing.T) {
		s := Schedule{Frequency: Weekly, Hour: 8, Weekdays: []int{4, 0, 4, 2}}
		assert.Equal(t, "00 08 * * 0,2,4", s.Build())
	})

	t.Run("weekly with no days stays syntactically valid", func(t *testing.T) {
		s := Schedule{Frequency: Weekly, Hour: 8}
		expr := s.Build()
		assert.Equal(t, "00 08 * * 1", expr)
		_, ok := Parse(expr)
		assert.True(t, ok)
	})
}

func TestRoundTrip(t *testing.T) {
	t.Run("fixed frequencies survive build then parse", func(t *testing.T) {
		for _, f := range []Frequency{EveryDay, Weekdays, Weekends} {
			for _, hm := range [][2]int{{0, 0}, {9, 5}, {23, 59}} {
				s := Schedule{Frequency: f, Hour: hm[0], Minute: hm[1]}
				got, ok := Parse(s.Build())
				require.True(t, ok, "build output must parse: %s", s.Build())
				assert.Equal(t, f, got.Frequency)
				assert.Equal(t, s.Hour, got.Hour)
				assert.Equal(t, s.Minute, got.Minute)
			}
		}
	})

	t.Run("weekly round trip yields the normalized day set", func(t *testing.T) {
		cases := [][]int{{0}, {6}, {5, 1, 3}, {2, 2, 2}, {0, 1, 2, 3, 4, 5, 6}}
		for _, days := range cases {
			s := Schedule{Frequency: Weekly, Hour: 12, Weekdays: days}
			got, ok := Parse(s.Build())
			require.True(t, ok)
			assert.Equal(t, Weekly, got.Frequency, "days: %v", days)
			assert.Equal(t, normalizeWeekdays(days), got.Weekdays, "days: %v", days)
		}
	})

	t.Run("weekly saturday and sunday canonicalizes to weekends", func(t *testing.T) {
		// The day list 0,6 is textually identical to the weekends pattern,
		// which takes precedence on parse.
		s := Schedule{Frequency: Weekly, Hour: 12, Weekdays: []int{0, 6}}
		expr := s.Build()
		assert.Equal(t, "00 12 * * 0,6", expr)

		got, ok := Parse(expr)
		require.True(t, ok)
		assert.Equal(t, Weekends, got.Frequency)
	})

	t.Run("monthly round trip preserves the day", func(t *testing.T) {
		for day := 1; day <= 28; day++ {
			s := Schedule{Frequency: Monthly, Hour: 6, MonthDay: day}
			got, ok := Parse(s.Build())
			require.True(t, ok)
			assert.Equal(t, day, got.MonthDay)
		}
	})
}
