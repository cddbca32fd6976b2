package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/cronplan"
)

var (
	buildFrequency string
	buildHour      int
	buildMinute    int
	buildDays      []int
	buildMonthDay  int
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a cron expression from schedule parts",
	Long: `Build assembles a canonical five-field cron expression from a
frequency, a time of day, and (depending on the frequency) a set of
weekdays or a day of the month. Weekdays use Monday=0 through Sunday=6.

Examples:
  taskdeck build --frequency every_day --hour 9 --minute 0
  taskdeck build --frequency weekly --hour 18 --minute 15 --days 0,2,4
  taskdeck build --frequency monthly --hour 0 --minute 30 --month-day 15`,
	Run: func(cmd *cobra.Command, args []string) {
		freq := cronplan.Frequency(buildFrequency)
		switch freq {
		case cronplan.EveryDay, cronplan.Weekdays, cronplan.Weekends, cronplan.Weekly, cronplan.Monthly:
		default:
			fmt.Printf("❌ Unknown frequency %q (expected every_day, weekdays, weekends, weekly or monthly)\n", buildFrequency)
			os.Exit(1)
		}

		if buildHour < 0 || buildHour > 23 || buildMinute < 0 || buildMinute > 59 {
			fmt.Printf("❌ Time %02d:%02d is out of range\n", buildHour, buildMinute)
			os.Exit(1)
		}

		for _, d := range buildDays {
			if d < 0 || d > 6 {
				fmt.Printf("❌ Weekday %d is out of range (Monday=0 through Sunday=6)\n", d)
				os.Exit(1)
			}
		}

		if buildMonthDay < 1 || buildMonthDay > 28 {
			fmt.Printf("❌ Month day %d is out of range (1-28)\n", buildMonthDay)
			os.Exit(1)
		}

		schedule := cronplan.Schedule{
			Frequency: freq,
			Hour:      buildHour,
			Minute:    buildMinute,
			Weekdays:  buildDays,
			MonthDay:  buildMonthDay,
		}

		expr := schedule.Build()
		description := cronplan.Describe(expr, "")

		if outputJSON {
			data, err := json.MarshalIndent(map[string]string{
				"cron_expression": expr,
				"description":     description,
			}, "", "  ")
			if err != nil {
				fmt.Printf("❌ Error encoding JSON: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(data))
			return
		}

		fmt.Printf("✅ %s\n", expr)
		fmt.Printf("   Reads as: %s\n", description)
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVar(&buildFrequency, "frequency", "every_day", "Schedule frequency (every_day, weekdays, weekends, weekly, monthly)")
	buildCmd.Flags().IntVar(&buildHour, "hour", 9, "Hour of day (0-23)")
	buildCmd.Flags().IntVar(&buildMinute, "minute", 0, "Minute of hour (0-59)")
	buildCmd.Flags().IntSliceVar(&buildDays, "days", nil, "Weekdays for weekly schedules (Monday=0 through Sunday=6)")
	buildCmd.Flags().IntVar(&buildMonthDay, "month-day", 1, "Day of month for monthly schedules (1-28)")
}
