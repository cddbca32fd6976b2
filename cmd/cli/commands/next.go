package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/taskdeck/taskdeck/internal/cli"
)

var nextCount int

var nextCmd = &cobra.Command{
	Use:   "next <schedule-id>",
	Short: "Show the upcoming trigger times for a schedule",
	Long: `Next fetches a schedule from the TaskDeck server and prints its
upcoming trigger times in the schedule's timezone.

Examples:
  taskdeck next 4f7c2c1e-8a6b-4f1d-9c3e-2b1a0d9e8f7c
  taskdeck next 4f7c2c1e-8a6b-4f1d-9c3e-2b1a0d9e8f7c --count 5`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := cli.NewClient(viper.GetString("api.url"), viper.GetString("api.token"))

		schedule, err := client.GetSchedule(args[0])
		if err != nil {
			fmt.Printf("❌ Failed to get schedule: %v\n", err)
			os.Exit(1)
		}

		result, err := client.GetNextRuns(args[0], nextCount)
		if err != nil {
			fmt.Printf("❌ Failed to get next runs: %v\n", err)
			os.Exit(1)
		}

		if outputJSON {
			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				fmt.Printf("❌ Error encoding JSON: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(data))
			return
		}

		fmt.Printf("\n📅 %s (%s)\n", schedule.Name, schedule.Description)
		fmt.Printf("   Cron: %s, timezone: %s\n\n", schedule.CronExpression, schedule.Timezone)

		if len(result.NextRuns) == 0 {
			fmt.Println("📭 No upcoming runs (schedule may be disabled)")
			return
		}

		for i, run := range result.NextRuns {
			fmt.Printf("   %2d. %s\n", i+1, run.Format(time.RFC1123))
		}
	},
}

func init() {
	rootCmd.AddCommand(nextCmd)
	nextCmd.Flags().IntVar(&nextCount, "count", 10, "Number of upcoming runs to show (1-100)")
}
