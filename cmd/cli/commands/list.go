package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/taskdeck/taskdeck/internal/cli"
	"github.com/taskdeck/taskdeck/internal/models"
)

var (
	enabledOnly  bool
	disabledOnly bool
	listLimit    int
	listOffset   int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List task schedules",
	Long: `List task schedules from the TaskDeck server.

Examples:
  taskdeck list
  taskdeck list --enabled-only
  taskdeck list --json`,
	Run: func(cmd *cobra.Command, args []string) {
		client := cli.NewClient(viper.GetString("api.url"), viper.GetString("api.token"))

		if err := client.HealthCheck(); err != nil {
			fmt.Printf("❌ API health check failed: %v\n", err)
			fmt.Println("💡 Tip: Make sure the API server is running")
			os.Exit(1)
		}

		result, err := client.ListSchedules(listLimit, listOffset)
		if err != nil {
			fmt.Printf("❌ Failed to list schedules: %v\n", err)
			os.Exit(1)
		}

		schedules := result.Schedules
		if enabledOnly {
			filtered := schedules[:0]
			for _, s := range schedules {
				if s.Enabled {
					filtered = append(filtered, s)
				}
			}
			schedules = filtered
		} else if disabledOnly {
			filtered := schedules[:0]
			for _, s := range schedules {
				if !s.Enabled {
					filtered = append(filtered, s)
				}
			}
			schedules = filtered
		}

		if outputJSON {
			data, err := json.MarshalIndent(schedules, "", "  ")
			if err != nil {
				fmt.Printf("❌ Error encoding JSON: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(data))
			return
		}

		printScheduleList(schedules, result.Total)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&enabledOnly, "enabled-only", false, "Show only enabled schedules")
	listCmd.Flags().BoolVar(&disabledOnly, "disabled-only", false, "Show only disabled schedules")
	listCmd.Flags().IntVar(&listLimit, "limit", 50, "Maximum number of schedules to fetch")
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "Offset into the schedule list")
}

func printScheduleList(schedules []*models.TaskSchedule, total int64) {
	if len(schedules) == 0 {
		fmt.Println("📭 No schedules found")
		fmt.Println("\n💡 Create a schedule through the API:")
		fmt.Println("  POST /api/v1/schedules")
		return
	}

	fmt.Printf("\n📋 Showing %d of %d schedule(s):\n\n", len(schedules), total)
	fmt.Printf("%-38s %-24s %-14s %-30s %s\n", "Schedule ID", "Name", "Cron", "Reads As", "Status")

	for _, s := range schedules {
		status := "✅ Enabled"
		if !s.Enabled {
			status = "❌ Disabled"
		}

		fmt.Printf("%-38s %-24s %-14s %-30s %s\n",
			truncate(s.ID.String(), 38),
			truncate(s.Name, 24),
			truncate(s.CronExpression, 14),
			truncate(s.Description, 30),
			status,
		)
	}

	fmt.Println("\n📖 View upcoming runs:")
	fmt.Println("  GET /api/v1/schedules/<id>/next-runs")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
