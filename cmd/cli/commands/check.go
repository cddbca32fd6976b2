package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/cronplan"
)

var checkCmd = &cobra.Command{
	Use:   "check <cron-expression>",
	Short: "Check which editor mode a cron expression opens in",
	Long: `Check opens an editor for the expression the way the console does
and reports the resulting mode. Expressions inside the structured subset
open in easy mode; anything else is valid only as a raw cron string and
opens in advanced mode.

Examples:
  taskdeck check "30 7 * * 1-5"
  taskdeck check "*/10 * * * *"`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		expr := args[0]
		editor := cronplan.NewEditor(expr)
		schedule := editor.Schedule()

		if outputJSON {
			result := map[string]interface{}{
				"cron_expression": editor.Expression(),
				"mode":            editor.Mode(),
			}
			if editor.Mode() == cronplan.ModeEasy {
				result["schedule"] = schedule
			}
			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				fmt.Printf("❌ Error encoding JSON: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(data))
			return
		}

		if editor.Mode() == cronplan.ModeAdvanced {
			fmt.Println("⚠️  Opens in advanced mode (custom schedule)")
			return
		}

		fmt.Println("✅ Opens in easy mode")
		fmt.Printf("   Canonical: %s\n", editor.Expression())
		fmt.Printf("   Frequency: %s\n", schedule.Frequency)
		fmt.Printf("   Time:      %02d:%02d\n", schedule.Hour, schedule.Minute)
		if schedule.Frequency == cronplan.Weekly {
			fmt.Printf("   Days:      %v\n", schedule.Weekdays)
		}
		if schedule.Frequency == cronplan.Monthly {
			fmt.Printf("   Month day: %d\n", schedule.MonthDay)
		}
		fmt.Printf("   Reads as:  %s\n", cronplan.Describe(editor.Expression(), ""))
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
