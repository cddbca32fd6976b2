package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/cronplan"
)

var describeTimezone string

var describeCmd = &cobra.Command{
	Use:   "describe <cron-expression>",
	Short: "Describe a cron expression in plain English",
	Long: `Describe translates a five-field cron expression into a readable
sentence. Expressions outside the recognized patterns are reported as a
custom schedule.

Examples:
  taskdeck describe "30 7 * * 1-5"
  taskdeck describe "00 08 * * 0,6" --timezone Europe/Berlin`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		expr := args[0]
		description := cronplan.Describe(expr, describeTimezone)

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

		fmt.Printf("🕐 %s\n", description)
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().StringVar(&describeTimezone, "timezone", "", "IANA timezone to append to the description")
}
