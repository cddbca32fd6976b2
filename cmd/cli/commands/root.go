package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile    string
	apiURL     string
	apiToken   string
	outputJSON bool
)

var rootCmd = &cobra.Command{
	Use:   "taskdeck",
	Short: "TaskDeck CLI - Manage task schedules and cron expressions",
	Long: `The TaskDeck CLI translates between cron expressions and readable
schedules, and manages task schedules on a TaskDeck server.

Examples:
  taskdeck describe "30 7 * * 1-5"
  taskdeck check "*/10 * * * *"
  taskdeck build --frequency weekly --hour 18 --minute 15 --days 0,2,4
  taskdeck list
  taskdeck token --subject ci-bot`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initConfig()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.taskdeck.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "http://localhost:8080", "TaskDeck API URL")
	rootCmd.PersistentFlags().StringVar(&apiToken, "api-token", "", "API authentication token")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output results in JSON format")

	// Bind flags to viper
	viper.BindPFlag("api.url", rootCmd.PersistentFlags().Lookup("api-url"))
	viper.BindPFlag("api.token", rootCmd.PersistentFlags().Lookup("api-token"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".taskdeck" (without extension)
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".taskdeck")
	}

	viper.SetEnvPrefix("TASKDECK")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if !outputJSON {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}

	// Override with flags if provided
	if apiURL != "" && apiURL != "http://localhost:8080" {
		viper.Set("api.url", apiURL)
	}
	if apiToken != "" {
		viper.Set("api.token", apiToken)
	}
}
