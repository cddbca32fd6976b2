package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/pkg/auth"
)

var (
	tokenSecret  string
	tokenSubject string
	tokenScopes  []string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a JWT for API access",
	Long: `Token signs a JWT with the server's shared secret so scripts and CI
jobs can call the authenticated API.

Examples:
  taskdeck token --secret $JWT_SECRET --subject ci-bot
  taskdeck token --secret $JWT_SECRET --subject deploy --ttl 1h --scopes schedules:write`,
	Run: func(cmd *cobra.Command, args []string) {
		if tokenSecret == "" {
			tokenSecret = os.Getenv("JWT_SECRET")
		}
		if tokenSecret == "" {
			fmt.Println("❌ No signing secret provided (use --secret or JWT_SECRET)")
			os.Exit(1)
		}

		manager := auth.NewJWTManagerWithTTL(tokenSecret, tokenTTL)
		token, err := manager.GenerateToken(tokenSubject, tokenScopes)
		if err != nil {
			fmt.Printf("❌ Failed to generate token: %v\n", err)
			os.Exit(1)
		}

		fmt.Println(token)
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().StringVar(&tokenSecret, "secret", "", "JWT signing secret (defaults to JWT_SECRET env var)")
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "cli", "Subject to embed in the token")
	tokenCmd.Flags().StringSliceVar(&tokenScopes, "scopes", nil, "Scopes to embed in the token")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", auth.DefaultTokenDuration, "Token lifetime")
}
