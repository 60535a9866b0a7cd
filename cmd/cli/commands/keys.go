package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leadgrid/leadgrid/internal/types"
)

func init() {
	keysCmd.AddCommand(listKeysCmd)
	keysCmd.AddCommand(addKeyCmd)

	addKeyCmd.Flags().StringP("label", "l", "", "Human-readable label for the key")
	addKeyCmd.Flags().StringP("secret", "k", "", "The API key material")
	addKeyCmd.Flags().IntP("daily-cap", "c", 0, "Daily call ceiling (default 300)")
	_ = addKeyCmd.MarkFlagRequired("secret")

	listKeysCmd.Flags().IntP("page", "p", 1, "Page of results to fetch")
}

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage places-API credentials",
}

var listKeysCmd = &cobra.Command{
	Use:   "list",
	Short: "List all credentials with usage counters",
	RunE: func(cmd *cobra.Command, _ []string) error {
		page, _ := cmd.Flags().GetInt("page")

		response, err := apiClient.ListCredentials(context.Background(), page)
		if err != nil {
			return fmt.Errorf("error fetching credentials: %w", err)
		}
		return printJSON(response)
	},
}

var addKeyCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a new API key",
	RunE: func(cmd *cobra.Command, _ []string) error {
		label, _ := cmd.Flags().GetString("label")
		secret, _ := cmd.Flags().GetString("secret")
		dailyCap, _ := cmd.Flags().GetInt("daily-cap")

		cred, err := apiClient.CreateCredential(context.Background(), types.CreateCredentialRequest{
			Label:    label,
			Secret:   secret,
			DailyCap: dailyCap,
		})
		if err != nil {
			return fmt.Errorf("error creating credential: %w", err)
		}
		return printJSON(cred)
	},
}

// GetKeysCmd returns the keys command
func GetKeysCmd() *cobra.Command {
	return keysCmd
}
