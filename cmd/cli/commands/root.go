// Package commands implements the leadgrid CLI.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leadgrid/leadgrid/pkg/api/v1/client"
	"github.com/leadgrid/leadgrid/pkg/api/v1/routes"
)

// flag names
const (
	flagServerAddress = "server-address"
)

// environment variable names
const (
	envServerAddress = "LEADGRID_SERVER_ADDRESS"
)

var (
	// apiClient is the shared API client instance
	apiClient client.Client
	// serverAddress holds the target API server address. Flag parsing sets this.
	serverAddress string
)

// initClient initializes the API client
func initClient() error {
	var err error
	opts := client.DefaultOptions()
	opts.BaseURL = serverAddress

	apiClient, err = client.NewClient(opts)
	return err
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&serverAddress, flagServerAddress, "s", routes.DefaultBaseURL, "Address of the leadgrid API server (env: LEADGRID_SERVER_ADDRESS)")

	RootCmd.AddCommand(GetJobsCmd())
	RootCmd.AddCommand(GetKeysCmd())
	RootCmd.AddCommand(GetRunCmd())
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "leadgrid",
	Short: "leadgrid CLI - manage and run geo-scoped lead scraping jobs",
	Long: `leadgrid CLI manages scrape jobs and API credentials through the leadgrid
API, and can drive the scrape queue in the foreground with the run command.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// Precedence: flag > env var > default.
		if !cmd.Flags().Changed(flagServerAddress) {
			if envAddr := os.Getenv(envServerAddress); envAddr != "" {
				serverAddress = envAddr
			}
		}
		if serverAddress == "" {
			return fmt.Errorf("server address cannot be empty")
		}
		return initClient()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}
