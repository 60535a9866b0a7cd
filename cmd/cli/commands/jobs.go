package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leadgrid/leadgrid/internal/types"
)

// jobOutput represents the filtered output for a job
type jobOutput struct {
	ID         uint   `json:"id"`
	SearchTerm string `json:"search_term"`
	Location   string `json:"location"`
	Limit      int    `json:"limit"`
	Status     string `json:"status"`
	FoundCount int    `json:"found_count"`
}

// jobListOutput represents the filtered output for a list of jobs
type jobListOutput struct {
	Jobs []jobOutput `json:"jobs"`
}

func init() {
	jobsCmd.AddCommand(createJobCmd)
	jobsCmd.AddCommand(listJobsCmd)
	jobsCmd.AddCommand(getJobCmd)
	jobsCmd.AddCommand(cancelJobCmd)
	jobsCmd.AddCommand(jobLeadsCmd)

	createJobCmd.Flags().StringP("term", "t", "", "Search term, e.g. \"pekáreň\"")
	createJobCmd.Flags().StringP("location", "l", "", "City name or the whole-country sentinel")
	createJobCmd.Flags().IntP("limit", "n", 0, "Target number of results")
	_ = createJobCmd.MarkFlagRequired("term")
	_ = createJobCmd.MarkFlagRequired("location")
	_ = createJobCmd.MarkFlagRequired("limit")

	listJobsCmd.Flags().StringP("status", "f", "", "Filter jobs by status")
	listJobsCmd.Flags().IntP("page", "p", 1, "Page of results to fetch")

	getJobCmd.Flags().UintP("id", "i", 0, "Job ID to fetch")
	_ = getJobCmd.MarkFlagRequired("id")

	cancelJobCmd.Flags().UintP("id", "i", 0, "Job ID to cancel")
	_ = cancelJobCmd.MarkFlagRequired("id")

	jobLeadsCmd.Flags().UintP("id", "i", 0, "Job ID to fetch leads for")
	jobLeadsCmd.Flags().IntP("page", "p", 1, "Page of results to fetch")
	_ = jobLeadsCmd.MarkFlagRequired("id")
}

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Manage scrape jobs",
}

var createJobCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new scrape job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		term, _ := cmd.Flags().GetString("term")
		location, _ := cmd.Flags().GetString("location")
		limit, _ := cmd.Flags().GetInt("limit")

		job, err := apiClient.CreateJob(context.Background(), types.CreateJobRequest{
			SearchTerm: term,
			Location:   location,
			Limit:      limit,
		})
		if err != nil {
			return fmt.Errorf("error creating job: %w", err)
		}
		return printJSON(jobOutput{
			ID:         job.ID,
			SearchTerm: job.SearchTerm,
			Location:   job.Location,
			Limit:      job.Limit,
			Status:     string(job.Status),
			FoundCount: job.FoundCount,
		})
	},
}

var listJobsCmd = &cobra.Command{
	Use:   "list",
	Short: "List all jobs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		status, _ := cmd.Flags().GetString("status")
		page, _ := cmd.Flags().GetInt("page")

		response, err := apiClient.ListJobs(context.Background(), status, page)
		if err != nil {
			return fmt.Errorf("error fetching jobs: %w", err)
		}

		output := jobListOutput{
			Jobs: make([]jobOutput, len(response.Jobs)),
		}
		for i, job := range response.Jobs {
			output.Jobs[i] = jobOutput{
				ID:         job.ID,
				SearchTerm: job.SearchTerm,
				Location:   job.Location,
				Limit:      job.Limit,
				Status:     string(job.Status),
				FoundCount: job.FoundCount,
			}
		}
		return printJSON(output)
	},
}

var getJobCmd = &cobra.Command{
	Use:   "get",
	Short: "Get a specific job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		jobID, _ := cmd.Flags().GetUint("id")

		job, err := apiClient.GetJob(context.Background(), jobID)
		if err != nil {
			return fmt.Errorf("error fetching job: %w", err)
		}
		return printJSON(job)
	},
}

var cancelJobCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Cancel a job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		jobID, _ := cmd.Flags().GetUint("id")

		if err := apiClient.CancelJob(context.Background(), jobID); err != nil {
			return fmt.Errorf("error cancelling job: %w", err)
		}
		fmt.Printf("job %d cancelled\n", jobID)
		return nil
	},
}

var jobLeadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "List the leads a job has produced",
	RunE: func(cmd *cobra.Command, _ []string) error {
		jobID, _ := cmd.Flags().GetUint("id")
		page, _ := cmd.Flags().GetInt("page")

		response, err := apiClient.ListJobLeads(context.Background(), jobID, page)
		if err != nil {
			return fmt.Errorf("error fetching leads: %w", err)
		}
		return printJSON(response)
	},
}

// GetJobsCmd returns the jobs command
func GetJobsCmd() *cobra.Command {
	return jobsCmd
}

// printJSON pretty-prints a value to stdout
func printJSON(v interface{}) error {
	prettyJSON, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error formatting response: %w", err)
	}
	fmt.Println(string(prettyJSON))
	return nil
}
