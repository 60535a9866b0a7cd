package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leadgrid/leadgrid/config"
	"github.com/leadgrid/leadgrid/internal/db"
	"github.com/leadgrid/leadgrid/internal/db/models"
	"github.com/leadgrid/leadgrid/internal/db/repos"
	"github.com/leadgrid/leadgrid/internal/engine"
	"github.com/leadgrid/leadgrid/internal/logger"
	"github.com/leadgrid/leadgrid/internal/places"
	"github.com/leadgrid/leadgrid/internal/services"
)

// runCmd is the foreground driver: it talks to the database directly and
// keeps invoking engine slices until the queue is idle or the user stops
// it. Cancellation is cooperative; Ctrl-C sets a flag that the engine
// checks between units of work, so in-flight calls complete and every
// charged credential corresponds to an attempted call.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process the scrape queue in the foreground",
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger.Initialize()

		database, err := db.New(db.Options{
			Host:     config.GetEnv("DB_HOST", ""),
			User:     config.GetEnv("DB_USER", ""),
			Password: config.GetEnv("DB_PASSWORD", ""),
			DBName:   config.GetEnv("DB_NAME", ""),
			Port:     config.GetEnvInt("DB_PORT", 0),
		})
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}

		jobRepo := repos.NewJobRepository(database)
		credRepo := repos.NewCredentialRepository(database)
		leadRepo := repos.NewLeadRepository(database)
		placesClient := places.NewHTTPClient(config.GetEnv("PLACES_BASE_URL", ""))

		worker := services.NewWorker(jobRepo, credRepo, leadRepo, placesClient, engine.Options{
			SliceBudget: config.GetEnvDuration("WORKER_SLICE_BUDGET", engine.DefaultSliceBudget),
			SoftCap:     config.GetEnvInt("WORKER_SOFT_CAP", engine.DefaultSoftCap),
			BatchSize:   config.GetEnvInt("WORKER_BATCH_SIZE", engine.DefaultBatchSize),
		})

		var stopped atomic.Bool
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		go func() {
			<-sigCh
			fmt.Println("stopping after the current call completes...")
			stopped.Store(true)
		}()

		ctx := context.Background()
		for {
			outcome, ran, err := worker.RunOnce(ctx, stopped.Load)
			if err != nil {
				return fmt.Errorf("slice failed: %w", err)
			}
			if !ran {
				fmt.Println("queue is idle")
				return nil
			}

			fmt.Printf("slice done: status=%s found=%d\n", outcome.Status, outcome.FoundCount)

			switch outcome.Status {
			case models.JobStatusProcessing:
				// More work on the same job. If a stop was requested
				// between slices, the next slice observes the flag
				// immediately and writes the cancelled status itself.
			case models.JobStatusCancelled:
				return nil
			case models.JobStatusPaused:
				// Without an eligible credential the next job would pause
				// too; stop rather than spin.
				fmt.Println("job paused; stopping")
				return nil
			default:
				// Completed: move on to the next queued job.
				if stopped.Load() {
					return nil
				}
			}
		}
	},
}

// GetRunCmd returns the run command
func GetRunCmd() *cobra.Command {
	return runCmd
}
