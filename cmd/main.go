package main

import (
	"net/http"
	"time"

	fiber "github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/leadgrid/leadgrid/config"
	"github.com/leadgrid/leadgrid/internal/api/v1/handlers"
	v1 "github.com/leadgrid/leadgrid/internal/api/v1/routes"
	"github.com/leadgrid/leadgrid/internal/db"
	"github.com/leadgrid/leadgrid/internal/db/repos"
	"github.com/leadgrid/leadgrid/internal/engine"
	"github.com/leadgrid/leadgrid/internal/logger"
	"github.com/leadgrid/leadgrid/internal/places"
	"github.com/leadgrid/leadgrid/internal/services"
	"github.com/leadgrid/leadgrid/pkg/api/v1/routes"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	logger.Initialize()

	database, err := db.New(db.Options{
		Host:     config.GetEnv("DB_HOST", ""),
		User:     config.GetEnv("DB_USER", ""),
		Password: config.GetEnv("DB_PASSWORD", ""),
		DBName:   config.GetEnv("DB_NAME", ""),
		Port:     config.GetEnvInt("DB_PORT", 0),
	})
	if err != nil {
		logger.Fatalf("failed to connect to database: %v", err)
	}

	jobRepo := repos.NewJobRepository(database)
	credRepo := repos.NewCredentialRepository(database)
	leadRepo := repos.NewLeadRepository(database)

	jobService := services.NewJobService(jobRepo, leadRepo)
	credService := services.NewCredentialService(credRepo)

	placesClient := places.NewHTTPClient(config.GetEnv("PLACES_BASE_URL", ""))
	worker := services.NewWorker(jobRepo, credRepo, leadRepo, placesClient, engine.Options{
		SliceBudget: config.GetEnvDuration("WORKER_SLICE_BUDGET", engine.DefaultSliceBudget),
		SoftCap:     config.GetEnvInt("WORKER_SOFT_CAP", engine.DefaultSoftCap),
		BatchSize:   config.GetEnvInt("WORKER_BATCH_SIZE", engine.DefaultBatchSize),
	})

	workerCfg, err := config.NewWorkerConfig()
	if err != nil {
		// The server still serves CRUD without a self URL; only the
		// background chain is unavailable.
		logger.Warnf("background worker chain disabled: %v", err)
		workerCfg = &config.WorkerConfig{}
	}
	triggerURL := ""
	if workerCfg.SelfURL != "" {
		triggerURL = workerCfg.SelfURL + routes.WorkerRunPath
	}

	jobHandler := handlers.NewJobHandler(jobService)
	credHandler := handlers.NewCredentialHandler(credService)
	workerHandler := handlers.NewWorkerHandler(worker, triggerURL)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})
	app.Use(fiberlogger.New())

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	v1.Register(app, jobHandler, credHandler, workerHandler)

	// Periodic ping: restarts a background chain that stalled because a
	// self-trigger was dropped.
	if triggerURL != "" && workerCfg.PingSchedule != "" {
		c := cron.New()
		pingClient := &http.Client{Timeout: 10 * time.Second}
		_, err := c.AddFunc(workerCfg.PingSchedule, func() {
			resp, err := pingClient.Get(triggerURL)
			if err != nil {
				logger.Debugf("worker ping failed: %v", err)
				return
			}
			_ = resp.Body.Close()
		})
		if err != nil {
			logger.Fatalf("invalid WORKER_PING_SCHEDULE: %v", err)
		}
		c.Start()
		defer c.Stop()
	}

	port := config.GetEnv("PORT", routes.DefaultPort)
	logger.Infof("listening on :%s", port)
	if err := app.Listen(":" + port); err != nil {
		logger.Fatalf("server stopped: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
