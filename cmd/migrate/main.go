// Command migrate runs the schema migrations and exits.
package main

import (
	"github.com/joho/godotenv"

	"github.com/leadgrid/leadgrid/config"
	"github.com/leadgrid/leadgrid/internal/db"
	"github.com/leadgrid/leadgrid/internal/logger"
)

func main() {
	_ = godotenv.Load()
	logger.Initialize()

	// db.New migrates on connect; connecting is the whole job here.
	_, err := db.New(db.Options{
		Host:     config.GetEnv("DB_HOST", ""),
		User:     config.GetEnv("DB_USER", ""),
		Password: config.GetEnv("DB_PASSWORD", ""),
		DBName:   config.GetEnv("DB_NAME", ""),
		Port:     config.GetEnvInt("DB_PORT", 0),
	})
	if err != nil {
		logger.Fatalf("migration failed: %v", err)
	}
	logger.Info("migrations applied")
}
