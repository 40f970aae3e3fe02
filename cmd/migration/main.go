package main

import (
	"context"
	"fmt"
	"mindhub-service/internal/app/config"
	"mindhub-service/internal/app/drivers/database"
	"mindhub-service/internal/app/drivers/logger"
	"os"
	"time"

	"go.uber.org/zap"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig, err := config.NewInternalConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewZapLogger(driverConfig, internalConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := database.NewMongoDB(ctx, driverConfig, log)
	if err != nil {
		log.Fatal("Error connecting to mongodb", zap.Error(err))
	}
	defer db.Client().Disconnect(context.Background())

	if err := database.EnsureIndexes(ctx, db, log); err != nil {
		log.Fatal("Error creating mongodb indexes", zap.Error(err))
	}
	log.Info("Migration finished")
}
