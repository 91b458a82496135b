package main

import (
	"os"

	"clubsite-backend/internal/infrastructure/queue"
	"clubsite-backend/pkg/container"
	"clubsite-backend/pkg/logger"
)

type asynqScheduler struct {
	*queue.Scheduler
}

func setupScheduler(c *container.Container) *asynqScheduler {
	scheduler := queue.NewScheduler(c.RedisOpt(), c.Config.Media)

	if err := scheduler.RegisterJobs(); err != nil {
		logger.Error("Failed to register scheduled jobs", err)
		os.Exit(1)
	}

	if err := scheduler.Start(); err != nil {
		logger.Error("Failed to start scheduler", err)
		os.Exit(1)
	}
	logger.Info("Scheduler started", nil)

	return &asynqScheduler{Scheduler: scheduler}
}
