package main

import (
	"os"
	"os/signal"
	"syscall"

	"clubsite-backend/pkg/container"
	"clubsite-backend/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	c, err := container.NewContainer()
	if err != nil {
		logger.Error("Failed to initialize container", err)
		os.Exit(1)
	}
	defer c.Cleanup()

	if err := startServices(c); err != nil {
		logger.Error("Worker startup check failed", err)
		os.Exit(1)
	}

	handlers := initializeHandlers(c)
	srv := setupAsynqServer(c, handlers)
	scheduler := setupScheduler(c)

	waitForShutdown(srv, scheduler)
}

func waitForShutdown(srv *asynqServer, scheduler *asynqScheduler) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Worker shutting down", nil)
	scheduler.Shutdown()
	srv.Shutdown()
	logger.Info("Worker stopped", nil)
}
