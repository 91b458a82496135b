package main

import (
	"context"
	"os"

	"clubsite-backend/internal/shared"
	"clubsite-backend/pkg/container"
	"clubsite-backend/pkg/logger"

	"github.com/hibiken/asynq"
)

type asynqServer struct {
	*asynq.Server
}

func setupAsynqServer(c *container.Container, handlers *HandlerRegistry) *asynqServer {
	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	srv := asynq.NewServer(
		c.RedisOpt(),
		asynq.Config{
			Queues: map[string]int{
				shared.QueueMedia:   10,
				shared.QueueDefault: 5,
			},
			Concurrency: 4,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				retried, _ := asynq.GetRetryCount(ctx)
				maxRetry, _ := asynq.GetMaxRetry(ctx)
				logger.ErrorWith("Task failed", err, map[string]interface{}{
					"type":      task.Type(),
					"retry":     retried,
					"max_retry": maxRetry,
				})
			}),
		},
	)

	if err := srv.Start(mux); err != nil {
		logger.Error("Failed to start worker", err)
		os.Exit(1)
	}
	logger.Info("Worker started", nil)

	return &asynqServer{Server: srv}
}

// Shutdown waits for in-flight tasks up to asynq's shutdown timeout.
func (s *asynqServer) Shutdown() {
	s.Server.Shutdown()
}
