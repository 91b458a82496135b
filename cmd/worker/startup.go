package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"clubsite-backend/pkg/container"
	"clubsite-backend/pkg/logger"
	"clubsite-backend/pkg/metrics"
)

const defaultHealthAddr = ":9999"

// startServices verifies the worker's dependencies, then exposes the
// health and metrics endpoints.
func startServices(c *container.Container) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	checks := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"redis", c.Cache.Ping},
		{"storage", c.Storage.HealthCheck},
		{"database", c.DB.HealthCheck},
	}
	for _, check := range checks {
		if err := check.fn(ctx); err != nil {
			return fmt.Errorf("%s check failed: %w", check.name, err)
		}
		logger.Info("Startup check passed", map[string]interface{}{"check": check.name})
	}

	go startHealthCheckServer(c)
	return nil
}

func startHealthCheckServer(c *container.Container) {
	addr := os.Getenv("WORKER_HEALTH_ADDR")
	if addr == "" {
		addr = defaultHealthAddr
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		services := c.HealthCheck(ctx)
		code := http.StatusOK
		for _, v := range services {
			if v != "ok" {
				code = http.StatusServiceUnavailable
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"service": "clubsite-worker", "services": services})
	})
	mux.Handle("/metrics", metrics.Handler())

	logger.Info("Worker health server starting", map[string]interface{}{"addr": addr})
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("Worker health server failed", err)
	}
}
