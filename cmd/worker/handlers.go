package main

import (
	mediaJob "clubsite-backend/internal/domains/media/job"
	"clubsite-backend/internal/shared"
	"clubsite-backend/pkg/container"

	"github.com/hibiken/asynq"
)

// HandlerRegistry holds every task handler the worker serves.
type HandlerRegistry struct {
	mediaDelete *mediaJob.DeleteHandler
	mediaSweep  *mediaJob.SweepHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		mediaDelete: mediaJob.NewDeleteHandler(c.MediaService),
		mediaSweep:  mediaJob.NewSweepHandler(c.MediaService, c.Config.Media.OrphanGrace),
	}
}

func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.Handle(shared.TypeMediaDelete, h.mediaDelete)
	mux.Handle(shared.TypeMediaSweepOrphans, h.mediaSweep)
}
