package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"clubsite-backend/internal/domains/media/model"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

type sweeper interface {
	SweepOrphans(ctx context.Context, grace time.Duration) (*model.SweepResult, error)
}

// SweepHandler reconciles the bucket against every stored media reference.
type SweepHandler struct {
	media        sweeper
	defaultGrace time.Duration
}

func NewSweepHandler(media sweeper, defaultGrace time.Duration) *SweepHandler {
	return &SweepHandler{media: media, defaultGrace: defaultGrace}
}

func (h *SweepHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload model.SweepOrphansPayload
	if len(task.Payload()) > 0 {
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
		}
	}

	grace := payload.Grace()
	if grace <= 0 {
		grace = h.defaultGrace
	}

	start := time.Now()
	res, err := h.media.SweepOrphans(ctx, grace)
	if err != nil {
		log.Error().Err(err).Msg("Orphan sweep failed")
		return err
	}

	log.Info().
		Int("scanned", res.Scanned).
		Int("referenced", res.Referenced).
		Int("recent", res.Recent).
		Int("removed", res.Removed).
		Int("failed", res.Failed).
		Dur("took", time.Since(start)).
		Msg("Orphan sweep finished")
	return nil
}
