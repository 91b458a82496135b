package job

import (
	"context"
	"encoding/json"
	"fmt"

	"clubsite-backend/internal/domains/media/model"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

type deleter interface {
	RetryDelete(ctx context.Context, p model.DeletePayload) error
}

// DeleteHandler retries asset deletions that failed inline.
type DeleteHandler struct {
	media deleter
}

func NewDeleteHandler(media deleter) *DeleteHandler {
	return &DeleteHandler{media: media}
}

func (h *DeleteHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload model.DeletePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal media delete payload")
		return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}
	if payload.Key == "" {
		return fmt.Errorf("empty key: %w", asynq.SkipRetry)
	}

	if err := h.media.RetryDelete(ctx, payload); err != nil {
		log.Error().
			Err(err).
			Str("key", payload.Key).
			Str("owner", payload.Owner).
			Msg("Media delete retry failed")
		return err
	}

	log.Info().
		Str("key", payload.Key).
		Str("owner", payload.Owner).
		Msg("Media asset deleted on retry")
	return nil
}
