package queue

import (
	"encoding/json"
	"time"

	"clubsite-backend/internal/config"
	mediaModel "clubsite-backend/internal/domains/media/model"
	"clubsite-backend/internal/shared"
	"clubsite-backend/pkg/logger"

	"github.com/hibiken/asynq"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
	media     config.MediaConfig
}

func NewScheduler(opt asynq.RedisClientOpt, media config.MediaConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		opt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		media:     media,
	}
}

func (s *Scheduler) RegisterJobs() error {
	return s.registerSweepOrphansJob()
}

// Orphan sweep: removes bucket objects no record references.
func (s *Scheduler) registerSweepOrphansJob() error {
	payload, err := json.Marshal(mediaModel.SweepOrphansPayload{
		GraceSeconds: int64(s.media.OrphanGrace / time.Second),
	})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeMediaSweepOrphans, payload)

	_, err = s.scheduler.Register(
		s.media.SweepCron,
		task,
		asynq.Queue(shared.QueueMedia),
		asynq.MaxRetry(1),
		asynq.Timeout(15*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register SweepOrphans job", err)
		return err
	}

	logger.Info("Registered SweepOrphans", map[string]interface{}{
		"cron":  s.media.SweepCron,
		"grace": s.media.OrphanGrace.String(),
	})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
