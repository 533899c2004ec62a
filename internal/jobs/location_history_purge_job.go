package jobs

import (
	"context"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/pkg/logger"
	"dispatch/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// PurgeLocationHistorySchedule runs the purge daily at 03:00.
const PurgeLocationHistorySchedule = "0 0 3 * * *"

const purgeTimeout = 10 * time.Minute

type PurgeLocationHistoryHandler interface {
	Handle(ctx context.Context, cmd commands.PurgeLocationHistoryCommand) (int64, error)
}

// LocationHistoryPurgeJob removes location history older than the retention.
type LocationHistoryPurgeJob struct {
	handler   PurgeLocationHistoryHandler
	retention time.Duration
	metrics   *metrics.Collector
	cron      *cron.Cron
	logger    *logger.Logger
}

func NewLocationHistoryPurgeJob(
	handler PurgeLocationHistoryHandler,
	retention time.Duration,
	m *metrics.Collector,
	log *logger.Logger,
) *LocationHistoryPurgeJob {
	return &LocationHistoryPurgeJob{
		handler:   handler,
		retention: retention,
		metrics:   m,
		cron:      newCron(),
		logger:    log.With("component", "location_history_purge_job"),
	}
}

// Start schedules the purge. The first run happens at the next 03:00.
func (j *LocationHistoryPurgeJob) Start() error {
	if _, err := j.cron.AddFunc(PurgeLocationHistorySchedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("location history purge job started", "schedule", PurgeLocationHistorySchedule, "retention", j.retention)
	return nil
}

// Run executes one purge.
func (j *LocationHistoryPurgeJob) Run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, purgeTimeout)
	defer cancel()

	cmd, err := commands.NewPurgeLocationHistoryCommand(j.retention)
	if err != nil {
		j.logger.Error("invalid history retention", "retention", j.retention, "error", err)
		return
	}

	deleted, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.Error("location history purge failed", "error", err)
		return
	}

	j.metrics.AddHistoryPurged(deleted)
	j.logger.Info("location history purged", "deleted", deleted)
}

// Stop waits for a running purge to finish.
func (j *LocationHistoryPurgeJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("location history purge job stopped")
}
