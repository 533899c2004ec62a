package jobs

import (
	"context"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/pkg/logger"
	"dispatch/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// ReconcileHotStateSchedule runs the reconciler at the top of every minute.
const ReconcileHotStateSchedule = "0 * * * * *"

const reconcileTimeout = 50 * time.Second

// Repair kinds reported on the hot-state repairs counter.
const (
	RepairInitialized    = "initialized"
	RepairMaxLoad        = "max_load"
	RepairZone           = "zone"
	RepairPrunedLocation = "pruned_location"
)

type ReconcileHotStateHandler interface {
	Handle(ctx context.Context, cmd commands.ReconcileHotStateCommand) (commands.ReconcileHotStateResult, error)
}

// HotStateReconcileJob keeps the hot store consistent with the durable
// courier profiles.
type HotStateReconcileJob struct {
	handler ReconcileHotStateHandler
	metrics *metrics.Collector
	cron    *cron.Cron
	logger  *logger.Logger
}

func NewHotStateReconcileJob(
	handler ReconcileHotStateHandler,
	m *metrics.Collector,
	log *logger.Logger,
) *HotStateReconcileJob {
	return &HotStateReconcileJob{
		handler: handler,
		metrics: m,
		cron:    newCron(),
		logger:  log.With("component", "hot_state_reconcile_job"),
	}
}

func (j *HotStateReconcileJob) Start() error {
	if _, err := j.cron.AddFunc(ReconcileHotStateSchedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("hot state reconcile job started", "schedule", ReconcileHotStateSchedule)
	return nil
}

// Run executes one reconciliation pass. Repairs made before a failure are
// still counted.
func (j *HotStateReconcileJob) Run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, reconcileTimeout)
	defer cancel()

	cmd, err := commands.NewReconcileHotStateCommand(commands.DefaultReconcileBatchSize)
	if err != nil {
		j.logger.Error("invalid reconcile command", "error", err)
		return
	}

	result, err := j.handler.Handle(ctx, cmd)

	j.metrics.AddHotStateRepairs(RepairInitialized, result.Initialized)
	j.metrics.AddHotStateRepairs(RepairMaxLoad, result.MaxLoadRepaired)
	j.metrics.AddHotStateRepairs(RepairZone, result.ZonesMoved)
	j.metrics.AddHotStateRepairs(RepairPrunedLocation, result.LocationsPruned)

	if err != nil {
		j.logger.Error("hot state reconcile failed", "scanned", result.Scanned, "error", err)
		return
	}

	if result.Initialized+result.MaxLoadRepaired+result.ZonesMoved+result.LocationsPruned > 0 {
		j.logger.Info("hot state reconciled",
			"scanned", result.Scanned,
			"initialized", result.Initialized,
			"max_load", result.MaxLoadRepaired,
			"zone", result.ZonesMoved,
			"pruned", result.LocationsPruned,
		)
	}
}

func (j *HotStateReconcileJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("hot state reconcile job stopped")
}
