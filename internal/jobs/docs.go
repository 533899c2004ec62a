// Package jobs provides scheduled background tasks for the dispatch service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
// Each job wraps one command handler and reports its outcome to the
// Prometheus collector.
//
// # Available Jobs
//
// 1. HotStateReconcileJob - Runs every minute. Initializes missing courier
// runtime state, repairs max load and zone drift, prunes expired members of
// the active-locations index.
// 2. LocationHistoryPurgeJob - Runs daily at 03:00 and deletes location
// history older than the configured retention.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(
//		jobs.NewHotStateReconcileJob(reconcileHandler, collector, log),
//		jobs.NewLocationHistoryPurgeJob(purgeHandler, retention, collector, log),
//	)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("failed to start jobs", "error", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - Failures are logged and the next tick runs normally
// - A tick is skipped while the previous run of the same job is still busy
// - Failed job starts will stop any already running jobs
package jobs
