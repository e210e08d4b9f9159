package jobs

import (
	"context"
	"log/slog"

	"orders/internal/core/application/usecases/queries"
	"orders/internal/core/domain/model/auth"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// StatsSnapshotJob periodically reads the lifecycle statistics and
// publishes the per-state order counts as Prometheus gauges. The job is
// read-only; it never mutates orders.
type StatsSnapshotJob struct {
	handler  queries.GetStatusStatsQueryHandler
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewStatsSnapshotJob creates a snapshot job with the given cron schedule
// (standard five-field spec or a descriptor such as "@every 1m").
func NewStatsSnapshotJob(
	handler queries.GetStatusStatsQueryHandler,
	schedule string,
	logger *slog.Logger,
) *StatsSnapshotJob {
	return &StatsSnapshotJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger.With("component", "stats_snapshot_job"),
	}
}

// Start schedules the snapshot and takes one immediately so the gauges
// are populated before the first tick.
func (j *StatsSnapshotJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.snapshot); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Stats snapshot job started", "schedule", j.schedule)
	j.snapshot()
	return nil
}

// Stop stops the snapshot job.
func (j *StatsSnapshotJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Stats snapshot job stopped")
}

func (j *StatsSnapshotJob) snapshot() {
	ctx := context.Background()

	system, err := auth.NewPrincipal("system", auth.RoleAdmin)
	if err != nil {
		j.logger.ErrorContext(ctx, "Stats snapshot principal", "error", err)
		return
	}

	query, err := queries.NewGetStatusStatsQuery(system)
	if err != nil {
		j.logger.ErrorContext(ctx, "Stats snapshot query", "error", err)
		return
	}

	stats, err := j.handler.Handle(ctx, query)
	if err != nil {
		j.logger.ErrorContext(ctx, "Stats snapshot failed", "error", err)
		return
	}

	// States with no orders are absent from the result; reset all five
	// gauges so stale counts do not linger after the last order leaves
	// a state.
	for _, status := range order.AllStatuses() {
		metrics.OrdersByState.WithLabelValues(status.String()).Set(0)
	}
	for _, stat := range stats.ByState {
		metrics.OrdersByState.WithLabelValues(stat.State.String()).Set(float64(stat.Count))
	}

	j.logger.InfoContext(ctx, "Stats snapshot taken", "states", len(stats.ByState))
}
