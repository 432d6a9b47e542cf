package fanout

import "github.com/ygrebnov/fanout/metrics"

// Names of the instruments the engine records into the configured metrics.Provider.
const (
	MetricRuns           = "fanout_runs_total"
	MetricTasksEnqueued  = "fanout_tasks_enqueued_total"
	MetricTasksCompleted = "fanout_tasks_completed_total"
	MetricTasksFailed    = "fanout_tasks_failed_total"
	MetricTasksAbsent    = "fanout_tasks_absent_total"
	MetricErrorsDropped  = "fanout_errors_dropped_total"
	MetricTasksInflight  = "fanout_tasks_inflight"
	MetricTaskDuration   = "fanout_task_duration_seconds"
)

type instruments struct {
	runs      metrics.Counter
	enqueued  metrics.Counter
	completed metrics.Counter
	failed    metrics.Counter
	absent    metrics.Counter
	dropped   metrics.Counter
	inflight  metrics.UpDownCounter
	duration  metrics.Histogram
}

func newInstruments(p metrics.Provider) *instruments {
	return &instruments{
		runs: p.Counter(MetricRuns,
			metrics.WithDescription("Engine invocations started."), metrics.WithUnit("1")),
		enqueued: p.Counter(MetricTasksEnqueued,
			metrics.WithDescription("Items added to the work queue, seeds included."), metrics.WithUnit("1")),
		completed: p.Counter(MetricTasksCompleted,
			metrics.WithDescription("Tasks which finished without a failure."), metrics.WithUnit("1")),
		failed: p.Counter(MetricTasksFailed,
			metrics.WithDescription("Tasks which returned an error or panicked."), metrics.WithUnit("1")),
		absent: p.Counter(MetricTasksAbsent,
			metrics.WithDescription("Tasks which reported no result."), metrics.WithUnit("1")),
		dropped: p.Counter(MetricErrorsDropped,
			metrics.WithDescription("Failures observed after the first one of a run."), metrics.WithUnit("1")),
		inflight: p.UpDownCounter(MetricTasksInflight,
			metrics.WithDescription("Tasks currently being processed."), metrics.WithUnit("1")),
		duration: p.Histogram(MetricTaskDuration,
			metrics.WithDescription("Task function execution time."), metrics.WithUnit("seconds")),
	}
}
