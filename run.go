package fanout

import "context"

// Run processes items with a fixed number of workers draining a shared queue.
// While processing an item, fn may enqueue follow-up items through q (e.g. children of
// a tree node or the next page of a listing); Run returns once the queue is drained and
// every worker has exited.
//
// Semantics:
//   - Results are collected in completion order; no ordering is guaranteed.
//   - Items for which fn returns ErrNoResult are dropped unless WithTrim(false) is set,
//     in which case the zero value of R is collected instead.
//   - The first failure stops the run: workers take no further items, the backlog is
//     discarded, and the context passed to fn is canceled. Tasks already in flight finish
//     and may still contribute results, but Run returns only the error (first failure wins;
//     see WithAllErrors). The error is a *TaskError carrying the failed item unless
//     WithoutErrorTagging is set.
//   - All workers are joined before Run returns, on success and on failure.
//   - Invalid options fail before any worker starts.
//
// ctx is passed through to fn. Run does not watch it: a canceled ctx stops the run only
// through the failures fn returns because of it.
func Run[T, R any](
	ctx context.Context,
	items []T,
	fn func(ctx context.Context, q Queue[T], item T) (R, error),
	opts ...Option,
) ([]R, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	return run(ctx, cfg, items, fn)
}

// run owns the lifecycle of one invocation: queue, signal and sink are created here
// and never outlive the call.
func run[T, R any](
	ctx context.Context, cfg *config, items []T, fn func(context.Context, Queue[T], T) (R, error),
) ([]R, error) {
	if len(items) == 0 {
		return nil, nil
	}

	instr := newInstruments(cfg.Metrics)
	instr.runs.Add(1)

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	queue := newWorkQueue[T](instr)
	signal := newErrorSignal(func() {
		cancel()
		queue.abort()
	}, cfg.AllErrors, instr, cfg.Logger)
	results := &sink[R]{}

	queue.Enqueue(items...)

	cfg.Logger.Debug("run started", "workers", cfg.Workers, "items", len(items))

	threads := make([]*thread, 0, cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		w := &worker[T, R]{
			ctx:    taskCtx,
			fn:     fn,
			queue:  queue,
			signal: signal,
			sink:   results,
			instr:  instr,
			trim:   cfg.Trim,
			tag:    cfg.ErrorTagging,
		}
		threads = append(threads, spawn(w.run))
	}

	queue.wait()

	// Every worker failure, a panic included, is raised on the signal before the
	// worker exits, so the signal alone decides the outcome.
	for _, t := range threads {
		_ = t.join()
	}

	if err := signal.err(); err != nil {
		cfg.Logger.Debug("run failed", "workers", cfg.Workers, "error", err)
		return nil, err
	}

	out := results.collect()
	cfg.Logger.Debug("run finished", "workers", cfg.Workers, "results", len(out))
	return out, nil
}
