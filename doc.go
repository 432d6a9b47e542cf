// Package fanout runs a function over a work queue that may grow while it is being
// drained, using a fixed number of workers.
//
// Processing one item may enqueue further items, which makes the engine suitable for
// walking recursive or paginated sources: listing a directory enqueues its children,
// fetching a page enqueues the next one. A run ends when nothing is queued and nothing
// is in flight at the same time; an empty backlog alone does not end it, since an
// in-flight item may still add work.
//
// Entry points
//   - Run: fan-out map. The task function receives a Queue handle to enqueue follow-up
//     items and may return ErrNoResult to report an item without output.
//   - Map: strict one-to-one map. One output per input for a successful run.
//   - ForEach: fan-out walk for side effects only.
//
// Defaults
// Unless overridden, the following defaults apply to every call:
//   - Workers: runtime.NumCPU()
//   - Trim: true (outputs of ErrNoResult items are dropped; always false for Map)
//   - AllErrors: false (first failure wins)
//   - ErrorTagging: true (failures are *TaskError values carrying the item)
//   - Metrics: metrics.NoopProvider
//   - Logger: discards all records
//
// Failures
// The first task failure stops the run: workers take no further items, the backlog is
// discarded and the context handed to task functions is canceled. Every worker is joined
// before the failure is returned; no partial results are returned with it. Panics in task
// functions are reported as failures wrapping ErrTaskPanicked. Retrying is left to the
// task function, see package retry.
//
// Ordering
// Results are collected in completion order. With a single worker items are processed
// in strict FIFO order, which is useful as a deterministic oracle in tests.
//
// Every call owns its queue and result collection; concurrent calls do not interact.
package fanout
