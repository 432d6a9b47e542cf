package fanout

import "context"

// Map applies fn to every item using the Run engine and returns exactly one output per item
// for a successful run. Trimming is always disabled, so an item for which fn returns
// ErrNoResult contributes the zero value of R. fn cannot enqueue follow-up items.
//
// Output order follows completion, not input: callers needing positional correspondence
// should map (index, item) pairs and sort the outputs afterwards.
func Map[T, R any](ctx context.Context, items []T, fn func(context.Context, T) (R, error), opts ...Option) ([]R, error) {
	opts = append(opts[:len(opts):len(opts)], WithTrim(false))
	return Run[T, R](ctx, items, func(c context.Context, _ Queue[T], item T) (R, error) {
		return fn(c, item)
	}, opts...)
}
