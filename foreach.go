package fanout

import "context"

// ForEach walks items with the Run engine for side effects only. Like Run, fn may enqueue
// follow-up items, which makes ForEach suitable for recursive walks such as copying a tree
// of keys. It returns the failure which stopped the walk, or nil.
func ForEach[T any](ctx context.Context, items []T, fn func(context.Context, Queue[T], T) error, opts ...Option) error {
	opts = append(opts[:len(opts):len(opts)], WithTrim(true))
	_, err := Run[T, struct{}](ctx, items, func(c context.Context, q Queue[T], item T) (struct{}, error) {
		if err := fn(c, q, item); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, ErrNoResult
	}, opts...)
	return err
}
