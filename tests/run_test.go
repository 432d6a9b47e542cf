package tests

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ygrebnov/fanout"
)

func TestRun_DoublesEvenNumbers(t *testing.T) {
	res, err := fanout.Run(context.Background(), []int{1, 2, 3, 4},
		func(_ context.Context, _ fanout.Queue[int], x int) (int, error) {
			if x%2 == 1 {
				return 0, fanout.ErrNoResult
			}
			return x * 2, nil
		},
		fanout.WithWorkers(2),
	)
	require.NoError(t, err)
	require.ElementsMatch(t, []int{4, 8}, res)
}

func TestRun_RootEnqueuesChildren(t *testing.T) {
	res, err := fanout.Run(context.Background(), []string{"root"},
		func(_ context.Context, q fanout.Queue[string], name string) (string, error) {
			if name == "root" {
				q.Enqueue("a", "b")
				return "", fanout.ErrNoResult
			}
			return name, nil
		},
	)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a", "b"}, res)
}

func TestRun_FailureOnItem(t *testing.T) {
	boom := errors.New("boom")
	for i := 0; i < 50; i++ {
		res, err := fanout.Run(context.Background(), []int{1, 2, 3},
			func(_ context.Context, _ fanout.Queue[int], x int) (int, error) {
				if x == 2 {
					return 0, boom
				}
				return x * 10, nil
			},
			fanout.WithWorkers(2),
		)
		require.ErrorIs(t, err, boom)
		require.Nil(t, res)

		item, ok := fanout.ExtractItem[int](err)
		require.True(t, ok)
		require.Equal(t, 2, item, "error must be attributable to the failing item")
	}
}

func TestRun_TrimNeverReturnsAbsent(t *testing.T) {
	items := make([]int, 200)
	for i := range items {
		items[i] = i
	}

	res, err := fanout.Run(context.Background(), items,
		func(_ context.Context, _ fanout.Queue[int], x int) (*int, error) {
			if x%3 == 0 {
				return nil, fanout.ErrNoResult
			}
			return &x, nil
		},
		fanout.WithWorkers(8),
	)
	require.NoError(t, err)
	require.Len(t, res, 133)
	for _, r := range res {
		require.NotNil(t, r)
	}
}

func TestRun_WithoutTrimKeepsZeroValues(t *testing.T) {
	res, err := fanout.Run(context.Background(), []int{1, 2, 3, 4},
		func(_ context.Context, _ fanout.Queue[int], x int) (*int, error) {
			if x%2 == 1 {
				return nil, fanout.ErrNoResult
			}
			return &x, nil
		},
		fanout.WithTrim(false),
	)
	require.NoError(t, err)
	require.Len(t, res, 4)

	nils := 0
	for _, r := range res {
		if r == nil {
			nils++
		}
	}
	require.Equal(t, 2, nils)
}

func TestRun_EnqueuedItemsGrowResults(t *testing.T) {
	const k = 5
	res, err := fanout.Run(context.Background(), []int{0, 100, 200},
		func(_ context.Context, q fanout.Queue[int], x int) (int, error) {
			if x == 100 {
				for i := 1; i <= k; i++ {
					q.Enqueue(x + i)
				}
			}
			return x, nil
		},
		fanout.WithWorkers(3),
	)
	require.NoError(t, err)
	require.Len(t, res, 3+k)
	sort.Ints(res)
	require.Equal(t, []int{0, 100, 101, 102, 103, 104, 105, 200}, res)
}

// Paginated source: page n enqueues page n+1 until the last page.
func TestRun_PaginatedWalk(t *testing.T) {
	const pages, perPage = 20, 5

	res, err := fanout.Run(context.Background(), []int{0},
		func(_ context.Context, q fanout.Queue[int], page int) ([]string, error) {
			if page+1 < pages {
				q.Enqueue(page + 1)
			}
			out := make([]string, perPage)
			for i := range out {
				out[i] = fmt.Sprintf("p%d-%d", page, i)
			}
			return out, nil
		},
		fanout.WithWorkers(4),
	)
	require.NoError(t, err)
	require.Len(t, res, pages)

	seen := make(map[string]struct{})
	for _, page := range res {
		for _, v := range page {
			seen[v] = struct{}{}
		}
	}
	require.Len(t, seen, pages*perPage)
}

// Deep recursion while the backlog is momentarily empty: only one item exists at a time,
// so idle workers must keep waiting for in-flight work instead of exiting.
func TestRun_ChainDoesNotStopEarly(t *testing.T) {
	const depth = 200
	res, err := fanout.Run(context.Background(), []int{0},
		func(_ context.Context, q fanout.Queue[int], x int) (int, error) {
			time.Sleep(100 * time.Microsecond)
			if x < depth {
				q.Enqueue(x + 1)
			}
			return x, nil
		},
		fanout.WithWorkers(8),
	)
	require.NoError(t, err)
	require.Len(t, res, depth+1)
}

// A child enqueued while its parent is still running must be picked up by an idle
// worker right away, not after the parent finishes.
func TestRun_IdleWorkerTakesChildWhileParentRuns(t *testing.T) {
	for i := 0; i < 50; i++ {
		started := make(chan struct{})
		res, err := fanout.Run(context.Background(), []string{"root"},
			func(_ context.Context, q fanout.Queue[string], node string) (string, error) {
				if node == "child" {
					close(started)
					return node, nil
				}
				time.Sleep(2 * time.Millisecond) // let the idle worker park
				q.Enqueue("child")
				select {
				case <-started:
					return node, nil
				case <-time.After(2 * time.Second):
					return "", errors.New("child did not start while parent was in flight")
				}
			},
			fanout.WithWorkers(2),
		)
		require.NoError(t, err, "iteration %d", i)
		require.ElementsMatch(t, []string{"root", "child"}, res)
	}
}

func TestRun_SingleWorkerIsFIFO(t *testing.T) {
	var order []int
	res, err := fanout.Run(context.Background(), []int{1, 2, 3},
		func(_ context.Context, q fanout.Queue[int], x int) (int, error) {
			order = append(order, x)
			if x < 10 {
				q.Enqueue(x * 10)
			}
			return x, nil
		},
		fanout.WithWorkers(1),
	)
	require.NoError(t, err)
	want := []int{1, 2, 3, 10, 20, 30}
	require.Equal(t, want, res)
	require.Equal(t, want, order)
}

func TestRun_SingleWorkerMatchesParallelAsSet(t *testing.T) {
	fn := func(_ context.Context, q fanout.Queue[int], x int) (int, error) {
		if x < 64 {
			q.Enqueue(2*x, 2*x+1)
		}
		if x%5 == 0 {
			return 0, fanout.ErrNoResult
		}
		return x, nil
	}

	oracle, err := fanout.Run(context.Background(), []int{1}, fn, fanout.WithWorkers(1))
	require.NoError(t, err)
	parallel, err := fanout.Run(context.Background(), []int{1}, fn, fanout.WithWorkers(16))
	require.NoError(t, err)

	require.ElementsMatch(t, oracle, parallel)
}

func TestRun_EmptyInput(t *testing.T) {
	var calls atomic.Int32
	res, err := fanout.Run(context.Background(), nil,
		func(context.Context, fanout.Queue[int], int) (int, error) {
			calls.Add(1)
			return 0, nil
		},
	)
	require.NoError(t, err)
	require.Empty(t, res)
	require.Zero(t, calls.Load())
}

func TestRun_InvalidWorkerCountFailsBeforeStart(t *testing.T) {
	var calls atomic.Int32
	for _, n := range []int{0, -1} {
		res, err := fanout.Run(context.Background(), []int{1, 2},
			func(context.Context, fanout.Queue[int], int) (int, error) {
				calls.Add(1)
				return 0, nil
			},
			fanout.WithWorkers(n),
		)
		require.ErrorIs(t, err, fanout.ErrInvalidConfig)
		require.Nil(t, res)
	}
	require.Zero(t, calls.Load())
}

func TestRun_MoreWorkersThanItems(t *testing.T) {
	res, err := fanout.Run(context.Background(), []int{1},
		func(_ context.Context, _ fanout.Queue[int], x int) (int, error) { return x, nil },
		fanout.WithWorkers(64),
	)
	require.NoError(t, err)
	require.Equal(t, []int{1}, res)
}
