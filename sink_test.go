package fanout

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSink_ConcurrentAdd(t *testing.T) {
	s := &sink[int]{}

	const writers, per = 8, 250
	var wg sync.WaitGroup
	wg.Add(writers)
	for w := 0; w < writers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < per; i++ {
				s.add(i)
			}
		}()
	}
	wg.Wait()

	require.Len(t, s.collect(), writers*per)
}

func TestSink_CollectReturnsCopy(t *testing.T) {
	s := &sink[string]{}
	s.add("a")

	out := s.collect()
	out[0] = "changed"
	s.add("b")

	require.Equal(t, []string{"a", "b"}, s.collect())
}

func TestSink_EmptyCollect(t *testing.T) {
	s := &sink[int]{}
	require.Empty(t, s.collect())
}
