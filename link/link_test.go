package link

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingResolver(calls *atomic.Int32, known map[uint32]string) Resolver[string] {
	return func(id uint32) (string, bool) {
		calls.Add(1)
		v, ok := known[id]
		return v, ok
	}
}

func TestGetOrPutResolvesOnce(t *testing.T) {
	var calls atomic.Int32
	resolve := countingResolver(&calls, map[uint32]string{7: "smoke"})

	l := New[string](7)
	assert.Equal(t, Unresolved, l.State())

	for i := 0; i < 5; i++ {
		v, ok := l.GetOrPut(resolve)
		require.True(t, ok)
		assert.Equal(t, "smoke", v)
	}

	assert.EqualValues(t, 1, calls.Load())
	assert.Equal(t, Resolved, l.State())
}

func TestGetOrPutCachesAbsence(t *testing.T) {
	var calls atomic.Int32
	resolve := countingResolver(&calls, map[uint32]string{})

	l := New[string](42)
	for i := 0; i < 5; i++ {
		v, ok := l.GetOrPut(resolve)
		assert.False(t, ok)
		assert.Empty(t, v)
	}

	assert.EqualValues(t, 1, calls.Load())
	assert.Equal(t, Absent, l.State())
}

func TestAbsenceIsNotRetried(t *testing.T) {
	known := map[uint32]string{}
	var calls atomic.Int32
	resolve := countingResolver(&calls, known)

	l := New[string](3)
	_, ok := l.GetOrPut(resolve)
	require.False(t, ok)

	// target appears later; the link keeps its first outcome
	known[3] = "late"
	_, ok = l.GetOrPut(resolve)
	assert.False(t, ok)
	assert.EqualValues(t, 1, calls.Load())
}

func TestGetDoesNotResolve(t *testing.T) {
	l := New[string](1)
	_, ok := l.Get()
	assert.False(t, ok)
	assert.Equal(t, Unresolved, l.State())

	l.GetOrPut(func(uint32) (string, bool) { return "x", true })
	v, ok := l.Get()
	assert.True(t, ok)
	assert.Equal(t, "x", v)
}

func TestResolverReceivesID(t *testing.T) {
	var got uint32
	l := New[int](0xABCD)
	l.GetOrPut(func(id uint32) (int, bool) {
		got = id
		return 0, false
	})
	assert.EqualValues(t, 0xABCD, got)
	assert.EqualValues(t, 0xABCD, l.ID())
}

func TestPanickingResolverLeavesAbsent(t *testing.T) {
	l := New[string](5)
	assert.Panics(t, func() {
		l.GetOrPut(func(uint32) (string, bool) { panic("boom") })
	})
	_, ok := l.GetOrPut(func(uint32) (string, bool) { return "never", true })
	assert.False(t, ok)
	assert.Equal(t, Absent, l.State())
}

func TestConcurrentFirstAccess(t *testing.T) {
	var calls atomic.Int32
	resolve := countingResolver(&calls, map[uint32]string{9: "spark"})
	l := New[string](9)

	var wg sync.WaitGroup
	results := make([]string, 64)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = l.GetOrPut(resolve)
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, calls.Load())
	for _, r := range results {
		assert.Equal(t, "spark", r)
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "unresolved", Unresolved.String())
	assert.Equal(t, "resolved", Resolved.String())
	assert.Equal(t, "absent", Absent.String())
	assert.Equal(t, "link(4, unresolved)", New[int](4).String())
}
