package arena

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArenaAllocRelease(t *testing.T) {
	a, err := New(64)
	require.NoError(t, err)

	b1, err := a.Alloc(16)
	require.NoError(t, err)
	b2, err := a.Alloc(32)
	require.NoError(t, err)

	assert.Equal(t, 48, a.InUse())
	assert.Equal(t, 16, b1.Size())
	assert.Len(t, b2.Bytes(), 32)

	b2.Release()
	assert.Equal(t, 16, a.InUse())
	b1.Release()
	assert.Equal(t, 0, a.InUse())

	stats := a.Stats()
	assert.Equal(t, uint64(2), stats.Allocs)
	assert.Equal(t, uint64(2), stats.Releases)
	assert.Equal(t, 48, stats.PeakBytes)
	assert.Equal(t, 0, stats.Live)
}

func TestArenaExhaustion(t *testing.T) {
	a, err := New(10)
	require.NoError(t, err)

	b, err := a.Alloc(8)
	require.NoError(t, err)

	_, err = a.Alloc(4)
	require.ErrorIs(t, err, ErrResourceExhausted)
	assert.Equal(t, 8, a.InUse(), "failed alloc must not move the top")
	assert.Equal(t, uint64(1), a.Stats().Failures)

	b.Release()
	_, err = a.Alloc(10)
	require.NoError(t, err)
}

func TestArenaOutOfOrderRelease(t *testing.T) {
	a, err := New(30)
	require.NoError(t, err)

	b1, _ := a.Alloc(10)
	b2, _ := a.Alloc(10)
	b3, _ := a.Alloc(10)

	b2.Release()
	assert.Equal(t, 30, a.InUse(), "parked block below the top is not reclaimed yet")

	b3.Release()
	assert.Equal(t, 10, a.InUse())

	b1.Release()
	assert.Equal(t, 0, a.InUse())
}

func TestArenaDoubleRelease(t *testing.T) {
	a, err := New(8)
	require.NoError(t, err)
	b, _ := a.Alloc(8)
	b.Release()
	b.Release()
	assert.Equal(t, uint64(1), a.Stats().Releases)
	assert.Equal(t, 0, a.InUse())
}

func TestArenaZeroesReusedMemory(t *testing.T) {
	a, err := New(4)
	require.NoError(t, err)

	b, _ := a.Alloc(4)
	copy(b.Bytes(), []byte{1, 2, 3, 4})
	b.Release()

	b, _ = a.Alloc(4)
	assert.Equal(t, []byte{0, 0, 0, 0}, b.Bytes())
}

func TestArenaReset(t *testing.T) {
	a, err := New(8)
	require.NoError(t, err)
	_, _ = a.Alloc(4)
	_, _ = a.Alloc(4)
	a.Reset()
	assert.Equal(t, 0, a.InUse())
	assert.Equal(t, 0, a.Stats().Live)
}

// TestArenaConcurrentUse checks the counters under contention. Blocks parked
// below a live one are not reclaimed, so some allocations may be refused.
func TestArenaConcurrentUse(t *testing.T) {
	const workers, rounds, size = 8, 200, 16
	a, err := New(workers * size)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for r := 0; r < rounds; r++ {
				b, err := a.Alloc(size)
				if err != nil {
					assert.ErrorIs(t, err, ErrResourceExhausted)
					continue
				}
				b.Bytes()[0] = 1
				b.Release()
			}
		}()
	}
	wg.Wait()

	stats := a.Stats()
	assert.Equal(t, 0, a.InUse())
	assert.Equal(t, 0, stats.Live)
	assert.Equal(t, uint64(workers*rounds), stats.Allocs+stats.Failures)
	assert.Equal(t, stats.Allocs, stats.Releases)
	assert.LessOrEqual(t, stats.PeakBytes, a.Capacity())
}

func TestArenaRejectsNegative(t *testing.T) {
	_, err := New(-1)
	require.Error(t, err)

	a, err := New(4)
	require.NoError(t, err)
	_, err = a.Alloc(-1)
	require.Error(t, err)
}

func TestHeap(t *testing.T) {
	h := NewHeap()
	b, err := h.Alloc(12)
	require.NoError(t, err)
	assert.Len(t, b.Bytes(), 12)
	assert.Equal(t, 12, h.Stats().InUse)

	b.Release()
	b.Release()
	stats := h.Stats()
	assert.Equal(t, 0, stats.InUse)
	assert.Equal(t, 0, stats.Live)
	assert.Equal(t, 12, stats.PeakBytes)
}

var (
	_ Allocator = (*Arena)(nil)
	_ Allocator = (*Heap)(nil)
)
