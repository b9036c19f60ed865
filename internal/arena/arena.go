// Package arena provides scoped scratch memory for single layer operations.
//
// An Arena reserves its whole capacity once, at construction, and hands out
// blocks in LIFO order. A block lives for one operation: it is acquired on
// entry and released before the operation returns. The steady-state footprint
// of a caller is therefore zero beyond the arena itself.
package arena

import (
	"errors"
	"fmt"
	"sync"
)

// ErrResourceExhausted is returned when a block cannot be provided.
var ErrResourceExhausted = errors.New("scratch memory exhausted")

// Allocator hands out scratch blocks.
type Allocator interface {
	Alloc(size int) (*Block, error)
}

// Block is a scratch region. Release returns it to its allocator; calling
// Release more than once is a no-op.
type Block struct {
	data     []byte
	offset   int
	released bool
	owner    releaser
}

type releaser interface {
	release(b *Block)
}

// Bytes returns the block's memory. It must not be used after Release.
func (b *Block) Bytes() []byte {
	return b.data
}

// Size returns the block length in bytes.
func (b *Block) Size() int {
	return len(b.data)
}

// Release gives the block back.
func (b *Block) Release() {
	if b == nil || b.owner == nil {
		return
	}
	b.owner.release(b)
}

// Stats describes allocator activity.
type Stats struct {
	Allocs    uint64 // Successful allocations
	Releases  uint64 // Released blocks
	Failures  uint64 // Allocations refused with ErrResourceExhausted
	PeakBytes int    // Highest number of bytes in use at once
	InUse     int    // Bytes currently in use
	Live      int    // Blocks currently in use
}

// Arena is a bounded LIFO allocator over one preallocated buffer.
//
// Blocks released out of order are parked until every block above them is
// released too, so memory is reclaimed strictly from the top. An Arena is safe
// for concurrent use, but concurrent users park each other's blocks; give
// each independent chain its own arena.
type Arena struct {
	mu     sync.Mutex
	buf    []byte
	top    int
	blocks []*Block // live or parked, in allocation order
	stats  Stats
}

// New creates an arena of capacity bytes.
func New(capacity int) (*Arena, error) {
	if capacity < 0 {
		return nil, fmt.Errorf("arena: negative capacity %d", capacity)
	}
	return &Arena{buf: make([]byte, capacity)}, nil
}

// Capacity returns the arena size in bytes.
func (a *Arena) Capacity() int {
	return len(a.buf)
}

// InUse returns the number of bytes between the base and the top.
func (a *Arena) InUse() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.top
}

// Alloc reserves size bytes from the top of the arena. The memory is zeroed.
func (a *Arena) Alloc(size int) (*Block, error) {
	if size < 0 {
		return nil, fmt.Errorf("arena: negative block size %d", size)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.top+size > len(a.buf) {
		a.stats.Failures++
		return nil, fmt.Errorf("%w: need %d bytes, %d of %d free",
			ErrResourceExhausted, size, len(a.buf)-a.top, len(a.buf))
	}

	data := a.buf[a.top : a.top+size : a.top+size]
	clear(data)
	b := &Block{data: data, offset: a.top, owner: a}
	a.top += size
	a.blocks = append(a.blocks, b)

	a.stats.Allocs++
	a.stats.Live++
	a.stats.InUse = a.top
	if a.top > a.stats.PeakBytes {
		a.stats.PeakBytes = a.top
	}
	return b, nil
}

func (a *Arena) release(b *Block) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if b.released {
		return
	}
	b.released = true
	a.stats.Releases++
	a.stats.Live--

	// Pop every released block from the top.
	for n := len(a.blocks); n > 0 && a.blocks[n-1].released; n = len(a.blocks) {
		last := a.blocks[n-1]
		a.top = last.offset
		a.blocks[n-1] = nil
		a.blocks = a.blocks[:n-1]
	}
	a.stats.InUse = a.top
}

// Reset drops every block at once. Blocks handed out before Reset must not be used.
func (a *Arena) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, b := range a.blocks {
		b.released = true
	}
	a.blocks = a.blocks[:0]
	a.top = 0
	a.stats.Live = 0
	a.stats.InUse = 0
}

// Stats returns a snapshot of allocator activity.
func (a *Arena) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

// Heap is an unbounded allocator backed by make. It keeps the same counters
// as Arena so callers can still check that blocks are not retained.
type Heap struct {
	mu    sync.Mutex
	stats Stats
}

// NewHeap creates a heap allocator.
func NewHeap() *Heap {
	return &Heap{}
}

// Alloc allocates size zeroed bytes.
func (h *Heap) Alloc(size int) (*Block, error) {
	if size < 0 {
		return nil, fmt.Errorf("arena: negative block size %d", size)
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	h.stats.Allocs++
	h.stats.Live++
	h.stats.InUse += size
	if h.stats.InUse > h.stats.PeakBytes {
		h.stats.PeakBytes = h.stats.InUse
	}
	return &Block{data: make([]byte, size), owner: h}, nil
}

func (h *Heap) release(b *Block) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if b.released {
		return
	}
	b.released = true
	h.stats.Releases++
	h.stats.Live--
	h.stats.InUse -= len(b.data)
	b.data = nil
}

// Stats returns a snapshot of allocator activity.
func (h *Heap) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stats
}
