// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package layer

import "github.com/born-ml/microlayer/internal/arena"

// Arena is a bounded LIFO scratch allocator.
type Arena = arena.Arena

// Heap is an unbounded scratch allocator.
type Heap = arena.Heap

// ArenaStats describes allocator activity.
type ArenaStats = arena.Stats

// NewArena creates a scratch arena of capacity bytes. Size it with the sum of
// ScratchSize over the layers that share it.
func NewArena(capacity int) (*Arena, error) {
	return arena.New(capacity)
}

// NewHeap creates a heap scratch allocator.
func NewHeap() *Heap {
	return arena.NewHeap()
}
