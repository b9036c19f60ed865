package layer

import (
	"fmt"

	"github.com/born-ml/microlayer/internal/arena"
	"github.com/born-ml/microlayer/internal/tensor"
)

// acquireScratch allocates a tensor with the dtype and shape of like, sized
// by like's footprint. The returned release func must be called on every
// path; it frees the block and drops the shape reference.
func acquireScratch(alloc arena.Allocator, like *tensor.Tensor) (*tensor.Tensor, func(), error) {
	block, err := alloc.Alloc(like.Footprint())
	if err != nil {
		return nil, nil, fmt.Errorf("scratch for %v: %w", like, err)
	}
	scratch := tensor.Alias(like.DType(), like.ShapeRef())
	release := func() {
		scratch.Release()
		block.Release()
	}
	if err := scratch.BindBlock(block.Bytes()); err != nil {
		release()
		return nil, nil, fmt.Errorf("scratch for %v: %w", like, err)
	}
	return scratch, release, nil
}
