// Package block implements the audio block and block pool data model: a
// fixed set of fixed-capacity sample buffers, allocated once at startup,
// with stable identity for the program's lifetime. Blocks are identified by
// index, never by contents, so they can be passed through the transport
// queues as handles instead of copies.
package block

import (
	"fmt"

	"github.com/chriskillpack/mcu-audio-pipeline/dsp"
)

// BlockID is the stable identity of a block within its pool.
type BlockID int

// Block is a fixed-capacity contiguous sequence of single-precision audio
// samples. Capacity is fixed at construction.
type Block struct {
	ID      BlockID
	Samples []float32
}

// Pool is the fixed set of NUM_BUFFERS blocks allocated at startup. All
// blocks live for the process lifetime; Pool never grows or shrinks.
type Pool struct {
	blocks []Block
}

// NewPool allocates numBuffers blocks of bufferSize samples each, all
// zero-initialized, with IDs 0..numBuffers-1 in index order.
func NewPool(numBuffers, bufferSize int) (*Pool, error) {
	if numBuffers <= 0 {
		return nil, fmt.Errorf("block pool: numBuffers %d must be positive: %w", numBuffers, dsp.ErrInvalidArgument)
	}
	if bufferSize <= 0 {
		return nil, fmt.Errorf("block pool: bufferSize %d must be positive: %w", bufferSize, dsp.ErrInvalidArgument)
	}

	blocks := make([]Block, numBuffers)
	for i := range blocks {
		blocks[i] = Block{ID: BlockID(i), Samples: make([]float32, bufferSize)}
	}

	return &Pool{blocks: blocks}, nil
}

// NumBuffers reports NUM_BUFFERS for this pool.
func (p *Pool) NumBuffers() int { return len(p.blocks) }

// BufferSize reports BUFFER_SIZE for this pool's blocks.
func (p *Pool) BufferSize() int {
	if len(p.blocks) == 0 {
		return 0
	}
	return len(p.blocks[0].Samples)
}

// Block returns a pointer to the block with the given stable ID. The
// caller must hold exclusive ownership of id per the pipeline's ownership
// discipline; Pool itself performs no ownership tracking.
func (p *Pool) Block(id BlockID) *Block {
	return &p.blocks[id]
}

// IDs returns every block ID in the pool, in index order. Used to seed the
// free queue at startup.
func (p *Pool) IDs() []BlockID {
	ids := make([]BlockID, len(p.blocks))
	for i := range ids {
		ids[i] = BlockID(i)
	}
	return ids
}
