// Package chain maintains the append-only sequence of accepted blocks.
package chain

import "github.com/ravenlabs/blockchain/foundation/blockchain/block"

// Chain is an append-only ordered sequence of blocks. Blocks are never
// removed or reordered once appended.
type Chain struct {
	blocks []*block.Block
}

// New constructs an empty chain.
func New() *Chain {
	return &Chain{}
}

// Append adds a block to the end of the chain.
func (c *Chain) Append(b *block.Block) {
	c.blocks = append(c.blocks, b)
}

// Head returns the most recently appended block, nil for an empty chain.
func (c *Chain) Head() *block.Block {
	if len(c.blocks) == 0 {
		return nil
	}

	return c.blocks[len(c.blocks)-1]
}

// Length returns the number of blocks on the chain.
func (c *Chain) Length() int {
	return len(c.blocks)
}

// Blocks returns the chain in order, oldest first.
func (c *Chain) Blocks() []*block.Block {
	blocks := make([]*block.Block, len(c.blocks))
	copy(blocks, c.blocks)

	return blocks
}
