package leveldb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/hackchain/internal/model"
)

// Tip returns the hash of the last committed block, or model.ZeroHash for an empty ledger.
func (c *Chain) Tip(ctx context.Context) (model.Hash, error) {
	start := time.Now()
	var err error
	defer func() {
		c.metrics.Observe("tip", err, start)
	}()

	if err = ctx.Err(); err != nil {
		return model.ZeroHash, err
	}
	tip, err := c.tip()
	return tip, err
}

func (c *Chain) tip() (model.Hash, error) {
	value, err := c.get(tipKey)
	if errors.Is(err, ErrNotFound) {
		return model.ZeroHash, nil
	}
	if err != nil {
		return model.ZeroHash, err
	}
	return decodeHash(tipKey, value)
}

// GetBlock returns the committed block with the given hash.
func (c *Chain) GetBlock(ctx context.Context, hash model.Hash) (*model.Block, error) {
	start := time.Now()
	var err error
	defer func() {
		c.metrics.Observe("get_block", err, start)
	}()

	if err = ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := c.get(blockKey(hash))
	if err != nil {
		return nil, fmt.Errorf("get block %s: %w", hash, err)
	}
	block, err := model.ParseBlock(raw)
	if err != nil {
		return nil, fmt.Errorf("decode block %s: %w", hash, err)
	}
	return block, nil
}
