package leveldb

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/hackchain/internal/model"
	"github.com/jellydator/ttlcache/v3"
)

// GetTX returns a committed transaction. Hits are served from an in-memory cache.
func (c *Chain) GetTX(ctx context.Context, hash model.Hash) (*model.TX, error) {
	start := time.Now()
	var err error
	defer func() {
		c.metrics.Observe("get_tx", err, start)
	}()

	if err = ctx.Err(); err != nil {
		return nil, err
	}
	tx, err := c.loadTX(hash)
	return tx, err
}

func (c *Chain) loadTX(hash model.Hash) (*model.TX, error) {
	if c.closed.Load() {
		return nil, fmt.Errorf("get tx %s: %w", hash, ErrClosed)
	}
	if item := c.txCache.Get(hash); item != nil {
		return item.Value(), nil
	}
	raw, err := c.get(txKey(hash))
	if err != nil {
		return nil, fmt.Errorf("get tx %s: %w", hash, err)
	}
	tx, err := model.ParseTX(raw)
	if err != nil {
		return nil, fmt.Errorf("decode tx %s: %w", hash, err)
	}
	c.txCache.Set(hash, tx, ttlcache.DefaultTTL)
	return tx, nil
}

// GetTXBlock returns the hash of the block that committed the transaction.
func (c *Chain) GetTXBlock(ctx context.Context, hash model.Hash) (model.Hash, error) {
	start := time.Now()
	var err error
	defer func() {
		c.metrics.Observe("get_tx_block", err, start)
	}()

	if err = ctx.Err(); err != nil {
		return model.ZeroHash, err
	}
	key := txBlockKey(hash)
	value, err := c.get(key)
	if err != nil {
		return model.ZeroHash, fmt.Errorf("get block of tx %s: %w", hash, err)
	}
	block, err := decodeHash(key, value)
	return block, err
}

// GetTXSpentBy returns the hash of the transaction that spent output index of hash.
// An unspent output yields ErrNotFound.
func (c *Chain) GetTXSpentBy(ctx context.Context, hash model.Hash, index uint32) (model.Hash, error) {
	start := time.Now()
	var err error
	defer func() {
		c.metrics.Observe("get_tx_spent_by", err, start)
	}()

	if err = ctx.Err(); err != nil {
		return model.ZeroHash, err
	}
	key := spentByKey(model.OutPoint{Hash: hash, Index: index})
	value, err := c.get(key)
	if err != nil {
		return model.ZeroHash, fmt.Errorf("get spender of %s:%d: %w", hash, index, err)
	}
	spender, err := decodeHash(key, value)
	return spender, err
}
