package leveldb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/goleveldb/leveldb"
	"github.com/goodnatureofminers/hackchain/internal/model"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// appliedTX remembers what storeTX wrote so a failed block can be undone.
type appliedTX struct {
	tx       *model.TX
	consumed []model.Unspent
}

// StoreBlock commits block on top of the current tip.
//
// The block record is written first, then one batch per transaction in order, then the tip. If a
// transaction cannot be stored the batches already written for this block are deleted again on a
// best-effort basis and the original error is returned. A block whose parent is not the tip is
// rejected with ErrForkNotAllowed before anything is written. Calling StoreBlock while another
// write is in flight panics.
func (c *Chain) StoreBlock(ctx context.Context, block *model.Block) error {
	start := time.Now()
	var err error
	defer func() {
		c.metrics.Observe("store_block", err, start)
	}()

	c.acquire()
	defer c.release()

	hash := block.Hash()
	tip, err := c.tip()
	if err != nil {
		return fmt.Errorf("read tip: %w", err)
	}
	if block.Parent != tip {
		err = fmt.Errorf("store block %s on %s, tip is %s: %w", hash, block.Parent, tip, ErrForkNotAllowed)
		return err
	}
	exists, err := c.has(blockKey(hash))
	if err != nil {
		return fmt.Errorf("check block %s: %w", hash, err)
	}
	if exists {
		err = fmt.Errorf("store block %s: already stored", hash)
		return err
	}

	if err = c.db.Put(blockKey(hash), block.Render(), nil); err != nil {
		return fmt.Errorf("put block %s: %w", hash, err)
	}

	applied := make([]appliedTX, 0, len(block.TXs))
	for i, tx := range block.TXs {
		var a appliedTX
		if err = ctx.Err(); err == nil {
			a, err = c.storeTX(tx, hash)
		}
		if err != nil {
			err = fmt.Errorf("store block %s tx %d: %w", hash, i, err)
			c.compensate(hash, applied)
			return err
		}
		applied = append(applied, a)
	}

	if err = c.db.Put(tipKey, hash[:], nil); err != nil {
		err = fmt.Errorf("advance tip to %s: %w", hash, err)
		c.compensate(hash, applied)
		return err
	}

	c.logger.Info("block stored",
		zap.String("hash", hash.String()),
		zap.String("parent", block.Parent.String()),
		zap.Int("txs", len(block.TXs)),
	)
	return nil
}

// StoreTX commits a single transaction into the already stored block.
func (c *Chain) StoreTX(ctx context.Context, tx *model.TX, block model.Hash) error {
	start := time.Now()
	var err error
	defer func() {
		c.metrics.Observe("store_tx", err, start)
	}()

	c.acquire()
	defer c.release()

	if err = ctx.Err(); err != nil {
		return err
	}
	exists, err := c.has(blockKey(block))
	if err != nil {
		return fmt.Errorf("check block %s: %w", block, err)
	}
	if !exists {
		err = fmt.Errorf("store tx %s into block %s: %w", tx.Hash(), block, ErrNotFound)
		return err
	}
	_, err = c.storeTX(tx, block)
	return err
}

// storeTX writes the tx body, its block edge, its spend edges and the unspent index changes as one batch.
func (c *Chain) storeTX(tx *model.TX, block model.Hash) (appliedTX, error) {
	h := tx.Hash()
	exists, err := c.has(txKey(h))
	if err != nil {
		return appliedTX{}, fmt.Errorf("check tx %s: %w", h, err)
	}
	if exists {
		return appliedTX{}, fmt.Errorf("tx %s: %w", h, ErrDuplicateTX)
	}

	batch := new(leveldb.Batch)
	batch.Put(txBlockKey(h), block[:])

	var consumed []model.Unspent
	if !tx.IsCoinbase() {
		seen := make(map[model.OutPoint]struct{}, len(tx.Inputs))
		for i, in := range tx.Inputs {
			op := in.OutPoint()
			if _, dup := seen[op]; dup {
				return appliedTX{}, fmt.Errorf("input %d spends %s twice: %w", i, op, ErrDoubleSpend)
			}
			seen[op] = struct{}{}

			value, err := c.outputValue(op)
			if err != nil {
				return appliedTX{}, fmt.Errorf("input %d: %w", i, err)
			}
			spent, err := c.has(spentByKey(op))
			if err != nil {
				return appliedTX{}, fmt.Errorf("check spender of %s: %w", op, err)
			}
			if spent {
				return appliedTX{}, fmt.Errorf("input %d spends %s: %w", i, op, ErrDoubleSpend)
			}

			batch.Put(spentByKey(op), h[:])
			if value != 0 {
				batch.Delete(unspentKey(op, value))
			}
			consumed = append(consumed, model.Unspent{OutPoint: op, Value: value})
		}
	}

	batch.Put(txKey(h), tx.Render())
	for i, out := range tx.Outputs {
		if out.Value == 0 {
			continue
		}
		batch.Put(unspentKey(model.OutPoint{Hash: h, Index: uint32(i)}, out.Value), []byte{})
	}

	if err := c.db.Write(batch, nil); err != nil {
		return appliedTX{}, fmt.Errorf("write tx %s: %w", h, err)
	}
	return appliedTX{tx: tx, consumed: consumed}, nil
}

func (c *Chain) outputValue(op model.OutPoint) (uint64, error) {
	prev, err := c.loadTX(op.Hash)
	if errors.Is(err, ErrNotFound) {
		return 0, fmt.Errorf("%s: %w", op, ErrMissingOutput)
	}
	if err != nil {
		return 0, err
	}
	if int64(op.Index) >= int64(len(prev.Outputs)) {
		return 0, fmt.Errorf("%s: %w", op, ErrMissingOutput)
	}
	return prev.Outputs[op.Index].Value, nil
}

// compensate undoes applied in reverse order and deletes the block record. Failures are logged, not returned.
func (c *Chain) compensate(block model.Hash, applied []appliedTX) {
	var errs error
	for i := len(applied) - 1; i >= 0; i-- {
		a := applied[i]
		h := a.tx.Hash()

		batch := new(leveldb.Batch)
		batch.Delete(txKey(h))
		batch.Delete(txBlockKey(h))
		for idx, out := range a.tx.Outputs {
			if out.Value != 0 {
				batch.Delete(unspentKey(model.OutPoint{Hash: h, Index: uint32(idx)}, out.Value))
			}
		}
		for _, u := range a.consumed {
			batch.Delete(spentByKey(u.OutPoint))
			if u.Value != 0 {
				batch.Put(unspentKey(u.OutPoint, u.Value), []byte{})
			}
		}
		if err := c.db.Write(batch, nil); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("undo tx %s: %w", h, err))
		}
		c.txCache.Delete(h)
	}
	if err := c.db.Delete(blockKey(block), nil); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("delete block %s: %w", block, err))
	}

	if errs != nil {
		c.logger.Error("block rollback incomplete",
			zap.String("hash", block.String()),
			zap.Int("txs", len(applied)),
			zap.Error(errs),
		)
		return
	}
	c.logger.Warn("block rolled back", zap.String("hash", block.String()), zap.Int("txs", len(applied)))
}

func (c *Chain) acquire() {
	if !c.writing.CompareAndSwap(false, true) {
		panic("leveldb: concurrent ledger write")
	}
}

func (c *Chain) release() {
	c.writing.Store(false)
}
