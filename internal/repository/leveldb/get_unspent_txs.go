package leveldb

import (
	"context"
	"fmt"
	"time"

	"github.com/btcsuite/goleveldb/leveldb/util"
	"github.com/goodnatureofminers/hackchain/internal/model"
)

// GetUnspentTXs lists up to limit unspent outputs, largest value first. limit <= 0 lists all of them.
func (c *Chain) GetUnspentTXs(ctx context.Context, limit int) ([]model.Unspent, error) {
	start := time.Now()
	var err error
	defer func() {
		c.metrics.Observe("get_unspent_txs", err, start)
	}()

	iter := c.db.NewIterator(util.BytesPrefix(unspentPrefix), nil)
	defer iter.Release()

	var out []model.Unspent
	for ok := iter.Last(); ok; ok = iter.Prev() {
		if limit > 0 && len(out) >= limit {
			break
		}
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		var u model.Unspent
		if u, err = parseUnspentKey(iter.Key()); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err = iter.Error(); err != nil {
		return nil, fmt.Errorf("iterate unspent outputs: %w", err)
	}
	return out, nil
}
