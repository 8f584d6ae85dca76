// Package leveldb stores the ledger in an ordered goleveldb key space.
package leveldb

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/btcsuite/goleveldb/leveldb"
	"github.com/btcsuite/goleveldb/leveldb/opt"
	"github.com/btcsuite/goleveldb/leveldb/storage"
	"github.com/goodnatureofminers/hackchain/internal/model"
	"github.com/jellydator/ttlcache/v3"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned by the read accessors for unknown keys.
	ErrNotFound = model.ErrNotFound
	// ErrForkNotAllowed is returned when a block does not extend the current tip.
	ErrForkNotAllowed = errors.New("block parent is not the chain tip")
	// ErrMissingOutput is returned when an input references an output the ledger does not hold.
	ErrMissingOutput = errors.New("referenced output does not exist")
	// ErrDoubleSpend is returned when an input references an output that is already spent.
	ErrDoubleSpend = errors.New("output already spent")
	// ErrDuplicateTX is returned when a transaction is already committed.
	ErrDuplicateTX = errors.New("transaction already stored")
	// ErrClosed is returned by every accessor once Close has been called.
	ErrClosed = errors.New("ledger closed")
)

const txCacheTTL = 10 * time.Minute

// Chain is the append-only ledger: blocks, transactions and their spend and unspent indices.
// Reads are safe for concurrent use. StoreBlock and StoreTX are single-writer.
type Chain struct {
	db      *leveldb.DB
	logger  *zap.Logger
	metrics Metrics
	txCache *ttlcache.Cache[model.Hash, *model.TX]

	writing atomic.Bool
	closed  atomic.Bool
}

// Open opens (or creates) the ledger database in dir.
func Open(dir string, logger *zap.Logger, metrics Metrics) (*Chain, error) {
	if dir == "" {
		return nil, errors.New("ledger data dir is required")
	}
	db, err := leveldb.OpenFile(dir, &opt.Options{})
	if err != nil {
		return nil, fmt.Errorf("open leveldb %s: %w", dir, err)
	}
	return newChain(db, logger, metrics), nil
}

// OpenMemory opens a ledger that lives only in memory.
func OpenMemory(logger *zap.Logger, metrics Metrics) (*Chain, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, fmt.Errorf("open memory leveldb: %w", err)
	}
	return newChain(db, logger, metrics), nil
}

func newChain(db *leveldb.DB, logger *zap.Logger, metrics Metrics) *Chain {
	c := &Chain{
		db:      db,
		logger:  logger,
		metrics: metrics,
		txCache: ttlcache.New[model.Hash, *model.TX](
			ttlcache.WithTTL[model.Hash, *model.TX](txCacheTTL),
			ttlcache.WithDisableTouchOnHit[model.Hash, *model.TX](),
		),
	}
	go c.txCache.Start()
	return c
}

// Close drops the cache and closes the database. Later calls return ErrClosed.
func (c *Chain) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	c.txCache.Stop()
	c.txCache.DeleteAll()
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("close leveldb: %w", err)
	}
	return nil
}

// get reads key, translating a missing key into ErrNotFound.
func (c *Chain) get(key []byte) ([]byte, error) {
	if c.closed.Load() {
		return nil, fmt.Errorf("get %s: %w", key, ErrClosed)
	}
	value, err := c.db.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

func (c *Chain) has(key []byte) (bool, error) {
	_, err := c.get(key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func decodeHash(key, value []byte) (model.Hash, error) {
	var h model.Hash
	if len(value) != model.HashSize {
		return h, fmt.Errorf("decode %s: %d bytes is not a hash: %w", key, len(value), model.ErrMalformed)
	}
	copy(h[:], value)
	return h, nil
}
