// Package mempool keeps verified transactions ordered by fee and mints them into blocks.
package mempool

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/goodnatureofminers/hackchain/internal/model"
	"github.com/goodnatureofminers/hackchain/internal/vm"
	"github.com/goodnatureofminers/hackchain/pkg/safe"
	"go.uber.org/zap"
)

// DefaultCapacity is used when Config.Capacity is not positive.
const DefaultCapacity = 1024

// MaxCapacity is the largest pool a single block can drain, leaving the first slot to the coinbase.
const MaxCapacity = model.MaxBlockTXs - 1

var (
	// ErrFeeTooLow is returned when the pool is full and the fee does not beat the lowest pending one.
	ErrFeeTooLow = errors.New("fee too low to fit")
	// ErrCoinbase is returned for coinbase transactions, which only Mint creates.
	ErrCoinbase = errors.New("coinbase not accepted")
	// ErrAlreadyPending is returned for a transaction the pool already holds.
	ErrAlreadyPending = errors.New("transaction already pending")
	// ErrConflict is returned when an input is already spent by a pending transaction.
	ErrConflict = errors.New("output already spent by pending transaction")
	// ErrCapacity is returned by NewPool for a capacity a minted block could not hold.
	ErrCapacity = errors.New("capacity exceeds block size")
)

// DefaultGuard returns the always-succeeding guard paid by minted coinbases.
func DefaultGuard() model.Script {
	a := vm.NewAssembler()
	a.IRQ(vm.IRQSuccess)
	code, err := a.Bytes()
	if err != nil {
		panic(fmt.Sprintf("assemble default guard: %v", err))
	}
	return code
}

// Entry is a pending transaction with the fee it pays.
type Entry struct {
	TX  *model.TX
	Fee uint64
}

// Config tunes a Pool.
type Config struct {
	Capacity int
	// Guard locks the coinbase output of minted blocks. Empty selects DefaultGuard.
	Guard model.Script
}

// Pool holds verified transactions in fee-descending order until they are minted.
type Pool struct {
	logger   *zap.Logger
	verifier Verifier
	chain    Chain
	metrics  Metrics
	capacity int
	guard    model.Script

	mintMu sync.Mutex

	mu      sync.Mutex
	entries []Entry
	byHash  map[model.Hash]struct{}
	spends  map[model.OutPoint]model.Hash
}

// NewPool builds an empty Pool.
func NewPool(logger *zap.Logger, verifier Verifier, chain Chain, metrics Metrics, cfg Config) (*Pool, error) {
	if verifier == nil {
		return nil, errors.New("mempool verifier is required")
	}
	if chain == nil {
		return nil, errors.New("mempool chain is required")
	}
	if metrics == nil {
		return nil, errors.New("mempool metrics is required")
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultCapacity
	}
	if cfg.Capacity > MaxCapacity {
		return nil, fmt.Errorf("mempool capacity %d above %d: %w", cfg.Capacity, MaxCapacity, ErrCapacity)
	}
	if len(cfg.Guard) == 0 {
		cfg.Guard = DefaultGuard()
	}
	if err := cfg.Guard.Validate(); err != nil {
		return nil, fmt.Errorf("coinbase guard: %w", err)
	}
	return &Pool{
		logger:   logger,
		verifier: verifier,
		chain:    chain,
		metrics:  metrics,
		capacity: cfg.Capacity,
		guard:    cfg.Guard,
		byHash:   make(map[model.Hash]struct{}),
		spends:   make(map[model.OutPoint]model.Hash),
	}, nil
}

// Accept verifies tx and inserts it by fee. When the pool is full the lowest-fee entry is evicted,
// but only for a strictly higher fee.
func (p *Pool) Accept(ctx context.Context, tx *model.TX) (fee uint64, err error) {
	started := time.Now()
	defer func() {
		p.metrics.ObserveAccept(err, started)
	}()

	if tx.IsCoinbase() {
		return 0, ErrCoinbase
	}
	hash := tx.Hash()

	p.mu.Lock()
	err = p.checkConflicts(hash, tx)
	p.mu.Unlock()
	if err != nil {
		return 0, err
	}

	fee, err = p.verifier.VerifyTX(ctx, tx)
	if err != nil {
		return 0, fmt.Errorf("verify tx %s: %w", hash, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Another caller may have taken the same outputs while tx was verified.
	if err = p.checkConflicts(hash, tx); err != nil {
		return 0, err
	}
	if len(p.entries) >= p.capacity {
		lowest := p.entries[len(p.entries)-1]
		if fee <= lowest.Fee {
			return 0, fmt.Errorf("tx %s pays %d, lowest pending pays %d: %w", hash, fee, lowest.Fee, ErrFeeTooLow)
		}
		p.removeLast()
		p.metrics.ObserveEvict()
		p.logger.Debug("evicted transaction",
			zap.String("hash", lowest.TX.Hash().String()),
			zap.Uint64("fee", lowest.Fee),
		)
	}
	p.insert(Entry{TX: tx, Fee: fee})
	p.metrics.SetPending(len(p.entries))
	return fee, nil
}

func (p *Pool) checkConflicts(hash model.Hash, tx *model.TX) error {
	if _, ok := p.byHash[hash]; ok {
		return fmt.Errorf("tx %s: %w", hash, ErrAlreadyPending)
	}
	for _, in := range tx.Inputs {
		if other, ok := p.spends[in.OutPoint()]; ok {
			return fmt.Errorf("tx %s spends %s, pending in %s: %w", hash, in.OutPoint(), other, ErrConflict)
		}
	}
	return nil
}

// insert places e after every entry paying at least as much.
func (p *Pool) insert(e Entry) {
	i := sort.Search(len(p.entries), func(i int) bool {
		return p.entries[i].Fee < e.Fee
	})
	p.entries = slices.Insert(p.entries, i, e)

	hash := e.TX.Hash()
	p.byHash[hash] = struct{}{}
	for _, in := range e.TX.Inputs {
		p.spends[in.OutPoint()] = hash
	}
}

func (p *Pool) removeLast() {
	last := p.entries[len(p.entries)-1]
	p.entries = p.entries[:len(p.entries)-1]

	delete(p.byHash, last.TX.Hash())
	for _, in := range last.TX.Inputs {
		delete(p.spends, in.OutPoint())
	}
}

func (p *Pool) drain() []Entry {
	p.mu.Lock()
	defer p.mu.Unlock()

	drained := p.entries
	p.entries = nil
	p.byHash = make(map[model.Hash]struct{})
	p.spends = make(map[model.OutPoint]model.Hash)
	p.metrics.SetPending(0)
	return drained
}

// Pending returns a snapshot of the pool in fee-descending order.
func (p *Pool) Pending() []Entry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.entries)
}

// Len returns the number of pending transactions.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// Mint drains the pool into a block on top of the current tip and commits it.
//
// The coinbase pays subsidy plus the fees of the drained transactions. Drained transactions that
// no longer verify are left out. If the block cannot be committed every drained transaction is dropped.
func (p *Pool) Mint(ctx context.Context, subsidy uint64) (block *model.Block, err error) {
	p.mintMu.Lock()
	defer p.mintMu.Unlock()

	started := time.Now()
	drained := p.drain()
	defer func() {
		p.metrics.ObserveMint(err, len(drained), started)
		if err != nil {
			p.dropped(drained, err)
		}
	}()

	tip, err := p.chain.Tip(ctx)
	if err != nil {
		return nil, fmt.Errorf("read tip: %w", err)
	}

	reward := subsidy
	txs := make([]*model.TX, 0, len(drained)+1)
	txs = append(txs, nil)
	for _, e := range drained {
		fee, verr := p.verifier.VerifyTX(ctx, e.TX)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("reverify tx %s: %w", e.TX.Hash(), ctxErr)
		}
		if verr != nil {
			p.logger.Warn("dropping stale transaction", zap.String("hash", e.TX.Hash().String()), zap.Error(verr))
			continue
		}
		if reward, err = safe.Add(reward, fee); err != nil {
			return nil, fmt.Errorf("coinbase value: %w", err)
		}
		txs = append(txs, e.TX)
	}
	txs[0] = model.NewCoinbase(tip, reward, p.guard)

	block = &model.Block{Version: model.BlockVersion, Parent: tip, TXs: txs}
	if err = block.Validate(); err != nil {
		return nil, fmt.Errorf("validate block: %w", err)
	}
	if err = p.chain.StoreBlock(ctx, block); err != nil {
		return nil, fmt.Errorf("store block %s: %w", block.Hash(), err)
	}

	p.logger.Info("block minted",
		zap.String("hash", block.Hash().String()),
		zap.String("parent", tip.String()),
		zap.Int("txs", len(txs)-1),
		zap.Uint64("coinbase", reward),
	)
	return block, nil
}

func (p *Pool) dropped(entries []Entry, err error) {
	for _, e := range entries {
		p.logger.Warn("dropping drained transaction",
			zap.String("hash", e.TX.Hash().String()),
			zap.Uint64("fee", e.Fee),
			zap.Error(err),
		)
	}
}
