// Package validation checks transactions and blocks against the ledger.
package validation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/hackchain/internal/model"
	"github.com/goodnatureofminers/hackchain/pkg/safe"
	"github.com/goodnatureofminers/hackchain/pkg/workerpool"
	"go.uber.org/zap"
)

var (
	// ErrMissingOutput is returned when an input references an output the ledger does not hold.
	ErrMissingOutput = errors.New("referenced output does not exist")
	// ErrAlreadySpent is returned when an input references an output with a recorded spender.
	ErrAlreadySpent = errors.New("output already spent")
	// ErrUnauthorized is returned when a claim script does not drive the guard to success.
	ErrUnauthorized = errors.New("input not authorized")
	// ErrUnknownParent is returned for a block whose parent is not in the ledger.
	ErrUnknownParent = errors.New("unknown parent block")
	// ErrDoubleSpend is returned when two transactions of a block spend the same output.
	ErrDoubleSpend = errors.New("output spent twice in block")
	// ErrCoinbaseValue is returned when a coinbase pays more than subsidy plus fees.
	ErrCoinbaseValue = errors.New("coinbase value exceeds subsidy and fees")
)

const defaultWorkers = 4

// Verifier applies the ledger-dependent rules on top of model validation.
type Verifier struct {
	logger     *zap.Logger
	chain      ChainReader
	authorizer Authorizer
	metrics    Metrics
	workers    int
}

// NewVerifier builds a Verifier. workers bounds the concurrent authorizations per transaction.
func NewVerifier(logger *zap.Logger, chain ChainReader, authorizer Authorizer, metrics Metrics, workers int) (*Verifier, error) {
	if chain == nil {
		return nil, errors.New("verifier chain is required")
	}
	if authorizer == nil {
		return nil, errors.New("verifier authorizer is required")
	}
	if metrics == nil {
		return nil, errors.New("verifier metrics is required")
	}
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Verifier{
		logger:     logger,
		chain:      chain,
		authorizer: authorizer,
		metrics:    metrics,
		workers:    workers,
	}, nil
}

type resolved struct {
	index int
	input model.Input
	prev  model.Output
}

// VerifyTX checks tx against the ledger and returns its fee. A coinbase is only checked structurally.
func (v *Verifier) VerifyTX(ctx context.Context, tx *model.TX) (uint64, error) {
	started := time.Now()
	fee, err := v.verifyTX(ctx, tx)
	v.metrics.ObserveVerifyTX(err, started)
	return fee, err
}

func (v *Verifier) verifyTX(ctx context.Context, tx *model.TX) (uint64, error) {
	if err := tx.Validate(); err != nil {
		return 0, fmt.Errorf("validate tx %s: %w", tx.Hash(), err)
	}
	if tx.IsCoinbase() {
		return 0, nil
	}

	inputs, err := v.resolve(ctx, tx)
	if err != nil {
		return 0, fmt.Errorf("resolve tx %s: %w", tx.Hash(), err)
	}

	hash := tx.Hash()
	err = workerpool.Process(ctx, v.workers, inputs, func(ctx context.Context, in resolved) error {
		ok, err := v.authorizer.Authorize(ctx, hash, in.prev.Script, in.input.Script)
		if err != nil {
			return fmt.Errorf("authorize input %d: %w", in.index, err)
		}
		if !ok {
			return fmt.Errorf("input %d spending %s: %w", in.index, in.input.OutPoint(), ErrUnauthorized)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("verify tx %s: %w", hash, err)
	}

	values := make([]uint64, len(inputs))
	for i, in := range inputs {
		values[i] = in.prev.Value
	}
	fee, err := tx.Fee(values)
	if err != nil {
		return 0, fmt.Errorf("fee of tx %s: %w", hash, err)
	}
	return fee, nil
}

// resolve looks up the output spent by every input and rejects spent ones.
func (v *Verifier) resolve(ctx context.Context, tx *model.TX) ([]resolved, error) {
	out := make([]resolved, len(tx.Inputs))
	for i, in := range tx.Inputs {
		prev, err := v.chain.GetTX(ctx, in.PrevHash)
		if errors.Is(err, model.ErrNotFound) {
			return nil, fmt.Errorf("input %d spending %s: %w", i, in.OutPoint(), ErrMissingOutput)
		}
		if err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		if int64(in.PrevIndex) >= int64(len(prev.Outputs)) {
			return nil, fmt.Errorf("input %d spending %s: %w", i, in.OutPoint(), ErrMissingOutput)
		}

		spender, err := v.chain.GetTXSpentBy(ctx, in.PrevHash, in.PrevIndex)
		switch {
		case err == nil:
			return nil, fmt.Errorf("input %d spending %s, spent by %s: %w", i, in.OutPoint(), spender, ErrAlreadySpent)
		case !errors.Is(err, model.ErrNotFound):
			return nil, fmt.Errorf("input %d: %w", i, err)
		}

		out[i] = resolved{index: i, input: in, prev: prev.Outputs[in.PrevIndex]}
	}
	return out, nil
}

// VerifyBlock checks a candidate block on top of the ledger: layout, parent, every transaction,
// spends shared between transactions and the coinbase value against subsidy plus fees.
func (v *Verifier) VerifyBlock(ctx context.Context, block *model.Block, subsidy uint64) error {
	started := time.Now()
	err := v.verifyBlock(ctx, block, subsidy)
	v.metrics.ObserveVerifyBlock(err, started)
	return err
}

func (v *Verifier) verifyBlock(ctx context.Context, block *model.Block, subsidy uint64) error {
	hash := block.Hash()
	if err := block.Validate(); err != nil {
		return fmt.Errorf("validate block %s: %w", hash, err)
	}

	if !block.Parent.IsZero() {
		_, err := v.chain.GetBlock(ctx, block.Parent)
		if errors.Is(err, model.ErrNotFound) {
			return fmt.Errorf("block %s parent %s: %w", hash, block.Parent, ErrUnknownParent)
		}
		if err != nil {
			return fmt.Errorf("block %s parent: %w", hash, err)
		}
	}

	spent := make(map[model.OutPoint]model.Hash)
	for _, tx := range block.TXs[1:] {
		for _, in := range tx.Inputs {
			op := in.OutPoint()
			if other, ok := spent[op]; ok {
				return fmt.Errorf("block %s: %s spent by %s and %s: %w", hash, op, other, tx.Hash(), ErrDoubleSpend)
			}
			spent[op] = tx.Hash()
		}
	}

	fees := subsidy
	for i, tx := range block.TXs[1:] {
		fee, err := v.VerifyTX(ctx, tx)
		if err != nil {
			return fmt.Errorf("block %s tx %d: %w", hash, i+1, err)
		}
		if fees, err = safe.Add(fees, fee); err != nil {
			return fmt.Errorf("block %s fees: %w", hash, err)
		}
	}

	paid, err := block.Coinbase().OutputValue()
	if err != nil {
		return fmt.Errorf("block %s coinbase: %w", hash, err)
	}
	if paid > fees {
		return fmt.Errorf("block %s pays %d, allowed %d: %w", hash, paid, fees, ErrCoinbaseValue)
	}

	v.logger.Debug("block verified", zap.String("hash", hash.String()), zap.Int("txs", len(block.TXs)))
	return nil
}
