package mempool

import (
	"context"
	"errors"
	"time"

	"github.com/goodnatureofminers/hackchain/internal/clock"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

// MinterConfig tunes a Minter.
type MinterConfig struct {
	Subsidy uint64
	// Interval between automatic mints. Zero mints only on triggers.
	Interval time.Duration
	// MaxPerSecond caps the mint rate. Non-positive means unlimited.
	MaxPerSecond int
}

// Minter mints a block every interval or whenever it is triggered.
type Minter struct {
	logger   *zap.Logger
	pool     Minting
	chain    TipReader
	subsidy  uint64
	interval time.Duration
	limiter  ratelimit.Limiter
	wait     func(context.Context, time.Duration, <-chan struct{}) (bool, error)
	trigger  chan struct{}
	signal   <-chan struct{}
}

// NewMinter builds a Minter. signal is an optional external trigger source.
func NewMinter(logger *zap.Logger, pool Minting, chain TipReader, cfg MinterConfig, signal <-chan struct{}) (*Minter, error) {
	if pool == nil {
		return nil, errors.New("minter pool is required")
	}
	if chain == nil {
		return nil, errors.New("minter chain is required")
	}
	if cfg.Interval < 0 {
		return nil, errors.New("minter interval must not be negative")
	}

	limiter := ratelimit.NewUnlimited()
	if cfg.MaxPerSecond > 0 {
		limiter = ratelimit.New(cfg.MaxPerSecond)
	}

	return &Minter{
		logger:   logger,
		pool:     pool,
		chain:    chain,
		subsidy:  cfg.Subsidy,
		interval: cfg.Interval,
		limiter:  limiter,
		wait:     clock.WaitWithContext,
		trigger:  make(chan struct{}, 1),
		signal:   signal,
	}, nil
}

// Trigger requests a mint. Requests made while one is already queued are coalesced.
func (m *Minter) Trigger() {
	select {
	case m.trigger <- struct{}{}:
	default:
	}
}

// Run mints genesis on an empty ledger, then mints on every tick or trigger until ctx is canceled.
func (m *Minter) Run(ctx context.Context) error {
	if m.signal != nil {
		go m.forward(ctx)
	}

	tip, err := m.chain.Tip(ctx)
	if err != nil {
		return err
	}
	if tip.IsZero() {
		m.logger.Info("ledger is empty, minting genesis")
		if err := m.mint(ctx); err != nil {
			return err
		}
	}

	for {
		triggered, err := m.wait(ctx, m.interval, m.trigger)
		if err != nil {
			return err
		}
		m.logger.Debug("minting", zap.Bool("triggered", triggered))
		if err := m.mint(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			m.logger.Warn("mint failed", zap.Error(err))
		}
	}
}

func (m *Minter) mint(ctx context.Context) error {
	m.limiter.Take()
	_, err := m.pool.Mint(ctx, m.subsidy)
	return err
}

func (m *Minter) forward(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-m.signal:
			if !ok {
				return
			}
			m.Trigger()
		}
	}
}
