// Package authorizer runs script authorizations on a pool of isolated workers.
package authorizer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/hackchain/internal/model"
	"github.com/goodnatureofminers/hackchain/internal/vm"
	"github.com/goodnatureofminers/hackchain/pkg/workerpool"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config sizes the worker pool and the interpreter budgets. Zero values select defaults.
type Config struct {
	Workers      int
	MaxAttempts  int
	MaxInitTicks int
	MaxTicks     int
}

type task struct {
	id      string
	payload []byte
}

func (t task) TaskID() string { return t.id }

// Authorizer is the authorization oracle. Each request crosses the worker boundary in its wire
// form and is served by a fresh interpreter, so workers share no state.
type Authorizer struct {
	logger  *zap.Logger
	metrics Metrics
	pool    *workerpool.Pool[task, []byte]
	serve   func(raw []byte) []byte
}

// New builds an Authorizer. Start must be called before Authorize.
func New(logger *zap.Logger, metrics Metrics, cfg Config) (*Authorizer, error) {
	if metrics == nil {
		return nil, errors.New("authorizer metrics is required")
	}
	opts := []vm.Option{vm.WithTicks(cfg.MaxInitTicks, cfg.MaxTicks)}
	a := &Authorizer{
		logger:  logger,
		metrics: metrics,
		serve: func(raw []byte) []byte {
			return Serve(raw, opts...)
		},
	}
	a.pool = workerpool.NewPool[task, []byte](logger.Named("workers"), cfg.Workers, cfg.MaxAttempts, a.handle, metrics)
	return a, nil
}

// Start launches the workers.
func (a *Authorizer) Start(ctx context.Context) {
	a.pool.Start(ctx)
}

// Stop terminates the workers. Pending requests fail with workerpool.ErrPoolStopped.
func (a *Authorizer) Stop() {
	a.pool.Stop()
}

// Authorize reports whether claim may spend the output guarded by guard within the transaction hash.
func (a *Authorizer) Authorize(ctx context.Context, hash model.Hash, guard, claim model.Script) (bool, error) {
	started := time.Now()
	var (
		verdict string
		err     error
	)
	defer func() {
		a.metrics.ObserveRun(verdict, err, started)
	}()

	payload, err := EncodeRequest(hash[:], guard, claim)
	if err != nil {
		return false, err
	}
	t := task{id: uuid.NewString(), payload: payload}

	raw, err := a.pool.Do(ctx, t)
	if err != nil {
		return false, fmt.Errorf("authorize task %s: %w", t.id, err)
	}
	authorized, verdict, err := DecodeResponse(raw)
	if err != nil {
		return false, fmt.Errorf("authorize task %s: %w", t.id, err)
	}

	a.logger.Debug("authorization finished",
		zap.String("task", t.id),
		zap.String("tx", hash.String()),
		zap.Bool("authorized", authorized),
		zap.String("verdict", verdict),
	)
	return authorized, nil
}

func (a *Authorizer) handle(_ context.Context, t task) ([]byte, error) {
	return a.serve(t.payload), nil
}
