package main

import (
	"context"
	"time"

	"github.com/goodnatureofminers/hackchain/internal/clock"
	"go.uber.org/zap"
)

const (
	mintTopic      = "mint"
	recvTimeout    = time.Second
	recvRetryDelay = time.Second
)

// relayMintRequests turns every received message into a non-blocking send on notify until ctx
// is done. recv must give up within recvTimeout so cancellation is noticed.
func relayMintRequests(
	ctx context.Context,
	logger *zap.Logger,
	recv func() ([][]byte, error),
	timedOut func(error) bool,
	notify chan<- struct{},
) {
	for ctx.Err() == nil {
		parts, err := recv()
		if err != nil {
			if timedOut(err) {
				continue
			}
			logger.Warn("zmq recv failed", zap.Error(err))
			if clock.SleepWithContext(ctx, recvRetryDelay) != nil {
				return
			}
			continue
		}
		if len(parts) == 0 {
			continue
		}
		logger.Debug("mint requested", zap.String("topic", string(parts[0])))

		select {
		case notify <- struct{}{}:
		default:
		}
	}
}
