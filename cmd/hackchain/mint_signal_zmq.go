//go:build zmq

package main

import (
	"context"
	"fmt"
	"syscall"

	"github.com/pebbe/zmq4"
	"go.uber.org/zap"
)

func startMintSignal(ctx context.Context, addr string, logger *zap.Logger) (<-chan struct{}, error) {
	if addr == "" {
		return nil, nil
	}

	sub, err := dialMintSubscriber(addr)
	if err != nil {
		return nil, fmt.Errorf("connect zmq: %w", err)
	}

	notify := make(chan struct{}, 1)
	go func() {
		defer sub.Close()
		relayMintRequests(ctx, logger, func() ([][]byte, error) {
			return sub.RecvMessageBytes(0)
		}, isRecvTimeout, notify)
	}()
	return notify, nil
}

func isRecvTimeout(err error) bool {
	return zmq4.AsErrno(err) == zmq4.Errno(syscall.EAGAIN)
}

// dialMintSubscriber connects a SUB socket whose receives time out after recvTimeout.
func dialMintSubscriber(addr string) (*zmq4.Socket, error) {
	sub, err := zmq4.NewSocket(zmq4.SUB)
	if err != nil {
		return nil, err
	}
	setup := []func() error{
		func() error { return sub.SetRcvtimeo(recvTimeout) },
		func() error { return sub.SetSubscribe(mintTopic) },
		func() error { return sub.Connect(addr) },
	}
	for _, step := range setup {
		if err := step(); err != nil {
			sub.Close()
			return nil, err
		}
	}
	return sub, nil
}
