package validation

import (
	"context"
	"time"

	"github.com/goodnatureofminers/hackchain/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	ChainReader interface {
		GetBlock(ctx context.Context, hash model.Hash) (*model.Block, error)
		GetTX(ctx context.Context, hash model.Hash) (*model.TX, error)
		GetTXSpentBy(ctx context.Context, hash model.Hash, index uint32) (model.Hash, error)
	}
	Authorizer interface {
		Authorize(ctx context.Context, hash model.Hash, guard, claim model.Script) (bool, error)
	}
	Metrics interface {
		ObserveVerifyTX(err error, started time.Time)
		ObserveVerifyBlock(err error, started time.Time)
	}
)
