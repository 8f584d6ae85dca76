package mempool

import (
	"context"
	"time"

	"github.com/goodnatureofminers/hackchain/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Verifier interface {
		VerifyTX(ctx context.Context, tx *model.TX) (uint64, error)
	}
	Chain interface {
		Tip(ctx context.Context) (model.Hash, error)
		StoreBlock(ctx context.Context, block *model.Block) error
	}
	Metrics interface {
		ObserveAccept(err error, started time.Time)
		ObserveEvict()
		SetPending(n int)
		ObserveMint(err error, txs int, started time.Time)
	}
	Minting interface {
		Mint(ctx context.Context, subsidy uint64) (*model.Block, error)
	}
	TipReader interface {
		Tip(ctx context.Context) (model.Hash, error)
	}
)
