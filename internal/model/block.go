package model

import (
	"fmt"
	"sync/atomic"
)

const (
	// BlockVersion is the only block version accepted.
	BlockVersion = 1
	// MaxBlockTXs bounds the number of transactions in a block, coinbase included.
	MaxBlockTXs = 4096

	minTXSize = txHeaderSize
)

// Block is an ordered batch of transactions on top of Parent. TXs[0] is the coinbase, and no
// other transaction may carry the CoinbaseIndex sentinel.
//
// Encoded as version u32 | parent [32] | nTX u32 | txs. A Block must not be modified once Render
// or Hash has been called.
type Block struct {
	Version uint32
	Parent  Hash
	TXs     []*TX

	enc atomic.Pointer[encoding]
}

// Render returns the canonical encoding of b. The returned slice must not be modified.
func (b *Block) Render() []byte {
	return b.encoded().raw
}

// Hash returns the digest of the canonical encoding.
func (b *Block) Hash() Hash {
	return b.encoded().hash
}

func (b *Block) encoded() *encoding {
	if e := b.enc.Load(); e != nil {
		return e
	}
	raw := appendU32(nil, b.Version)
	raw = append(raw, b.Parent[:]...)
	raw = appendCount(raw, len(b.TXs))
	for _, tx := range b.TXs {
		raw = tx.appendTo(raw)
	}
	b.enc.CompareAndSwap(nil, &encoding{raw: raw, hash: HashOf(raw)})
	return b.enc.Load()
}

// Coinbase returns the first transaction, or nil for an empty block.
func (b *Block) Coinbase() *TX {
	if len(b.TXs) == 0 {
		return nil
	}
	return b.TXs[0]
}

// ParseBlock decodes exactly one block.
func ParseBlock(raw []byte) (*Block, error) {
	r := &reader{buf: raw}
	version, err := r.u32("block version")
	if err != nil {
		return nil, err
	}
	parent, err := r.hash("block parent")
	if err != nil {
		return nil, err
	}
	n, err := r.count("block tx count", minTXSize)
	if err != nil {
		return nil, err
	}
	if n > MaxBlockTXs {
		return nil, fmt.Errorf("block with %d txs: %w", n, ErrTooManyTXs)
	}

	b := &Block{Version: version, Parent: parent, TXs: make([]*TX, n)}
	for i := range b.TXs {
		if b.TXs[i], err = readTX(r); err != nil {
			return nil, fmt.Errorf("read block tx %d: %w", i, err)
		}
	}
	if err := r.done("block"); err != nil {
		return nil, err
	}

	enc := append([]byte{}, raw...)
	b.enc.Store(&encoding{raw: enc, hash: HashOf(enc)})
	return b, nil
}

// Validate checks the block layout and every transaction on its own.
func (b *Block) Validate() error {
	if b.Version != BlockVersion {
		return fmt.Errorf("block version %d: %w", b.Version, ErrUnsupportedVersion)
	}
	if len(b.TXs) > MaxBlockTXs {
		return fmt.Errorf("block with %d txs: %w", len(b.TXs), ErrTooManyTXs)
	}
	if cb := b.Coinbase(); cb == nil || !cb.IsCoinbase() {
		return ErrNoCoinbase
	}
	for i, tx := range b.TXs {
		if i > 0 && tx.IsCoinbase() {
			return fmt.Errorf("tx %d: %w", i, ErrMisplacedCoinbase)
		}
		if err := tx.Validate(); err != nil {
			return fmt.Errorf("tx %d %s: %w", i, tx.Hash(), err)
		}
	}
	if prev := b.TXs[0].Inputs[0].PrevHash; prev != b.Parent {
		return fmt.Errorf("coinbase references %s instead of parent %s: %w", prev, b.Parent, ErrBadShape)
	}
	return nil
}
