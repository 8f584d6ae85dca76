package model

import (
	"fmt"
	"sync/atomic"

	"github.com/goodnatureofminers/hackchain/pkg/safe"
)

const (
	// TXVersion is the only transaction version accepted.
	TXVersion = 1
	// MaxTXSize bounds the canonical encoding of a transaction.
	MaxTXSize = 0x10000

	txHeaderSize = 4 + 4 + 4
)

type encoding struct {
	raw  []byte
	hash Hash
}

// TX moves value from previous outputs to new ones.
//
// Encoded as version u32 | nInputs u32 | nOutputs u32 | inputs | outputs. A TX must not be
// modified once Render or Hash has been called.
type TX struct {
	Version uint32
	Inputs  []Input
	Outputs []Output

	enc atomic.Pointer[encoding]
}

// NewCoinbase builds the coinbase for a block on top of parent paying value to guard.
// Its single input references (parent, CoinbaseIndex) so coinbases of different blocks never collide.
func NewCoinbase(parent Hash, value uint64, guard Script) *TX {
	return &TX{
		Version: TXVersion,
		Inputs:  []Input{{PrevHash: parent, PrevIndex: CoinbaseIndex}},
		Outputs: []Output{{Value: value, Script: guard}},
	}
}

// IsCoinbase reports whether tx mints new value: its only input carries CoinbaseIndex.
func (tx *TX) IsCoinbase() bool {
	return len(tx.Inputs) == 1 && tx.Inputs[0].PrevIndex == CoinbaseIndex
}

// Render returns the canonical encoding of tx. The returned slice must not be modified.
func (tx *TX) Render() []byte {
	return tx.encoded().raw
}

// Hash returns the digest of the canonical encoding.
func (tx *TX) Hash() Hash {
	return tx.encoded().hash
}

// Size returns the length of the canonical encoding.
func (tx *TX) Size() int {
	return len(tx.encoded().raw)
}

func (tx *TX) encoded() *encoding {
	if e := tx.enc.Load(); e != nil {
		return e
	}
	raw := tx.appendTo(nil)
	tx.enc.CompareAndSwap(nil, &encoding{raw: raw, hash: HashOf(raw)})
	return tx.enc.Load()
}

func (tx *TX) appendTo(b []byte) []byte {
	if e := tx.enc.Load(); e != nil {
		return append(b, e.raw...)
	}
	b = appendU32(b, tx.Version)
	b = appendCount(b, len(tx.Inputs))
	b = appendCount(b, len(tx.Outputs))
	for _, in := range tx.Inputs {
		b = in.appendTo(b)
	}
	for _, out := range tx.Outputs {
		b = out.appendTo(b)
	}
	return b
}

// ParseTX decodes exactly one transaction. The result keeps a copy of b as its cached encoding.
func ParseTX(b []byte) (*TX, error) {
	if len(b) > MaxTXSize {
		return nil, fmt.Errorf("parse tx of %d bytes: %w", len(b), ErrTXTooLarge)
	}
	r := &reader{buf: b}
	tx, err := readTX(r)
	if err != nil {
		return nil, err
	}
	if err := r.done("tx"); err != nil {
		return nil, err
	}
	return tx, nil
}

func readTX(r *reader) (*TX, error) {
	start := r.pos
	version, err := r.u32("tx version")
	if err != nil {
		return nil, err
	}
	nIn, err := r.count("tx input count", minInputSize)
	if err != nil {
		return nil, err
	}
	nOut, err := r.count("tx output count", minOutputSize)
	if err != nil {
		return nil, err
	}
	if nIn*minInputSize+nOut*minOutputSize > r.remaining() {
		return nil, fmt.Errorf("read tx: %d inputs and %d outputs cannot fit in %d bytes: %w",
			nIn, nOut, r.remaining(), ErrMalformed)
	}

	tx := &TX{Version: version, Inputs: make([]Input, nIn), Outputs: make([]Output, nOut)}
	for i := range tx.Inputs {
		if tx.Inputs[i], err = readInput(r); err != nil {
			return nil, fmt.Errorf("read tx input %d: %w", i, err)
		}
	}
	for i := range tx.Outputs {
		if tx.Outputs[i], err = readOutput(r); err != nil {
			return nil, fmt.Errorf("read tx output %d: %w", i, err)
		}
	}

	if size := r.pos - start; size > MaxTXSize {
		return nil, fmt.Errorf("read tx of %d bytes: %w", size, ErrTXTooLarge)
	}
	raw := append([]byte{}, r.buf[start:r.pos]...)
	tx.enc.Store(&encoding{raw: raw, hash: HashOf(raw)})
	return tx, nil
}

// Validate checks everything about tx that does not need the ledger.
func (tx *TX) Validate() error {
	if tx.Version != TXVersion {
		return fmt.Errorf("tx version %d: %w", tx.Version, ErrUnsupportedVersion)
	}
	if size := tx.Size(); size > MaxTXSize {
		return fmt.Errorf("tx of %d bytes: %w", size, ErrTXTooLarge)
	}

	coinbase := tx.IsCoinbase()
	if coinbase {
		if len(tx.Inputs) != 1 || len(tx.Outputs) != 1 {
			return fmt.Errorf("coinbase with %d inputs and %d outputs: %w", len(tx.Inputs), len(tx.Outputs), ErrBadShape)
		}
		if tx.Inputs[0].PrevIndex != CoinbaseIndex {
			return fmt.Errorf("coinbase input index %d: %w", tx.Inputs[0].PrevIndex, ErrBadShape)
		}
	} else if len(tx.Inputs) == 0 || len(tx.Outputs) == 0 {
		return fmt.Errorf("tx with %d inputs and %d outputs: %w", len(tx.Inputs), len(tx.Outputs), ErrBadShape)
	}

	seen := make(map[OutPoint]struct{}, len(tx.Inputs))
	for i, in := range tx.Inputs {
		if err := in.Script.Validate(); err != nil {
			return fmt.Errorf("input %d: %w", i, err)
		}
		if coinbase {
			continue
		}
		if in.PrevIndex == CoinbaseIndex {
			return fmt.Errorf("input %d references the coinbase index: %w", i, ErrBadShape)
		}
		op := in.OutPoint()
		if _, ok := seen[op]; ok {
			return fmt.Errorf("input %d spends %s: %w", i, op, ErrDuplicateInput)
		}
		seen[op] = struct{}{}
	}

	for i, out := range tx.Outputs {
		if err := out.Script.Validate(); err != nil {
			return fmt.Errorf("output %d: %w", i, err)
		}
		if !coinbase && out.Value == 0 {
			return fmt.Errorf("output %d: %w", i, ErrZeroValue)
		}
	}
	if _, err := tx.OutputValue(); err != nil {
		return err
	}
	return nil
}

// OutputValue sums the output values.
func (tx *TX) OutputValue() (uint64, error) {
	values := make([]uint64, len(tx.Outputs))
	for i, out := range tx.Outputs {
		values[i] = out.Value
	}
	total, err := safe.Sum(values...)
	if err != nil {
		return 0, fmt.Errorf("sum outputs: %w", err)
	}
	return total, nil
}

// Fee returns sum(inputValues) - sum(outputs) of tx, failing with ErrNegativeFee when it would be negative.
func (tx *TX) Fee(inputValues []uint64) (uint64, error) {
	in, err := safe.Sum(inputValues...)
	if err != nil {
		return 0, fmt.Errorf("sum inputs: %w", err)
	}
	out, err := tx.OutputValue()
	if err != nil {
		return 0, err
	}
	if in < out {
		return 0, fmt.Errorf("inputs %d < outputs %d: %w", in, out, ErrNegativeFee)
	}
	return in - out, nil
}
