package model

import (
	"encoding/binary"
	"fmt"

	"github.com/goodnatureofminers/hackchain/pkg/safe"
)

// reader walks a big-endian encoding. Every method fails with ErrMalformed on truncation.
type reader struct {
	buf []byte
	pos int
}

func (r *reader) remaining() int { return len(r.buf) - r.pos }

func (r *reader) take(n int, what string) ([]byte, error) {
	if n < 0 || r.remaining() < n {
		return nil, fmt.Errorf("read %s: need %d bytes, have %d: %w", what, n, r.remaining(), ErrMalformed)
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *reader) u32(what string) (uint32, error) {
	b, err := r.take(4, what)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (r *reader) u64(what string) (uint64, error) {
	b, err := r.take(8, what)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func (r *reader) hash(what string) (Hash, error) {
	var h Hash
	b, err := r.take(HashSize, what)
	if err != nil {
		return h, err
	}
	copy(h[:], b)
	return h, nil
}

// count reads an element count and rejects counts the remaining bytes cannot hold.
func (r *reader) count(what string, minSize int) (int, error) {
	v, err := r.u32(what)
	if err != nil {
		return 0, err
	}
	n, err := safe.Int(v)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", what, ErrMalformed)
	}
	if n > r.remaining()/minSize {
		return 0, fmt.Errorf("read %s: %d entries cannot fit in %d bytes: %w", what, n, r.remaining(), ErrMalformed)
	}
	return n, nil
}

// done fails when bytes remain after a top-level entity.
func (r *reader) done(what string) error {
	if r.remaining() != 0 {
		return fmt.Errorf("parse %s: %d trailing bytes: %w", what, r.remaining(), ErrMalformed)
	}
	return nil
}

func appendU32(b []byte, v uint32) []byte { return binary.BigEndian.AppendUint32(b, v) }
func appendU64(b []byte, v uint64) []byte { return binary.BigEndian.AppendUint64(b, v) }

func appendCount(b []byte, n int) []byte {
	// lengths are bounded by MaxTXSize and MaxBlockTXs long before they reach 2^32
	v, err := safe.Uint32(n)
	if err != nil {
		panic(fmt.Sprintf("encode count: %v", err))
	}
	return appendU32(b, v)
}
