// Package model defines the ledger entities and their canonical binary encoding.
package model

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// HashSize is the length of an entity hash in bytes.
const HashSize = chainhash.HashSize

// Hash identifies an entity by the SHA-256 digest of its canonical encoding.
type Hash [HashSize]byte

// ZeroHash is the parent of the genesis block.
var ZeroHash Hash

// HashOf returns the digest of b.
func HashOf(b []byte) Hash {
	return Hash(chainhash.HashH(b))
}

// ParseHash decodes a 64 character hex string.
func ParseHash(s string) (Hash, error) {
	var h Hash
	if len(s) != 2*HashSize {
		return h, fmt.Errorf("parse hash %q: %w", s, ErrMalformed)
	}
	if _, err := hex.Decode(h[:], []byte(s)); err != nil {
		return h, fmt.Errorf("parse hash %q: %w", s, ErrMalformed)
	}
	return h, nil
}

// String renders the hash as plain lowercase hex, in byte order.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// IsZero reports whether h is the all-zero sentinel.
func (h Hash) IsZero() bool {
	return h == ZeroHash
}

// OutPoint references a single output of a committed transaction.
type OutPoint struct {
	Hash  Hash
	Index uint32
}

func (o OutPoint) String() string {
	return fmt.Sprintf("%s:%d", o.Hash, o.Index)
}

// Unspent is an entry of the unspent output index.
type Unspent struct {
	OutPoint OutPoint
	Value    uint64
}
