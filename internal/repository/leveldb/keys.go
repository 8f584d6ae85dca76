package leveldb

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goodnatureofminers/hackchain/internal/model"
)

// Key layout. Unspent keys embed the value as 16 hex digits so a reverse scan yields the largest first.
//
//	block/<hash>                         block encoding
//	tx/<hash>                            tx encoding
//	tx/<hash>/block                      hash of the containing block
//	tx/<hash>/<index>/spentby            hash of the spending tx
//	tx/unspent/<value>/<hash>/<index>    empty
//	chain/tip                            hash of the last block
var (
	tipKey        = []byte("chain/tip")
	unspentPrefix = []byte("tx/unspent/")
)

func blockKey(h model.Hash) []byte {
	return []byte("block/" + h.String())
}

func txKey(h model.Hash) []byte {
	return []byte("tx/" + h.String())
}

func txBlockKey(h model.Hash) []byte {
	return []byte("tx/" + h.String() + "/block")
}

func spentByKey(op model.OutPoint) []byte {
	return fmt.Appendf(nil, "tx/%s/%d/spentby", op.Hash, op.Index)
}

func unspentKey(op model.OutPoint, value uint64) []byte {
	return fmt.Appendf(nil, "%s%016x/%s/%d", unspentPrefix, value, op.Hash, op.Index)
}

func parseUnspentKey(key []byte) (model.Unspent, error) {
	var u model.Unspent
	parts := strings.Split(strings.TrimPrefix(string(key), string(unspentPrefix)), "/")
	if len(parts) != 3 {
		return u, fmt.Errorf("parse unspent key %q: %w", key, model.ErrMalformed)
	}
	value, err := strconv.ParseUint(parts[0], 16, 64)
	if err != nil {
		return u, fmt.Errorf("parse unspent value %q: %w", key, model.ErrMalformed)
	}
	hash, err := model.ParseHash(parts[1])
	if err != nil {
		return u, fmt.Errorf("parse unspent hash: %w", err)
	}
	index, err := strconv.ParseUint(parts[2], 10, 32)
	if err != nil {
		return u, fmt.Errorf("parse unspent index %q: %w", key, model.ErrMalformed)
	}
	u.Value = value
	u.OutPoint = model.OutPoint{Hash: hash, Index: uint32(index)}
	return u, nil
}
