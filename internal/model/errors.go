package model

import "errors"

var (
	// ErrNotFound is returned by ledger lookups for unknown entities.
	ErrNotFound = errors.New("not found")
	// ErrMalformed is returned for bytes that do not follow the canonical layout.
	ErrMalformed = errors.New("malformed encoding")
	// ErrScriptTooLarge is returned for scripts longer than MaxScriptSize.
	ErrScriptTooLarge = errors.New("script too large")
	// ErrTXTooLarge is returned for transactions whose encoding exceeds MaxTXSize.
	ErrTXTooLarge = errors.New("transaction too large")
	// ErrBadShape is returned when input or output counts break the coinbase rules.
	ErrBadShape = errors.New("invalid transaction shape")
	// ErrZeroValue is returned for a zero-value output outside the coinbase.
	ErrZeroValue = errors.New("zero value output")
	// ErrUnsupportedVersion is returned for unknown tx or block versions.
	ErrUnsupportedVersion = errors.New("unsupported version")
	// ErrDuplicateInput is returned when a transaction spends the same outpoint twice.
	ErrDuplicateInput = errors.New("duplicate input")
	// ErrNegativeFee is returned when outputs are worth more than inputs.
	ErrNegativeFee = errors.New("negative fee")
	// ErrNoCoinbase is returned for blocks whose first transaction is not a coinbase.
	ErrNoCoinbase = errors.New("block has no coinbase")
	// ErrMisplacedCoinbase is returned for a coinbase anywhere but the first slot.
	ErrMisplacedCoinbase = errors.New("coinbase must be the first transaction only")
	// ErrTooManyTXs is returned for blocks holding more than MaxBlockTXs transactions.
	ErrTooManyTXs = errors.New("too many transactions in block")
)
