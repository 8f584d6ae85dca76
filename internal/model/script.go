package model

import (
	"fmt"

	"github.com/goodnatureofminers/hackchain/internal/vm"
)

// MaxScriptSize bounds guard and claim scripts: each must fit its slot in the VM memory image.
const MaxScriptSize = vm.MaxScriptSize

// CoinbaseIndex is the previous-output index carried by a coinbase input.
const CoinbaseIndex = 0xffffffff

const (
	minScriptSize = 4
	minInputSize  = HashSize + 4 + minScriptSize
	minOutputSize = 8 + minScriptSize
)

// Script is raw VM code. Encoded as len u32 | bytes.
type Script []byte

// Render returns the canonical encoding of s.
func (s Script) Render() []byte {
	return s.appendTo(make([]byte, 0, minScriptSize+len(s)))
}

func (s Script) appendTo(b []byte) []byte {
	b = appendCount(b, len(s))
	return append(b, s...)
}

// Validate checks the script length.
func (s Script) Validate() error {
	if len(s) > MaxScriptSize {
		return fmt.Errorf("script of %d bytes: %w", len(s), ErrScriptTooLarge)
	}
	return nil
}

// ParseScript decodes exactly one script.
func ParseScript(b []byte) (Script, error) {
	r := &reader{buf: b}
	s, err := readScript(r)
	if err != nil {
		return nil, err
	}
	return s, r.done("script")
}

func readScript(r *reader) (Script, error) {
	n, err := r.u32("script length")
	if err != nil {
		return nil, err
	}
	if n > MaxScriptSize {
		return nil, fmt.Errorf("script of %d bytes: %w", n, ErrScriptTooLarge)
	}
	b, err := r.take(int(n), "script")
	if err != nil {
		return nil, err
	}
	return Script(append([]byte{}, b...)), nil
}

// Output is a value locked by a guard script. Encoded as value u64 | script.
type Output struct {
	Value  uint64
	Script Script
}

// Render returns the canonical encoding of o.
func (o Output) Render() []byte {
	return o.appendTo(nil)
}

func (o Output) appendTo(b []byte) []byte {
	b = appendU64(b, o.Value)
	return o.Script.appendTo(b)
}

// ParseOutput decodes exactly one output.
func ParseOutput(b []byte) (Output, error) {
	r := &reader{buf: b}
	o, err := readOutput(r)
	if err != nil {
		return Output{}, err
	}
	return o, r.done("output")
}

func readOutput(r *reader) (Output, error) {
	value, err := r.u64("output value")
	if err != nil {
		return Output{}, err
	}
	script, err := readScript(r)
	if err != nil {
		return Output{}, fmt.Errorf("read output script: %w", err)
	}
	return Output{Value: value, Script: script}, nil
}

// Input spends the output at PrevIndex of transaction PrevHash with a claim script.
// Encoded as prevHash [32] | prevIndex u32 | script.
type Input struct {
	PrevHash  Hash
	PrevIndex uint32
	Script    Script
}

// OutPoint returns the output this input spends.
func (in Input) OutPoint() OutPoint {
	return OutPoint{Hash: in.PrevHash, Index: in.PrevIndex}
}

// Render returns the canonical encoding of in.
func (in Input) Render() []byte {
	return in.appendTo(nil)
}

func (in Input) appendTo(b []byte) []byte {
	b = append(b, in.PrevHash[:]...)
	b = appendU32(b, in.PrevIndex)
	return in.Script.appendTo(b)
}

// ParseInput decodes exactly one input.
func ParseInput(b []byte) (Input, error) {
	r := &reader{buf: b}
	in, err := readInput(r)
	if err != nil {
		return Input{}, err
	}
	return in, r.done("input")
}

func readInput(r *reader) (Input, error) {
	prev, err := r.hash("input prev hash")
	if err != nil {
		return Input{}, err
	}
	index, err := r.u32("input prev index")
	if err != nil {
		return Input{}, err
	}
	script, err := readScript(r)
	if err != nil {
		return Input{}, fmt.Errorf("read input script: %w", err)
	}
	return Input{PrevHash: prev, PrevIndex: index, Script: script}, nil
}
