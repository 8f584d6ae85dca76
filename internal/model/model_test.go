package model

import (
	"bytes"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/goodnatureofminers/hackchain/pkg/safe"
)

func sampleTX() *TX {
	return &TX{
		Version: TXVersion,
		Inputs: []Input{
			{PrevHash: HashOf([]byte("a")), PrevIndex: 0, Script: Script{0x01, 0x20}},
			{PrevHash: HashOf([]byte("b")), PrevIndex: 3, Script: nil},
		},
		Outputs: []Output{
			{Value: 40, Script: Script{0x80, 0xe0}},
			{Value: 2, Script: Script{0x00, 0x00, 0xe0, 0x01}},
		},
	}
}

func sampleBlock() *Block {
	parent := HashOf([]byte("parent"))
	return &Block{
		Version: BlockVersion,
		Parent:  parent,
		TXs:     []*TX{NewCoinbase(parent, 50, Script{0xe0, 0x01}), sampleTX()},
	}
}

func TestTX_RoundTrip(t *testing.T) {
	tx := sampleTX()
	raw := tx.Render()

	parsed, err := ParseTX(raw)
	if err != nil {
		t.Fatalf("ParseTX() error: %v", err)
	}
	if !bytes.Equal(parsed.Render(), raw) {
		t.Fatalf("re-rendered tx differs")
	}
	if parsed.Hash() != tx.Hash() {
		t.Fatalf("hash mismatch: %s != %s", parsed.Hash(), tx.Hash())
	}
	if parsed.Version != tx.Version || parsed.IsCoinbase() || len(parsed.Inputs) != 2 || len(parsed.Outputs) != 2 {
		t.Fatalf("parsed tx = %+v", parsed)
	}
	if parsed.Inputs[1].PrevIndex != 3 || parsed.Outputs[0].Value != 40 {
		t.Fatalf("parsed fields differ: %+v", parsed)
	}
	if fresh := sampleTX(); fresh.Hash() != tx.Hash() {
		t.Fatalf("hash not deterministic")
	}
}

func TestTX_Layout(t *testing.T) {
	cb := NewCoinbase(ZeroHash, 0x0102030405060708, Script{0xaa})
	raw := cb.Render()

	want := []byte{
		0, 0, 0, 1, // version
		0, 0, 0, 1, // inputs
		0, 0, 0, 1, // outputs
	}
	want = append(want, ZeroHash[:]...)
	want = append(want,
		0xff, 0xff, 0xff, 0xff, // prev index
		0, 0, 0, 0, // empty claim
		1, 2, 3, 4, 5, 6, 7, 8, // value
		0, 0, 0, 1, 0xaa, // guard
	)
	if !bytes.Equal(raw, want) {
		t.Fatalf("Render() = %x\nwant      %x", raw, want)
	}
	if cb.Size() != len(want) || cb.Hash() != HashOf(want) {
		t.Fatalf("size or hash do not follow the encoding")
	}

	parsed, err := ParseTX(want)
	if err != nil {
		t.Fatalf("ParseTX() error: %v", err)
	}
	if !parsed.IsCoinbase() {
		t.Fatalf("parsed coinbase lost its sentinel")
	}
}

func TestTX_Vectors(t *testing.T) {
	prev, err := ParseHash("e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855")
	if err != nil {
		t.Fatalf("ParseHash() error: %v", err)
	}

	tests := []struct {
		name     string
		tx       *TX
		wantRaw  string
		wantHash string
	}{
		{
			name:     "empty",
			tx:       &TX{Version: TXVersion},
			wantRaw:  "000000010000000000000000",
			wantHash: "9cbc73d18d70c94fe366e696035c4f2cffdbab7ea6d6c2c039ca185f9c9f2746",
		},
		{
			name: "one input one output",
			tx: &TX{
				Version: TXVersion,
				Inputs:  []Input{{PrevHash: prev, PrevIndex: 0x123}},
				Outputs: []Output{{Value: 0x13589}},
			},
			wantRaw: "000000010000000100000001e3b0c442" +
				"98fc1c149afbf4c8996fb92427ae41e4" +
				"649b934ca495991b7852b85500000123" +
				"00000000000000000001358900000000",
			wantHash: "233a9cdce2cbf480e0b3bfecb8340ff9d0eff61cf997ee115b79f7187a357d5c",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hex.EncodeToString(tt.tx.Render()); got != tt.wantRaw {
				t.Fatalf("Render() = %s, want %s", got, tt.wantRaw)
			}
			if got := tt.tx.Hash().String(); got != tt.wantHash {
				t.Fatalf("Hash() = %s, want %s", got, tt.wantHash)
			}

			raw, _ := hex.DecodeString(tt.wantRaw)
			parsed, err := ParseTX(raw)
			if err != nil {
				t.Fatalf("ParseTX() error: %v", err)
			}
			if parsed.Version != TXVersion || len(parsed.Inputs) != len(tt.tx.Inputs) || len(parsed.Outputs) != len(tt.tx.Outputs) {
				t.Fatalf("parsed tx = %+v", parsed)
			}
			for i, in := range parsed.Inputs {
				if in.OutPoint() != tt.tx.Inputs[i].OutPoint() || len(in.Script) != 0 {
					t.Fatalf("input %d = %+v", i, in)
				}
			}
			for i, out := range parsed.Outputs {
				if out.Value != tt.tx.Outputs[i].Value || len(out.Script) != 0 {
					t.Fatalf("output %d = %+v", i, out)
				}
			}
			if parsed.Hash().String() != tt.wantHash {
				t.Fatalf("parsed Hash() = %s", parsed.Hash())
			}
		})
	}

	t.Run("truncated", func(t *testing.T) {
		for _, s := range []string{"000000", "000000010000000100000001e3b0c442"} {
			raw, _ := hex.DecodeString(s)
			if _, err := ParseTX(raw); !errors.Is(err, ErrMalformed) {
				t.Fatalf("ParseTX(%s) error = %v, want %v", s, err, ErrMalformed)
			}
		}
	})
}

func TestBlock_RoundTrip(t *testing.T) {
	b := sampleBlock()
	raw := b.Render()

	parsed, err := ParseBlock(raw)
	if err != nil {
		t.Fatalf("ParseBlock() error: %v", err)
	}
	if parsed.Hash() != b.Hash() || parsed.Parent != b.Parent || len(parsed.TXs) != 2 {
		t.Fatalf("parsed block = %+v", parsed)
	}
	for i := range b.TXs {
		if parsed.TXs[i].Hash() != b.TXs[i].Hash() {
			t.Fatalf("tx %d hash differs", i)
		}
	}
	if err := parsed.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
}

func TestParse_Errors(t *testing.T) {
	tx := sampleTX().Render()

	hugeCount := append([]byte{}, tx[:4]...)
	hugeCount = append(hugeCount, 0xff, 0xff, 0xff, 0xff)

	hugeOutputs := append([]byte{}, tx[:8]...)
	hugeOutputs = append(hugeOutputs, 0x00, 0x00, 0x00, 0x03)
	hugeOutputs = append(hugeOutputs, tx[12:]...)

	longScript := appendU32(nil, MaxScriptSize+1)
	longScript = append(longScript, make([]byte, MaxScriptSize+1)...)

	tests := []struct {
		name    string
		parse   func() error
		wantErr error
	}{
		{"truncated tx", func() error { _, err := ParseTX(tx[:len(tx)-1]); return err }, ErrMalformed},
		{"trailing bytes", func() error { _, err := ParseTX(append(append([]byte{}, tx...), 0)); return err }, ErrMalformed},
		{"outputs beyond data left by inputs", func() error { _, err := ParseTX(hugeOutputs); return err }, ErrMalformed},
		{"input count beyond data", func() error { _, err := ParseTX(hugeCount); return err }, ErrMalformed},
		{"oversized tx", func() error { _, err := ParseTX(make([]byte, MaxTXSize+1)); return err }, ErrTXTooLarge},
		{"script too large", func() error { _, err := ParseScript(longScript); return err }, ErrScriptTooLarge},
		{"empty output", func() error { _, err := ParseOutput(nil); return err }, ErrMalformed},
		{"short input", func() error { _, err := ParseInput(make([]byte, HashSize)); return err }, ErrMalformed},
		{"truncated block", func() error { _, err := ParseBlock(sampleBlock().Render()[:40]); return err }, ErrMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.parse(); !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestScriptInputOutput_RoundTrip(t *testing.T) {
	s := Script{1, 2, 3}
	if got, err := ParseScript(s.Render()); err != nil || !bytes.Equal(got, s) {
		t.Fatalf("ParseScript() = %x, %v", got, err)
	}
	in := Input{PrevHash: HashOf([]byte("x")), PrevIndex: 7, Script: s}
	if got, err := ParseInput(in.Render()); err != nil || got.OutPoint() != in.OutPoint() || !bytes.Equal(got.Script, s) {
		t.Fatalf("ParseInput() = %+v, %v", got, err)
	}
	out := Output{Value: 9, Script: s}
	if got, err := ParseOutput(out.Render()); err != nil || got.Value != 9 || !bytes.Equal(got.Script, s) {
		t.Fatalf("ParseOutput() = %+v, %v", got, err)
	}
}

func TestTX_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(tx *TX)
		wantErr error
	}{
		{name: "valid", mutate: func(*TX) {}},
		{name: "version", mutate: func(tx *TX) { tx.Version = 2 }, wantErr: ErrUnsupportedVersion},
		{name: "no inputs", mutate: func(tx *TX) { tx.Inputs = nil }, wantErr: ErrBadShape},
		{name: "no outputs", mutate: func(tx *TX) { tx.Outputs = nil }, wantErr: ErrBadShape},
		{name: "zero value", mutate: func(tx *TX) { tx.Outputs[1].Value = 0 }, wantErr: ErrZeroValue},
		{name: "duplicate input", mutate: func(tx *TX) { tx.Inputs[1] = tx.Inputs[0] }, wantErr: ErrDuplicateInput},
		{name: "coinbase index", mutate: func(tx *TX) { tx.Inputs[0].PrevIndex = CoinbaseIndex }, wantErr: ErrBadShape},
		{name: "script too large", mutate: func(tx *TX) { tx.Inputs[0].Script = make(Script, MaxScriptSize+1) }, wantErr: ErrScriptTooLarge},
		{
			name: "coinbase with two outputs",
			mutate: func(tx *TX) {
				tx.Inputs = tx.Inputs[:1]
				tx.Inputs[0].PrevIndex = CoinbaseIndex
			},
			wantErr: ErrBadShape,
		},
		{
			name: "too large",
			mutate: func(tx *TX) {
				for i := 0; i < 20; i++ {
					tx.Outputs = append(tx.Outputs, Output{Value: 1, Script: make(Script, MaxScriptSize)})
				}
			},
			wantErr: ErrTXTooLarge,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := sampleTX()
			tt.mutate(tx)
			err := tx.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("coinbase may pay zero", func(t *testing.T) {
		if err := NewCoinbase(ZeroHash, 0, nil).Validate(); err != nil {
			t.Fatalf("Validate() error: %v", err)
		}
	})
}

func TestBlock_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(b *Block)
		wantErr error
	}{
		{name: "version", mutate: func(b *Block) { b.Version = 0 }, wantErr: ErrUnsupportedVersion},
		{name: "empty", mutate: func(b *Block) { b.TXs = nil }, wantErr: ErrNoCoinbase},
		{name: "coinbase not first", mutate: func(b *Block) { b.TXs[0], b.TXs[1] = b.TXs[1], b.TXs[0] }, wantErr: ErrNoCoinbase},
		{
			name:    "second coinbase",
			mutate:  func(b *Block) { b.TXs = append(b.TXs, NewCoinbase(b.Parent, 1, nil)) },
			wantErr: ErrMisplacedCoinbase,
		},
		{
			name:    "coinbase for another parent",
			mutate:  func(b *Block) { b.TXs[0] = NewCoinbase(ZeroHash, 1, nil) },
			wantErr: ErrBadShape,
		},
		{name: "invalid tx", mutate: func(b *Block) { b.TXs[1].Outputs[0].Value = 0 }, wantErr: ErrZeroValue},
		{
			name: "sentinel beside other inputs",
			mutate: func(b *Block) {
				b.TXs[1].Inputs[1].PrevIndex = CoinbaseIndex
			},
			wantErr: ErrBadShape,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := sampleBlock()
			tt.mutate(b)
			if err := b.Validate(); !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTX_Fee(t *testing.T) {
	tests := []struct {
		name    string
		inputs  []uint64
		want    uint64
		wantErr error
	}{
		{name: "exact", inputs: []uint64{42}, want: 0},
		{name: "positive", inputs: []uint64{30, 20}, want: 8},
		{name: "negative", inputs: []uint64{41}, wantErr: ErrNegativeFee},
		{name: "overflow", inputs: []uint64{^uint64(0), 1}, wantErr: safe.ErrOverflow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee, err := sampleTX().Fee(tt.inputs)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Fee() error = %v, want %v", err, tt.wantErr)
			}
			if err == nil && fee != tt.want {
				t.Fatalf("Fee() = %d, want %d", fee, tt.want)
			}
		})
	}
}

func TestHash(t *testing.T) {
	h := HashOf([]byte("hackchain"))
	s := h.String()
	if len(s) != 64 || strings.ToLower(s) != s {
		t.Fatalf("String() = %q", s)
	}
	parsed, err := ParseHash(s)
	if err != nil || parsed != h {
		t.Fatalf("ParseHash() = %s, %v", parsed, err)
	}
	if _, err := ParseHash("zz"); !errors.Is(err, ErrMalformed) {
		t.Fatalf("ParseHash(short) error = %v", err)
	}
	if !ZeroHash.IsZero() || h.IsZero() {
		t.Fatalf("IsZero() wrong")
	}
	op := OutPoint{Hash: h, Index: 2}
	if op.String() != s+":2" {
		t.Fatalf("OutPoint.String() = %q", op.String())
	}
}
