package vm

import (
	"errors"
	"fmt"
)

var (
	// ErrImmediateRange is returned when an immediate does not fit its field.
	ErrImmediateRange = errors.New("immediate out of range")
	// ErrJumpRange is returned when a relative jump target is further than a beq can reach.
	ErrJumpRange = errors.New("relative jump out of range")
	// ErrUnboundLabel is returned by Bytes when a referenced label was never bound.
	ErrUnboundLabel = errors.New("unbound label")
)

// Label is a jump target created by NewLabel and fixed by Bind.
type Label int

type labelState struct {
	name  string
	bound bool
	addr  uint16
}

type fixupKind uint8

const (
	fixupRelative fixupKind = iota
	fixupFar
)

type fixup struct {
	kind  fixupKind
	label Label
	pos   int
	a, b  Reg
}

// Assembler emits instruction words into a byte buffer.
// The first error sticks: later calls are no-ops and Bytes returns it.
type Assembler struct {
	buf    []byte
	offset int
	labels []labelState
	fixups []fixup
	err    error
}

// NewAssembler returns an Assembler whose code starts at byte address 0.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// SetCodeOffset assembles the following code as if it were loaded at byte address offset.
// It must be called before anything is emitted.
func (a *Assembler) SetCodeOffset(offset int) {
	switch {
	case a.err != nil:
	case len(a.buf) != 0:
		a.err = errors.New("code offset must be set before emitting code")
	case offset < 0 || offset >= MemorySize || offset%2 != 0:
		a.err = fmt.Errorf("code offset %#x must be an even address below %#x", offset, MemorySize)
	default:
		a.offset = offset
	}
}

// Addr returns the word address of the next emitted instruction.
func (a *Assembler) Addr() uint16 {
	return uint16((a.offset + len(a.buf)) / 2)
}

// Err returns the first error recorded so far.
func (a *Assembler) Err() error { return a.err }

// Len returns the number of bytes emitted so far.
func (a *Assembler) Len() int { return len(a.buf) }

// Bytes returns the assembled code once every referenced label is bound.
func (a *Assembler) Bytes() ([]byte, error) {
	if a.err != nil {
		return nil, a.err
	}
	if len(a.fixups) > 0 {
		l := a.labels[a.fixups[0].label]
		return nil, fmt.Errorf("%w %q", ErrUnboundLabel, l.name)
	}
	out := make([]byte, len(a.buf))
	copy(out, a.buf)
	return out, nil
}

// Word emits a raw word in instruction byte order.
func (a *Assembler) Word(w uint16) {
	if a.err != nil {
		return
	}
	a.buf = append(a.buf, byte(w>>8), byte(w))
}

func (a *Assembler) Add(dst, x, y Reg)  { a.Word(encodeRRR(OpAdd, dst, x, y)) }
func (a *Assembler) Nand(dst, x, y Reg) { a.Word(encodeRRR(OpNand, dst, x, y)) }

func (a *Assembler) Addi(dst, src Reg, imm int) { a.rri(OpAddi, dst, src, imm) }
func (a *Assembler) Sw(val, base Reg, imm int)  { a.rri(OpSw, val, base, imm) }
func (a *Assembler) Lw(dst, base Reg, imm int)  { a.rri(OpLw, dst, base, imm) }
func (a *Assembler) Beq(x, y Reg, imm int)      { a.rri(OpBeq, x, y, imm) }

// Lui loads imm<<6 into dst.
func (a *Assembler) Lui(dst Reg, imm int) {
	if a.err == nil && (imm < 0 || imm > Imm10Max) {
		a.err = fmt.Errorf("lui %d: %w", imm, ErrImmediateRange)
	}
	a.Word(encodeRI(OpLui, dst, imm))
}

// Jalr stores the return address in link and jumps to the word address held in target.
func (a *Assembler) Jalr(link, target Reg) {
	a.Word(encodeRRR(OpJalr, link, target, R0))
}

// IRQ raises an interrupt.
func (a *Assembler) IRQ(q IRQ) { a.Word(encodeIRQ(q)) }

// Movi loads a full 16-bit constant with lui + addi.
func (a *Assembler) Movi(dst Reg, v uint16) {
	a.Lui(dst, int(v>>6))
	a.Addi(dst, dst, int(v&0x3f))
}

// NewLabel creates an unbound label. The name is only used in error messages.
func (a *Assembler) NewLabel(name string) Label {
	a.labels = append(a.labels, labelState{name: name})
	return Label(len(a.labels) - 1)
}

// Bind fixes l at the current address and patches every pending reference to it.
func (a *Assembler) Bind(l Label) {
	if a.err != nil {
		return
	}
	st := &a.labels[l]
	if st.bound {
		a.err = fmt.Errorf("label %q bound twice", st.name)
		return
	}
	st.bound = true
	st.addr = a.Addr()

	pending := a.fixups[:0]
	for _, f := range a.fixups {
		if f.label != l {
			pending = append(pending, f)
			continue
		}
		switch f.kind {
		case fixupRelative:
			delta, err := a.relative(f.pos, st.addr, st.name)
			if err != nil {
				a.err = err
				return
			}
			a.patch(f.pos, encodeRRI(OpBeq, f.a, f.b, delta))
		case fixupFar:
			a.patch(f.pos, encodeRI(OpLui, f.a, int(st.addr>>6)))
			a.patch(f.pos+2, encodeRRI(OpAddi, f.a, f.a, int(st.addr&0x3f)))
		}
	}
	a.fixups = pending
}

// Jmp jumps to l with "beq r0, r0, delta".
func (a *Assembler) Jmp(l Label) { a.BeqLabel(R0, R0, l) }

// BeqLabel branches to l when x equals y.
func (a *Assembler) BeqLabel(x, y Reg, l Label) {
	if a.err != nil {
		return
	}
	st := a.labels[l]
	if !st.bound {
		a.fixups = append(a.fixups, fixup{kind: fixupRelative, label: l, pos: len(a.buf), a: x, b: y})
		a.Beq(x, y, 0)
		return
	}
	delta, err := a.relative(len(a.buf), st.addr, st.name)
	if err != nil {
		a.err = err
		return
	}
	a.Beq(x, y, delta)
}

// FarJmp jumps anywhere in memory through scratch: "movi scratch, l; jalr r0, scratch".
func (a *Assembler) FarJmp(scratch Reg, l Label) {
	if a.err != nil {
		return
	}
	st := a.labels[l]
	if !st.bound {
		a.fixups = append(a.fixups, fixup{kind: fixupFar, label: l, pos: len(a.buf), a: scratch})
		a.Movi(scratch, 0)
	} else {
		a.Movi(scratch, st.addr)
	}
	a.Jalr(R0, scratch)
}

func (a *Assembler) rri(op Opcode, x, y Reg, imm int) {
	if a.err == nil && (imm < Imm7Min || imm > Imm7Max) {
		a.err = fmt.Errorf("immediate %d: %w", imm, ErrImmediateRange)
	}
	a.Word(encodeRRI(op, x, y, imm))
}

// relative computes the beq displacement from the instruction at byte pos to target.
func (a *Assembler) relative(pos int, target uint16, name string) (int, error) {
	from := (a.offset+pos)/2 + 1
	delta := int(target) - from
	if delta < Imm7Min || delta > Imm7Max {
		return 0, fmt.Errorf("jump to %q (%d words): %w", name, delta, ErrJumpRange)
	}
	return delta, nil
}

func (a *Assembler) patch(pos int, w uint16) {
	a.buf[pos] = byte(w >> 8)
	a.buf[pos+1] = byte(w)
}
