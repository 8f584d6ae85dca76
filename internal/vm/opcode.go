// Package vm implements the 16-bit virtual CPU that guards every output.
//
// An instruction is one 16-bit big-endian word, while data moved by sw and lw is little-endian.
// The top three bits select the opcode, the remaining bits hold register numbers and immediates:
//
//	add/nand  aaa bbb 0000 ccc
//	addi/sw/lw/beq  aaa bbb iiiiiii (signed)
//	lui       aaa iiiiiiiiii (unsigned)
//	jalr      aaa bbb 0000000, or aaa=000 bbb 0000001 for irq
package vm

import "fmt"

// Opcode selects an instruction format by the top three bits of a word.
type Opcode uint8

const (
	OpAdd Opcode = iota
	OpAddi
	OpNand
	OpLui
	OpSw
	OpLw
	OpBeq
	OpJalr
)

// Kind is the decoded meaning of a word. It refines Opcode with the irq and invalid cases.
type Kind uint8

const (
	KindAdd Kind = iota
	KindAddi
	KindNand
	KindLui
	KindSw
	KindLw
	KindBeq
	KindJalr
	KindIRQ
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindAdd:
		return "add"
	case KindAddi:
		return "addi"
	case KindNand:
		return "nand"
	case KindLui:
		return "lui"
	case KindSw:
		return "sw"
	case KindLw:
		return "lw"
	case KindBeq:
		return "beq"
	case KindJalr:
		return "jalr"
	case KindIRQ:
		return "irq"
	case KindInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// IRQ is the interrupt number carried in the b field of an irq instruction.
type IRQ uint8

const (
	IRQSuccess IRQ = 0
	IRQYield   IRQ = 1
	IRQFailure IRQ = 2
)

func (q IRQ) String() string {
	switch q {
	case IRQSuccess:
		return "success"
	case IRQYield:
		return "yield"
	default:
		return "failure"
	}
}

// Reg names one of the eight general registers. R0 always reads as zero.
type Reg uint8

const (
	R0 Reg = iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7
)

const (
	// NumRegisters is the size of a thread's register file.
	NumRegisters = 8
	// MemorySize is the size of the shared memory image: the whole 16-bit address space.
	MemorySize = 0x10000

	// Imm7Min and Imm7Max bound the signed 7-bit immediates of addi, sw, lw and beq.
	Imm7Min = -64
	Imm7Max = 63
	// Imm10Max bounds the unsigned immediate of lui.
	Imm10Max = 0x3ff

	irqMarker = 1
)

// decoded is an allocation-free view of one instruction word.
type decoded struct {
	kind Kind
	a    uint8
	b    uint8
	c    uint8
	imm  int16
}

func decode(word uint16) decoded {
	op := Opcode(word >> 13)
	d := decoded{
		a: uint8(word>>10) & 7,
		b: uint8(word>>7) & 7,
		c: uint8(word) & 7,
	}

	switch op {
	case OpAdd, OpNand:
		d.kind = KindAdd
		if op == OpNand {
			d.kind = KindNand
		}
		if word&0x78 != 0 {
			d.kind = KindInvalid
		}
	case OpAddi, OpSw, OpLw, OpBeq:
		d.kind = Kind(op)
		d.imm = signExtend7(word & 0x7f)
	case OpLui:
		d.kind = KindLui
		d.imm = int16(word & Imm10Max)
	case OpJalr:
		switch low := word & 0x7f; {
		case low == 0:
			d.kind = KindJalr
		case low == irqMarker && d.a == 0:
			d.kind = KindIRQ
		default:
			d.kind = KindInvalid
		}
	}
	return d
}

func signExtend7(v uint16) int16 {
	if v&0x40 != 0 {
		return int16(v) - 0x80
	}
	return int16(v)
}

func encodeRRR(op Opcode, a, b, c Reg) uint16 {
	return uint16(op)<<13 | uint16(a&7)<<10 | uint16(b&7)<<7 | uint16(c&7)
}

func encodeRRI(op Opcode, a, b Reg, imm int) uint16 {
	return uint16(op)<<13 | uint16(a&7)<<10 | uint16(b&7)<<7 | uint16(imm)&0x7f
}

func encodeRI(op Opcode, a Reg, imm int) uint16 {
	return uint16(op)<<13 | uint16(a&7)<<10 | uint16(imm)&Imm10Max
}

func encodeIRQ(q IRQ) uint16 {
	return uint16(OpJalr)<<13 | uint16(q&7)<<7 | irqMarker
}
