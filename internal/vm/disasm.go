package vm

import (
	"fmt"
	"strings"
)

// Instruction is one decoded word of a disassembly.
type Instruction struct {
	// Addr is the word address of the instruction.
	Addr     uint16
	Raw      uint16
	Kind     Kind
	Operands []int
}

// Decode maps a single word to its kind and operands.
//
// Operands are [a, b, c] for add and nand, [a, b, imm] for addi, sw, lw and beq, [a, imm] for lui,
// [a, b] for jalr, [irq] for irq and [] for invalid words.
func Decode(word uint16) (Kind, []int) {
	d := decode(word)
	switch d.kind {
	case KindAdd, KindNand:
		return d.kind, []int{int(d.a), int(d.b), int(d.c)}
	case KindAddi, KindSw, KindLw, KindBeq:
		return d.kind, []int{int(d.a), int(d.b), int(d.imm)}
	case KindLui:
		return d.kind, []int{int(d.a), int(d.imm)}
	case KindJalr:
		return d.kind, []int{int(d.a), int(d.b)}
	case KindIRQ:
		return d.kind, []int{int(d.b)}
	default:
		return KindInvalid, nil
	}
}

// Disassemble decodes code loaded at byte address base. A trailing odd byte decodes as invalid.
func Disassemble(code []byte, base uint16) []Instruction {
	out := make([]Instruction, 0, (len(code)+1)/2)
	for pos := 0; pos < len(code); pos += 2 {
		ins := Instruction{Addr: uint16((int(base) + pos) / 2)}
		if pos+1 >= len(code) {
			ins.Raw = uint16(code[pos])
			ins.Kind = KindInvalid
			out = append(out, ins)
			break
		}
		ins.Raw = uint16(code[pos])<<8 | uint16(code[pos+1])
		ins.Kind, ins.Operands = Decode(ins.Raw)
		out = append(out, ins)
	}
	return out
}

// String renders the instruction in the syntax accepted by ParseAsm.
func (i Instruction) String() string {
	reg := func(n int) string { return fmt.Sprintf("r%d", n) }
	switch i.Kind {
	case KindAdd, KindNand:
		return fmt.Sprintf("%s %s, %s, %s", i.Kind, reg(i.Operands[0]), reg(i.Operands[1]), reg(i.Operands[2]))
	case KindAddi, KindSw, KindLw, KindBeq:
		return fmt.Sprintf("%s %s, %s, %d", i.Kind, reg(i.Operands[0]), reg(i.Operands[1]), i.Operands[2])
	case KindLui:
		return fmt.Sprintf("lui %s, %#x", reg(i.Operands[0]), i.Operands[1])
	case KindJalr:
		return fmt.Sprintf("jalr %s, %s", reg(i.Operands[0]), reg(i.Operands[1]))
	case KindIRQ:
		return "irq " + IRQ(i.Operands[0]).String()
	default:
		return fmt.Sprintf(".word %#04x", i.Raw)
	}
}

// Listing formats a disassembly one instruction per line, prefixed with its byte address.
func Listing(ins []Instruction) string {
	var sb strings.Builder
	for _, in := range ins {
		fmt.Fprintf(&sb, "%04x: %-24s ; %04x\n", int(in.Addr)*2, in.String(), in.Raw)
	}
	return sb.String()
}
