package vm

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type mnemonic uint8

const (
	mnAdd mnemonic = iota
	mnAddi
	mnNand
	mnLui
	mnSw
	mnLw
	mnBeq
	mnJalr
	mnIRQ
	mnMovi
	mnJmp
	mnFarJmp
	mnOffset
	mnWord
)

var mnemonics = map[string]mnemonic{
	"add":     mnAdd,
	"addi":    mnAddi,
	"nand":    mnNand,
	"lui":     mnLui,
	"sw":      mnSw,
	"lw":      mnLw,
	"beq":     mnBeq,
	"jalr":    mnJalr,
	"irq":     mnIRQ,
	"movi":    mnMovi,
	"jmp":     mnJmp,
	"farjmp":  mnFarJmp,
	".offset": mnOffset,
	".word":   mnWord,
}

var arity = map[mnemonic]int{
	mnAdd: 3, mnAddi: 3, mnNand: 3, mnLui: 2, mnSw: 3, mnLw: 3, mnBeq: 3,
	mnJalr: 2, mnIRQ: 1, mnMovi: 2, mnJmp: 1, mnFarJmp: 2, mnOffset: 1, mnWord: 1,
}

// ParseAsm assembles the textual form of a script.
//
// One instruction per line; "name:" binds a label, ";" and "#" start comments. Besides the eight
// instructions it accepts irq (success, yield, failure), movi, jmp, farjmp and the .offset and
// .word directives.
func ParseAsm(src string) ([]byte, error) {
	p := &parser{asm: NewAssembler(), labels: map[string]Label{}}

	sc := bufio.NewScanner(strings.NewReader(src))
	for line := 1; sc.Scan(); line++ {
		if err := p.line(sc.Text()); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if err := p.asm.Err(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	return p.asm.Bytes()
}

type parser struct {
	asm    *Assembler
	labels map[string]Label
}

func (p *parser) label(name string) Label {
	if l, ok := p.labels[name]; ok {
		return l
	}
	l := p.asm.NewLabel(name)
	p.labels[name] = l
	return l
}

func (p *parser) line(text string) error {
	if i := strings.IndexAny(text, ";#"); i >= 0 {
		text = text[:i]
	}
	text = strings.TrimSpace(text)

	for {
		i := strings.Index(text, ":")
		if i < 0 {
			break
		}
		name := strings.TrimSpace(text[:i])
		if !validLabel(name) {
			return fmt.Errorf("invalid label %q", name)
		}
		p.asm.Bind(p.label(name))
		text = strings.TrimSpace(text[i+1:])
	}
	if text == "" {
		return nil
	}

	name, rest := text, ""
	if i := strings.IndexFunc(text, unicode.IsSpace); i >= 0 {
		name, rest = text[:i], strings.TrimSpace(text[i:])
	}
	mn, ok := mnemonics[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("unknown mnemonic %q", name)
	}
	var ops []string
	if rest != "" {
		for _, op := range strings.Split(rest, ",") {
			ops = append(ops, strings.TrimSpace(op))
		}
	}
	if len(ops) != arity[mn] {
		return fmt.Errorf("%s takes %d operands, got %d", name, arity[mn], len(ops))
	}
	return p.emit(mn, ops)
}

func (p *parser) emit(mn mnemonic, ops []string) error {
	switch mn {
	case mnAdd, mnNand:
		regs, err := parseRegs(ops...)
		if err != nil {
			return err
		}
		if mn == mnAdd {
			p.asm.Add(regs[0], regs[1], regs[2])
		} else {
			p.asm.Nand(regs[0], regs[1], regs[2])
		}
	case mnAddi, mnSw, mnLw:
		regs, err := parseRegs(ops[0], ops[1])
		if err != nil {
			return err
		}
		imm, err := parseImm(ops[2])
		if err != nil {
			return err
		}
		switch mn {
		case mnAddi:
			p.asm.Addi(regs[0], regs[1], imm)
		case mnSw:
			p.asm.Sw(regs[0], regs[1], imm)
		default:
			p.asm.Lw(regs[0], regs[1], imm)
		}
	case mnBeq:
		regs, err := parseRegs(ops[0], ops[1])
		if err != nil {
			return err
		}
		if imm, err := parseImm(ops[2]); err == nil {
			p.asm.Beq(regs[0], regs[1], imm)
			return nil
		}
		if !validLabel(ops[2]) {
			return fmt.Errorf("invalid branch target %q", ops[2])
		}
		p.asm.BeqLabel(regs[0], regs[1], p.label(ops[2]))
	case mnLui:
		reg, err := parseReg(ops[0])
		if err != nil {
			return err
		}
		imm, err := parseImm(ops[1])
		if err != nil {
			return err
		}
		p.asm.Lui(reg, imm)
	case mnJalr:
		regs, err := parseRegs(ops...)
		if err != nil {
			return err
		}
		p.asm.Jalr(regs[0], regs[1])
	case mnIRQ:
		switch strings.ToLower(ops[0]) {
		case "success":
			p.asm.IRQ(IRQSuccess)
		case "yield":
			p.asm.IRQ(IRQYield)
		case "failure":
			p.asm.IRQ(IRQFailure)
		default:
			return fmt.Errorf("unknown irq %q", ops[0])
		}
	case mnMovi:
		reg, err := parseReg(ops[0])
		if err != nil {
			return err
		}
		v, err := parseWord(ops[1])
		if err != nil {
			return err
		}
		p.asm.Movi(reg, v)
	case mnJmp:
		if !validLabel(ops[0]) {
			return fmt.Errorf("invalid jump target %q", ops[0])
		}
		p.asm.Jmp(p.label(ops[0]))
	case mnFarJmp:
		reg, err := parseReg(ops[0])
		if err != nil {
			return err
		}
		if !validLabel(ops[1]) {
			return fmt.Errorf("invalid jump target %q", ops[1])
		}
		p.asm.FarJmp(reg, p.label(ops[1]))
	case mnOffset:
		v, err := parseWord(ops[0])
		if err != nil {
			return err
		}
		p.asm.SetCodeOffset(int(v))
	case mnWord:
		v, err := parseWord(ops[0])
		if err != nil {
			return err
		}
		p.asm.Word(v)
	}
	return nil
}

func parseReg(s string) (Reg, error) {
	s = strings.ToLower(s)
	if len(s) != 2 || s[0] != 'r' || s[1] < '0' || s[1] > '7' {
		return 0, fmt.Errorf("invalid register %q", s)
	}
	return Reg(s[1] - '0'), nil
}

func parseRegs(ss ...string) ([]Reg, error) {
	regs := make([]Reg, len(ss))
	for i, s := range ss {
		r, err := parseReg(s)
		if err != nil {
			return nil, err
		}
		regs[i] = r
	}
	return regs, nil
}

func parseImm(s string) (int, error) {
	v, err := strconv.ParseInt(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid immediate %q", s)
	}
	return int(v), nil
}

func parseWord(s string) (uint16, error) {
	v, err := strconv.ParseInt(s, 0, 32)
	if err != nil || v < -0x8000 || v > 0xffff {
		return 0, fmt.Errorf("invalid 16-bit value %q", s)
	}
	return uint16(v), nil
}

func validLabel(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_' || c == '.' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
