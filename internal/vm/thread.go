package vm

// Flag is the status bit set of a thread.
type Flag uint8

const (
	FlagSuccess Flag = 1 << iota
	FlagFailure
	FlagYield
)

// Thread is one execution context over a memory image that may be shared with another thread.
type Thread struct {
	regs  [NumRegisters]uint16
	pc    uint16
	flags Flag
	mem   []byte
}

// NewThread creates a thread that starts executing at word address pc.
func NewThread(mem []byte, pc uint16) *Thread {
	return &Thread{mem: mem, pc: pc}
}

// PC returns the word address of the next instruction.
func (t *Thread) PC() uint16 { return t.pc }

// Reg returns the value of register r.
func (t *Thread) Reg(r Reg) uint16 {
	if r == R0 {
		return 0
	}
	return t.regs[r&7]
}

// Registers returns a copy of the register file.
func (t *Thread) Registers() [NumRegisters]uint16 {
	regs := t.regs
	regs[0] = 0
	return regs
}

// Flags returns the current status bits.
func (t *Thread) Flags() Flag { return t.flags }

// Done reports whether the thread has reached success or failure.
func (t *Thread) Done() bool { return t.flags&(FlagSuccess|FlagFailure) != 0 }

// Success reports whether the thread signaled success.
func (t *Thread) Success() bool { return t.flags&FlagSuccess != 0 }

// Failure reports whether the thread signaled or faulted into failure.
func (t *Thread) Failure() bool { return t.flags&FlagFailure != 0 }

// Yielded reports whether the thread raised the yield interrupt.
func (t *Thread) Yielded() bool { return t.flags&FlagYield != 0 }

// ClearYield drops the yield bit.
func (t *Thread) ClearYield() { t.flags &^= FlagYield }

// RunOne executes exactly one instruction. A finished thread does nothing.
func (t *Thread) RunOne() {
	if t.Done() {
		return
	}

	addr := int(t.pc) * 2
	if addr+1 >= len(t.mem) {
		t.flags |= FlagFailure
		return
	}
	word := uint16(t.mem[addr])<<8 | uint16(t.mem[addr+1])
	t.pc++

	d := decode(word)
	switch d.kind {
	case KindAdd:
		t.set(d.a, t.regs[d.b]+t.regs[d.c])
	case KindAddi:
		t.set(d.a, t.regs[d.b]+uint16(d.imm))
	case KindNand:
		t.set(d.a, 0xffff^(t.regs[d.b]&t.regs[d.c]))
	case KindLui:
		t.set(d.a, uint16(d.imm)<<6)
	case KindSw:
		t.store(t.regs[d.b]+uint16(d.imm), t.regs[d.a])
	case KindLw:
		t.set(d.a, t.load(t.regs[d.b]+uint16(d.imm)))
	case KindBeq:
		if t.regs[d.a] == t.regs[d.b] {
			t.pc += uint16(d.imm)
		}
	case KindJalr:
		target := t.regs[d.b]
		t.set(d.a, t.pc)
		t.pc = target
	case KindIRQ:
		switch IRQ(d.b) {
		case IRQSuccess:
			t.flags |= FlagSuccess
		case IRQYield:
			t.flags |= FlagYield
		default:
			t.flags |= FlagFailure
		}
	case KindInvalid:
		t.flags |= FlagFailure
	}
}

// set writes a register; writes to r0 are discarded so it keeps reading as zero.
func (t *Thread) set(r uint8, v uint16) {
	if r == 0 {
		return
	}
	t.regs[r] = v
}

func (t *Thread) load(addr uint16) uint16 {
	n := len(t.mem)
	lo := int(addr) % n
	hi := (int(addr) + 1) % n
	return uint16(t.mem[lo]) | uint16(t.mem[hi])<<8
}

func (t *Thread) store(addr, v uint16) {
	n := len(t.mem)
	lo := int(addr) % n
	hi := (int(addr) + 1) % n
	t.mem[lo] = byte(v)
	t.mem[hi] = byte(v >> 8)
}
