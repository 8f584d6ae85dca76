package vm

import (
	"errors"
	"fmt"
)

// Memory layout of an authorization run.
const (
	HashOffset    = 0x0000
	HashSize      = 32
	OutputOffset  = 0x1000
	InputOffset   = 0x2000
	MaxScriptSize = 0x1000

	DefaultMaxInitTicks = 0x40000
	DefaultMaxTicks     = 0x40000
)

// ErrScriptTooLarge is returned when a script does not fit into its memory slot.
var ErrScriptTooLarge = errors.New("script too large")

// Phase identifies the scheduler phase a step belongs to.
type Phase uint8

const (
	PhasePrerun Phase = iota
	PhaseJoint
)

// Role tells which of the two threads executed a step.
type Role uint8

const (
	RoleOutput Role = iota
	RoleInput
)

// Verdict explains how an authorization run ended.
type Verdict string

const (
	VerdictPrerunSuccess Verdict = "prerun_success"
	VerdictPrerunFailure Verdict = "prerun_failure"
	// VerdictPrerunTimeout counts as authorized: a guard that never terminates alone is a captured coin.
	VerdictPrerunTimeout Verdict = "prerun_timeout"
	VerdictJointSuccess  Verdict = "joint_success"
	VerdictJointFailure  Verdict = "joint_failure"
	VerdictJointTimeout  Verdict = "joint_timeout"
)

// Outcome is the detailed result of Interpreter.Execute.
type Outcome struct {
	Authorized bool
	Verdict    Verdict
	Ticks      int
}

// TraceFunc observes every executed step; t is the thread after the step.
type TraceFunc func(phase Phase, role Role, t *Thread)

// Interpreter races a guard (output) script against a claim (input) script.
type Interpreter struct {
	maxInitTicks int
	maxTicks     int
	trace        TraceFunc
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithTicks overrides the prerun and joint tick budgets. Non-positive values keep the defaults.
func WithTicks(maxInitTicks, maxTicks int) Option {
	return func(i *Interpreter) {
		if maxInitTicks > 0 {
			i.maxInitTicks = maxInitTicks
		}
		if maxTicks > 0 {
			i.maxTicks = maxTicks
		}
	}
}

// WithTrace installs a per-step hook.
func WithTrace(fn TraceFunc) Option {
	return func(i *Interpreter) {
		i.trace = fn
	}
}

// NewInterpreter builds an Interpreter with the default budgets.
func NewInterpreter(opts ...Option) *Interpreter {
	i := &Interpreter{
		maxInitTicks: DefaultMaxInitTicks,
		maxTicks:     DefaultMaxTicks,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Run reports whether input is allowed to spend the output guarded by output.
func (i *Interpreter) Run(hash, output, input []byte) (bool, error) {
	outcome, err := i.Execute(hash, output, input)
	if err != nil {
		return false, err
	}
	return outcome.Authorized, nil
}

// Execute runs both phases over a fresh memory image and returns how the run ended.
func (i *Interpreter) Execute(hash, output, input []byte) (Outcome, error) {
	if len(hash) > HashSize {
		return Outcome{}, fmt.Errorf("hash of %d bytes exceeds %d", len(hash), HashSize)
	}
	if len(output) > MaxScriptSize {
		return Outcome{}, fmt.Errorf("output script of %d bytes: %w", len(output), ErrScriptTooLarge)
	}
	if len(input) > MaxScriptSize {
		return Outcome{}, fmt.Errorf("input script of %d bytes: %w", len(input), ErrScriptTooLarge)
	}

	mem := make([]byte, MemorySize)
	copy(mem[HashOffset:], hash)
	copy(mem[OutputOffset:], output)

	out := NewThread(mem, OutputOffset/2)

	ticks := 0
	for ticks < i.maxInitTicks && !out.Yielded() {
		out.RunOne()
		ticks++
		i.step(PhasePrerun, RoleOutput, out)
		if out.Success() {
			return Outcome{Authorized: true, Verdict: VerdictPrerunSuccess, Ticks: ticks}, nil
		}
		if out.Failure() {
			return Outcome{Verdict: VerdictPrerunFailure, Ticks: ticks}, nil
		}
	}
	if !out.Yielded() {
		return Outcome{Authorized: true, Verdict: VerdictPrerunTimeout, Ticks: ticks}, nil
	}
	out.ClearYield()

	copy(mem[InputOffset:], input)
	in := NewThread(mem, InputOffset/2)

	for joint := 0; joint < i.maxTicks; joint++ {
		ticks++
		out.RunOne()
		out.ClearYield()
		i.step(PhaseJoint, RoleOutput, out)
		if out.Done() {
			verdict := VerdictJointFailure
			if out.Success() {
				verdict = VerdictJointSuccess
			}
			return Outcome{Authorized: out.Success(), Verdict: verdict, Ticks: ticks}, nil
		}

		if !in.Done() {
			in.RunOne()
			in.ClearYield()
			i.step(PhaseJoint, RoleInput, in)
		}
	}
	return Outcome{Verdict: VerdictJointTimeout, Ticks: ticks}, nil
}

func (i *Interpreter) step(phase Phase, role Role, t *Thread) {
	if i.trace != nil {
		i.trace(phase, role, t)
	}
}
