// This file is part of intcode - https://github.com/db47h/intcode
//
// Copyright 2019 Denis Bernard <db047h@gmail.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vm

import (
	"io"
	"strconv"

	"github.com/db47h/intcode/internal/iox"
	"github.com/pkg/errors"
)

// Cell is the raw type stored in a memory location.
type Cell int64

// DefaultMaxMemory is the default memory limit of an Instance, in cells.
const DefaultMaxMemory = 1 << 24

// State is the execution state of an Instance.
type State int

// Instance states.
const (
	// Running is the initial state. An Instance is Running while it can
	// proceed without external input.
	Running State = iota
	// Blocked means that the next instruction is an Input and the input queue
	// is empty. Pushing a value makes the Instance Running again.
	Blocked
	// Halted is terminal.
	Halted
)

var stateNames = [...]string{"running", "blocked", "halted"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
	return stateNames[s]
}

// Instance represents an Intcode machine instance.
type Instance struct {
	mem      []Cell
	pc       int
	rb       Cell
	state    State
	err      error
	maxMem   int
	in       []Cell
	inPos    int
	out      []Cell
	outPos   int
	insCount int64
	trace    io.Writer
}

// Option interface
type Option func(*Instance) error

// Input appends the given values to the input queue.
func Input(values ...Cell) Option {
	return func(i *Instance) error { i.Push(values...); return nil }
}

// MaxMemory sets the maximum memory size in cells. Accessing an address past
// this limit fails with an OutOfRange error. The default is DefaultMaxMemory.
func MaxMemory(cells int) Option {
	return func(i *Instance) error {
		if cells < len(i.mem) {
			return errors.Errorf("memory limit %d smaller than program size %d", cells, len(i.mem))
		}
		i.maxMem = cells
		return nil
	}
}

// Trace enables instruction tracing: the address and disassembly of every
// instruction is written to w before it executes. A nil w disables tracing.
func Trace(w io.Writer) Option {
	return func(i *Instance) error { i.trace = w; return nil }
}

// SetOptions sets the provided options.
func (i *Instance) SetOptions(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return err
		}
	}
	return nil
}

// New creates a new Intcode machine instance.
//
// The mem parameter is the initial memory, usually obtained from Parse or
// Load. New does not copy it: the Instance will modify it as it runs.
//
// Options will be set by calling SetOptions.
func New(mem []Cell, opts ...Option) (*Instance, error) {
	i := &Instance{
		mem:    mem,
		maxMem: DefaultMaxMemory,
	}
	if err := i.SetOptions(opts...); err != nil {
		return nil, err
	}
	if len(i.mem) > i.maxMem {
		return nil, errors.Errorf("program size %d exceeds memory limit %d", len(i.mem), i.maxMem)
	}
	return i, nil
}

// Duplicate returns a deep copy of the instance. The copy has its own memory
// and empty I/O queues; nothing is shared with the original.
func (i *Instance) Duplicate() *Instance {
	mem := make([]Cell, len(i.mem))
	copy(mem, i.mem)
	return &Instance{
		mem:    mem,
		pc:     i.pc,
		rb:     i.rb,
		state:  i.state,
		err:    i.err,
		maxMem: i.maxMem,
		trace:  i.trace,
	}
}

// State returns the current execution state.
func (i *Instance) State() State {
	return i.state
}

// Err returns the operational error that stopped the instance, if any.
func (i *Instance) Err() error {
	return i.err
}

// PC returns the instruction pointer.
func (i *Instance) PC() int {
	return i.pc
}

// RelativeBase returns the value of the relative base register.
func (i *Instance) RelativeBase() Cell {
	return i.rb
}

// Len returns the current memory size in cells.
func (i *Instance) Len() int {
	return len(i.mem)
}

// Memory returns a copy of the instance memory.
func (i *Instance) Memory() []Cell {
	m := make([]Cell, len(i.mem))
	copy(m, i.mem)
	return m
}

// InstructionCount returns the number of instructions executed by the last
// call to Run.
func (i *Instance) InstructionCount() int64 {
	return i.insCount
}

// Dump writes the machine registers followed by its memory in program text
// format to w.
func (i *Instance) Dump(w io.Writer) error {
	ew := iox.NewErrWriter(w)
	io.WriteString(ew, "state: "+i.state.String())
	io.WriteString(ew, "\npc: "+strconv.Itoa(i.pc))
	io.WriteString(ew, "\nrb: "+strconv.FormatInt(int64(i.rb), 10))
	io.WriteString(ew, "\nmem: ")
	if ew.Err != nil {
		return ew.Err
	}
	return Save(ew, i.mem)
}
