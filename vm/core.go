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
	"fmt"

	"github.com/pkg/errors"
)

// Run executes instructions until the instance is either Blocked or Halted.
//
// Run returns a nil error when the instance halts or needs input. Check State
// to tell which. Callers waiting on input Push values and call Run again: the
// blocked Input instruction is retried.
//
// If an error occurs, it is returned wrapped with a stack trace and the PC
// still points to the instruction that triggered it. Errors are fatal: all
// subsequent calls to Run return the same error. Use errors.Cause to get the
// underlying *Error.
func (i *Instance) Run() error {
	if i.err != nil {
		return i.err
	}
	i.insCount = 0
	if i.state == Halted {
		return nil
	}
	i.state = Running
	for i.state == Running {
		if err := i.step(); err != nil {
			i.err = errors.WithStack(err)
			return i.err
		}
	}
	return nil
}

// Step executes a single instruction. Like Run, it does nothing on a halted
// instance and returns the stored error of a failed one.
func (i *Instance) Step() error {
	if i.err != nil {
		return i.err
	}
	if i.state == Halted {
		return nil
	}
	i.state = Running
	if err := i.step(); err != nil {
		i.err = errors.WithStack(err)
		return i.err
	}
	return nil
}

// step decodes and executes the instruction at PC. All errors are detected
// before any change is made to the instance, so that a failed instruction has
// no visible effect.
func (i *Instance) step() error {
	if err := i.check(i.pc); err != nil {
		return err
	}
	in, err := Decode(i.mem, i.pc)
	if err != nil {
		e := err.(*Error)
		e.PC = i.pc
		return e
	}
	n := in.Op.Arity()
	top := i.pc + n
	if err = i.check(top); err != nil {
		return err
	}
	if w := in.Op.WriteParam(); w >= 0 && in.Params[w].Mode == Immediate {
		return &Error{Kind: ImmediateModeStorage, PC: i.pc, Value: peek(i.mem, i.pc)}
	}

	// resolve addresses
	var addr [3]int
	for k := 0; k < n; k++ {
		p := in.Params[k]
		a := p.Value
		switch p.Mode {
		case Positional:
		case Relative:
			a += i.rb
		default:
			continue
		}
		if addr[k], err = i.checkCell(a); err != nil {
			return err
		}
		if addr[k] > top {
			top = addr[k]
		}
	}

	if in.Op == OpIn && i.inPos == len(i.in) {
		i.state = Blocked
		return nil
	}

	// jump targets are addresses too
	var target int
	if in.Op == OpJumpTrue || in.Op == OpJumpFalse {
		if target, err = i.checkCell(i.value(&in, &addr, 1)); err != nil {
			return err
		}
	}

	if i.trace != nil {
		fmt.Fprintf(i.trace, "% 8d\t%v\n", i.pc, &in)
	}

	i.grow(top)
	next := i.pc + n + 1

	switch in.Op {
	case OpAdd:
		i.mem[addr[2]] = i.value(&in, &addr, 0) + i.value(&in, &addr, 1)
	case OpMul:
		i.mem[addr[2]] = i.value(&in, &addr, 0) * i.value(&in, &addr, 1)
	case OpIn:
		i.mem[addr[0]] = i.pop()
	case OpOut:
		i.out = append(i.out, i.value(&in, &addr, 0))
	case OpJumpTrue:
		if i.value(&in, &addr, 0) != 0 {
			next = target
		}
	case OpJumpFalse:
		if i.value(&in, &addr, 0) == 0 {
			next = target
		}
	case OpLess:
		i.mem[addr[2]] = bool2Cell(i.value(&in, &addr, 0) < i.value(&in, &addr, 1))
	case OpEqual:
		i.mem[addr[2]] = bool2Cell(i.value(&in, &addr, 0) == i.value(&in, &addr, 1))
	case OpRelBase:
		i.rb += i.value(&in, &addr, 0)
	case OpHalt:
		i.state = Halted
		next = i.pc
	}
	i.pc = next
	i.insCount++
	return nil
}

// value returns the value of the k-th parameter of in.
func (i *Instance) value(in *Instruction, addr *[3]int, k int) Cell {
	if in.Params[k].Mode == Immediate {
		return in.Params[k].Value
	}
	return peek(i.mem, addr[k])
}

func bool2Cell(b bool) Cell {
	if b {
		return 1
	}
	return 0
}
