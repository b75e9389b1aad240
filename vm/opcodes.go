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
	"strconv"
	"strings"
)

// Opcode is the base opcode of an instruction, i.e. the two low decimal
// digits of an instruction word.
type Opcode Cell

// Intcode opcodes.
const (
	OpAdd       Opcode = 1
	OpMul       Opcode = 2
	OpIn        Opcode = 3
	OpOut       Opcode = 4
	OpJumpTrue  Opcode = 5
	OpJumpFalse Opcode = 6
	OpLess      Opcode = 7
	OpEqual     Opcode = 8
	OpRelBase   Opcode = 9
	OpHalt      Opcode = 99
)

type opInfo struct {
	name  string
	arity int
	write int // index of the write parameter, -1 if none
}

// indexed by opcode. Entries with an empty name are invalid opcodes.
var opTable = [100]opInfo{
	OpAdd:       {"add", 3, 2},
	OpMul:       {"mul", 3, 2},
	OpIn:        {"in", 1, 0},
	OpOut:       {"out", 1, -1},
	OpJumpTrue:  {"jt", 2, -1},
	OpJumpFalse: {"jf", 2, -1},
	OpLess:      {"lt", 3, 2},
	OpEqual:     {"eq", 3, 2},
	OpRelBase:   {"arb", 1, -1},
	OpHalt:      {"hlt", 0, -1},
}

// Valid returns true if op is a known opcode.
func (op Opcode) Valid() bool {
	return op >= 0 && int(op) < len(opTable) && opTable[op].name != ""
}

// Arity returns the number of parameters of op.
func (op Opcode) Arity() int {
	if !op.Valid() {
		return 0
	}
	return opTable[op].arity
}

// WriteParam returns the index of the parameter op writes to, or -1.
func (op Opcode) WriteParam() int {
	if !op.Valid() {
		return -1
	}
	return opTable[op].write
}

func (op Opcode) String() string {
	if !op.Valid() {
		return "Opcode(" + strconv.FormatInt(int64(op), 10) + ")"
	}
	return opTable[op].name
}

// Mode is a parameter addressing mode.
type Mode int

// Parameter modes.
const (
	Positional Mode = iota
	Immediate
	Relative
)

// Prefix returns the assembler prefix for m.
func (m Mode) Prefix() string {
	switch m {
	case Immediate:
		return "#"
	case Relative:
		return "@"
	}
	return ""
}

// Param is an instruction parameter: its raw value tagged with its mode.
type Param struct {
	Mode  Mode
	Value Cell
}

func (p Param) String() string {
	return p.Mode.Prefix() + strconv.FormatInt(int64(p.Value), 10)
}

// Instruction is a decoded instruction. Only the first Op.Arity() entries of
// Params are meaningful.
type Instruction struct {
	Op     Opcode
	Params [3]Param
}

// Len returns the number of memory cells used by the instruction.
func (in *Instruction) Len() int {
	return in.Op.Arity() + 1
}

func (in *Instruction) String() string {
	var b strings.Builder
	b.WriteString(in.Op.String())
	for k := 0; k < in.Op.Arity(); k++ {
		b.WriteByte(' ')
		b.WriteString(in.Params[k].String())
	}
	return b.String()
}

var pow10 = [...]Cell{1, 10, 100, 1000}

// Decode decodes the instruction at address pc in mem. Memory is not
// modified: cells past the end of mem read as 0.
//
// The returned error, if any, is a *Error with a zero PC field. A negative pc
// is a NegativeAddress error.
func Decode(mem []Cell, pc int) (in Instruction, err error) {
	if pc < 0 {
		return in, &Error{Kind: NegativeAddress, Value: Cell(pc)}
	}
	w := peek(mem, pc)
	if w < 0 {
		return in, &Error{Kind: NegativeInstruction, Value: w}
	}
	in.Op = Opcode(w % 100)
	if !in.Op.Valid() {
		return in, &Error{Kind: InvalidOpcode, Value: w}
	}
	n := in.Op.Arity()
	modes := w / 100
	if modes >= pow10[n] {
		return in, &Error{Kind: TooManyParameterModes, Value: w}
	}
	for k := 0; k < n; k++ {
		m := Mode(modes % 10)
		modes /= 10
		switch m {
		case Positional, Immediate, Relative:
		default:
			return in, &Error{Kind: InvalidParameterMode, Value: w}
		}
		in.Params[k] = Param{m, peek(mem, pc+1+k)}
	}
	return in, nil
}

func peek(mem []Cell, addr int) Cell {
	if addr >= 0 && addr < len(mem) {
		return mem[addr]
	}
	return 0
}
