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

// Package vm implements an Intcode machine.
//
// An Intcode program is a list of signed integers which serves both as code
// and data. Instructions are made of an opcode word followed by a fixed number
// of parameters. The two low decimal digits of the opcode word are the actual
// opcode, higher digits encode the mode of each parameter, starting with the
// hundreds for the first parameter:
//
//	opcode	asm	args	description
//	------	---	----	-----------------------------------------------
//	1	add	a b c	c = a + b
//	2	mul	a b c	c = a * b
//	3	in	a	a = next input value
//	4	out	a	output a
//	5	jt	a b	jump to b if a != 0
//	6	jf	a b	jump to b if a == 0
//	7	lt	a b c	c = 1 if a < b, 0 otherwise
//	8	eq	a b c	c = 1 if a == b, 0 otherwise
//	9	arb	a	relative base += a
//	99	hlt		halt
//
// Modes are 0 (positional: the parameter is an address), 1 (immediate: the
// parameter is the value) and 2 (relative: the parameter is added to the
// relative base to form an address). Parameters that are written to cannot be
// immediate.
//
// Memory grows on demand up to a configurable limit. Addresses past the end of
// the loaded program read as 0.
//
// I/O is cooperative. When an Input instruction finds the input queue empty,
// Run returns with the instance in the Blocked state and the instruction is
// retried on the next call to Run. There are no goroutines involved: callers
// are free to drive several instances from a single goroutine, or to give each
// instance its own (see package github.com/db47h/intcode/sched).
package vm
