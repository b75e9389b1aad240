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

// Package asm provides utility functions to assemble and disassemble Intcode.
//
// Supported assembler mnemonics:
//
//	a, b and c are operands. Operands that are written to are marked with a
//	star.
//
//	opcode	asm		args	description
//	------	---		----	------------------------------------------
//	1	add		a b c*	c = a + b
//	2	mul		a b c*	c = a * b
//	3	in, inp		a*	read input into a
//	4	out		a	output a
//	5	jt, jnz		a b	jump to b if a != 0
//	6	jf, jz		a b	jump to b if a == 0
//	7	lt, slt		a b c*	c = a < b
//	8	eq, seq		a b c*	c = a == b
//	9	arb, rbo	a	add a to the relative base
//	99	hlt, halt		halt
//
// Operands:
//
// An operand is an integer literal, a character literal, a constant or a label,
// optionally prefixed with a mode character:
//
//	x	positional: x is the address of the operand
//	#x	immediate: x is the operand
//	@x	relative: x is added to the relative base to get the address of the
//		operand
//
// The assembler computes the instruction word from the operand modes. For
// example, "add x #1 @-2" compiles as 21001 x 1 -2. Operands that are written
// to cannot be immediate.
//
// Note that jump targets are values like any other operand: "jt #1 #loop"
// jumps to loop, while "jt #1 loop" jumps to the address stored at loop.
//
// Comments:
//
// Comments are placed between parentheses, i.e. '(' and ')'. The body of the
// comment must be separated from the enclosing parentheses by a space. That is:
//
// Some valid comments:
//
//	( this is a valid comment )
//	( this is a
//	  rather long
//	  multiline comment )
//
// The following are invalid comments:
//
//	(this will be seen by the parser as label "(this" and will not work )
//	( comments may ( not be nested ) here, the parser will complain trying to resolve
//	  "here," as a label )
//
// Literals and label/const identifiers:
//
// The input is split at white space (space, tab or new line) into tokens. The
// parser then does the following:
//
//	- If a token can be converted to a Go integer (see strconv.ParseInt), it will
//	  be converted to an integer literal.
//	- If it is a Go character literal between single quotes, it will be converted to
//	  the corresponding integer literal.
//	- If a token is the name of a defined constant, it will be replaced internally by
//	  the constant's value and can be used anywhere an integer literal is expected.
//	- Then, if an instruction is expected, the token is looked up in the
//	  assembler mnemonics. If no match is found, or if an operand is expected,
//	  it is considered to be a label.
//
// Data:
//
// Where the parser is expecting an instruction, literals, constants and labels
// are compiled as-is into a single data cell:
//
//	hlt
//	:table	1 2 'c' end	( 4 data cells: 1, 2, 99 and the address of end )
//	:end
//
// Labels:
//
// Labels are defined by prefixing them with a colon (:) and can be used as
// operands or data without the ':' prefix. Forward references are ok.
//
// Local labels work in the same way as in the GNU assembler. They are defined
// as a colon followed by a sequence of digits (i.e. :007, :0, :42) and may be
// defined multiple times. References to such labels must be suffixed with
// either a '-' (meaning backward reference to the last definition of this
// label), or a '+' (meaning a forward reference to the next definition of this
// label):
//
//	:1	jt x #1+	( jumps to the second :1 )
//		jt #1 #1-	( jumps to the first :1 )
//	:1	hlt
//
// Assembler directives:
//
//	.equ <IDENTIFIER> <value>
//
// defines a constant value. The value must be an integer value, named
// constant or character literal.
//
//	.org <value>
//
// Will place the next instruction at the address specified by the given integer
// literal or named constant.
//
//	.dat <value>
//	.dat "string"
//
// Will compile the specified value as-is. With a Go string literal, one cell
// is compiled for each rune of the string. This is handy for ASCII programs:
//
//	:prompt	.dat "Command?\n" 0
package asm
