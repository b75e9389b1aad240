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

import "strconv"

// ParseError is returned by Parse when a token of the program text is not a
// valid integer. Token holds the offending text as found in the input,
// untrimmed.
type ParseError struct {
	Token string
	Index int // token index, 0 based
}

func (e *ParseError) Error() string {
	return "token " + strconv.Itoa(e.Index) + ": not an integer: " + strconv.Quote(e.Token)
}

// ErrorKind identifies the cause of an operational Error.
type ErrorKind int

// Operational error kinds.
const (
	InvalidOpcode ErrorKind = iota + 1
	InvalidParameterMode
	OutOfRange
	NegativeAddress
	NegativeInstruction
	TooManyParameterModes
	ImmediateModeStorage
)

var kindNames = [...]string{
	InvalidOpcode:         "invalid opcode",
	InvalidParameterMode:  "invalid parameter mode",
	OutOfRange:            "address out of range",
	NegativeAddress:       "negative address",
	NegativeInstruction:   "negative instruction",
	TooManyParameterModes: "too many parameter modes",
	ImmediateModeStorage:  "immediate mode storage",
}

func (k ErrorKind) String() string {
	if k <= 0 || int(k) >= len(kindNames) {
		return "ErrorKind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Error is an operational error raised while decoding or executing an
// instruction. PC is the address of the faulting instruction and Value the
// offending value: the instruction word for decoding errors, the address for
// addressing errors.
//
// Operational errors are fatal for the Instance that raised them.
type Error struct {
	Kind  ErrorKind
	PC    int
	Value Cell
}

func (e *Error) Error() string {
	return e.Kind.String() + " " + strconv.FormatInt(int64(e.Value), 10) + " @pc=" + strconv.Itoa(e.PC)
}
