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

package asm

import (
	"fmt"
	"io"
	"strconv"
	"text/scanner"
	"unicode"

	"github.com/db47h/intcode/vm"
)

const maxErrors = 10

func isIdentRune(ch rune, i int) bool {
	if i == 0 && ch == '"' {
		return false
	}
	return unicode.IsLetter(ch) || unicode.IsSymbol(ch) || unicode.IsPunct(ch) || unicode.IsDigit(ch)
}

type labelSite struct {
	pos     scanner.Position
	address int
}

type label struct {
	labelSite
	uses []labelSite
}

// parser states
const (
	stateAny = iota // accept anything
	stateArg        // need an operand for the current instruction
	stateOrg        // accept integer or const (.org)
	stateEqu        // accept integer or const (.equ value)
	stateDat        // accept a value or a string (.dat)
)

var modeScale = [...]vm.Cell{100, 1000, 10000}

type parser struct {
	i       []vm.Cell
	pc      int
	end     int
	s       scanner.Scanner
	labels  map[string]*label
	consts  map[string]labelSite
	locals  map[string]int
	cstName string
	cstPos  scanner.Position
	errs    ErrAsm
	// instruction being assembled
	op    vm.Opcode
	opPC  int
	argN  int
	modes vm.Cell
}

func newParser() *parser {
	p := new(parser)
	p.labels = make(map[string]*label)
	p.consts = make(map[string]labelSite)
	p.locals = make(map[string]int)
	return p
}

func (p *parser) write(v vm.Cell) {
	for p.pc >= len(p.i) {
		p.i = append(p.i, make([]vm.Cell, 1024)...)
	}
	p.i[p.pc] = v
	p.pc++
	if p.pc > p.end {
		p.end = p.pc
	}
}

func (p *parser) error(msg string) {
	p.errorAt(p.s.Position, msg)
}

func (p *parser) errorAt(pos scanner.Position, msg string) {
	if !pos.IsValid() {
		pos = p.s.Pos()
	}
	if len(p.errs) < maxErrors {
		p.errs = append(p.errs, struct {
			Pos scanner.Position
			Msg string
		}{pos, msg})
	}
}

func (p *parser) useLabel(name string) {
	lbl := p.labels[name]
	if lbl == nil {
		lbl = &label{
			// use current position as valid temp position
			labelSite{p.s.Position, -1},
			nil,
		}
		p.labels[name] = lbl
	}
	lbl.uses = append(lbl.uses, labelSite{p.s.Position, p.pc})
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}

func localName(n string, count int) string {
	return n + "·" + strconv.Itoa(count)
}

// localRef converts a local label reference like 1+ or 1- to the internal
// label name.
func (p *parser) localRef(s string) string {
	l := len(s) - 1
	if l < 1 || !isDigits(s[:l]) {
		return s
	}
	switch s[l] {
	case '-':
		return localName(s[:l], p.locals[s[:l]])
	case '+':
		return localName(s[:l], p.locals[s[:l]]+1)
	}
	return s
}

func (p *parser) defineLabel(n string) {
	if len(n) == 0 {
		p.error("Empty label name")
		return
	}
	if isDigits(n) {
		p.locals[n]++
		n = localName(n, p.locals[n])
	}
	if cst, ok := p.consts[n]; ok {
		p.error("Label redefinition: " + n + ", previously defined as a constant here: " + cst.pos.String())
		return
	}
	if l, ok := p.labels[n]; ok {
		if l.address != -1 {
			p.error("Label redefinition: " + n + ", previous definition here: " + l.pos.String())
			return
		}
		l.address = p.pc
		l.pos = p.s.Position
		return
	}
	p.labels[n] = &label{labelSite{p.s.Position, p.pc}, nil}
}

// value parses an integer, char or constant. ok is false if s is none of
// these, in which case s should be a label name.
func (p *parser) value(s string) (v vm.Cell, ok bool) {
	if n, err := strconv.ParseInt(s, 0, 64); err == nil {
		return vm.Cell(n), true
	}
	if len(s) > 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		r, _, tail, err := strconv.UnquoteChar(s[1:len(s)-1], '\'')
		if err != nil || tail != "" {
			p.error("Invalid char literal " + s)
			return 0, true
		}
		return vm.Cell(r), true
	}
	if c, ok := p.consts[s]; ok {
		return vm.Cell(c.address), true
	}
	return 0, false
}

// operand writes an instruction operand or a data cell.
func (p *parser) operand(s string) {
	m := vm.Positional
	if p.op != 0 && len(s) > 1 {
		switch s[0] {
		case '#':
			m, s = vm.Immediate, s[1:]
		case '@':
			m, s = vm.Relative, s[1:]
		}
	}
	if p.op != 0 {
		if m == vm.Immediate && p.argN == p.op.WriteParam() {
			p.error("Immediate operand not allowed as write parameter of " + p.op.String())
		}
		p.modes += vm.Cell(m) * modeScale[p.argN]
	}
	if v, ok := p.value(s); ok {
		p.write(v)
	} else if isLabelName(s) {
		p.useLabel(p.localRef(s))
		p.write(0)
	} else {
		p.error("Invalid operand " + strconv.Quote(s))
		p.write(0)
	}
	if p.op != 0 {
		p.argN++
		if p.argN == p.op.Arity() {
			p.endInstruction()
		}
	}
}

func isLabelName(s string) bool {
	if s == "" {
		return false
	}
	switch s[0] {
	case ':', '.', '#', '@', '\'':
		return false
	}
	return true
}

func (p *parser) beginInstruction(op vm.Opcode) {
	p.op, p.opPC, p.argN, p.modes = op, p.pc, 0, 0
	p.write(vm.Cell(op))
	if op.Arity() == 0 {
		p.endInstruction()
	}
}

func (p *parser) endInstruction() {
	p.i[p.opPC] = vm.Cell(p.op) + p.modes
	p.op = 0
}

// Parse does the parsing and compiling.
func (p *parser) Parse(name string, r io.Reader) error {
	var state int

	p.s.Init(r)
	p.s.Error = func(s *scanner.Scanner, msg string) {
		p.error(msg)
	}
	p.s.IsIdentRune = isIdentRune
	p.s.Mode = scanner.ScanIdents | scanner.ScanStrings
	p.s.Filename = name

	for tok := p.s.Scan(); tok != scanner.EOF && len(p.errs) < maxErrors; tok = p.s.Scan() {
		s := p.s.TokenText()

		if tok == scanner.String {
			if state != stateDat {
				p.error("Unexpected string " + s)
				state = stateAny
				continue
			}
			str, err := strconv.Unquote(s)
			if err != nil {
				p.error("Invalid string " + s + ": " + err.Error())
			}
			for _, c := range str {
				p.write(vm.Cell(c))
			}
			state = stateAny
			continue
		}
		if tok != scanner.Ident {
			p.error("Unexpected character " + strconv.QuoteRune(tok))
			continue
		}

		// comments
		if s == "(" {
			for ; tok != scanner.EOF && (tok != scanner.Ident || p.s.TokenText() != ")"); tok = p.s.Scan() {
			}
			continue
		}

		switch state {
		case stateOrg, stateEqu:
			v, ok := p.value(s)
			if !ok {
				p.error("Expected integer or constant, got " + s)
			} else if state == stateOrg {
				if v < 0 {
					p.error(".org: negative address " + s)
				} else {
					p.pc = int(v)
				}
			} else {
				p.consts[p.cstName] = labelSite{p.cstPos, int(v)}
			}
			state = stateAny
			continue
		case stateDat:
			p.operand(s)
			state = stateAny
			continue
		case stateArg:
			if _, isOp := opcodeIndex[s]; isOp || s[0] == ':' || s[0] == '.' {
				p.error(fmt.Sprintf("Missing operand %d for %v", p.argN+1, p.op))
				p.endInstruction()
				state = stateAny
				break
			}
			p.operand(s)
			if p.op == 0 {
				state = stateAny
			}
			continue
		}

		// stateAny
		switch {
		case s[0] == ':':
			p.defineLabel(s[1:])
		case s[0] == '.':
			switch s {
			case ".org":
				state = stateOrg
			case ".dat":
				state = stateDat
			case ".equ":
				if t := p.s.Scan(); t != scanner.Ident {
					p.error(".equ: expected identifier, got " + p.s.TokenText())
					break
				}
				p.cstName = p.s.TokenText()
				if l, ok := p.labels[p.cstName]; ok {
					p.error(".equ: redefinition of " + p.cstName + ", previously defined/used as a label here: " + l.pos.String())
					break
				}
				p.cstPos = p.s.Position
				state = stateEqu
			default:
				p.error("Unknown dot directive: " + s)
			}
		default:
			if op, ok := opcodeIndex[s]; ok {
				p.beginInstruction(op)
				if p.op != 0 {
					state = stateArg
				}
				break
			}
			if s[0] == '#' || s[0] == '@' {
				p.error("Unexpected operand outside of instruction: " + s)
				break
			}
			// data cell
			p.operand(s)
		}
	}

	if state == stateArg {
		p.error(fmt.Sprintf("Missing operand %d for %v", p.argN+1, p.op))
	} else if state != stateAny {
		p.error("Unexpected end of input")
	}

	// write labels
	for n, l := range p.labels {
		if l.address == -1 {
			p.errorAt(l.uses[0].pos, "Undefined label "+n)
			continue
		}
		for _, u := range l.uses {
			p.i[u.address] = vm.Cell(l.address)
		}
	}

	if len(p.errs) > 0 {
		return p.errs
	}
	return nil
}
