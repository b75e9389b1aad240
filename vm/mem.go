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
	"os"
	"strconv"
	"strings"

	"github.com/db47h/intcode/internal/iox"
	"github.com/pkg/errors"
)

// Parse parses a comma separated list of decimal integers. Whitespace around
// each integer is ignored. Parsing stops at the first invalid token and
// returns a *ParseError.
func Parse(text string) ([]Cell, error) {
	tokens := strings.Split(text, ",")
	mem := make([]Cell, 0, len(tokens))
	for k, tok := range tokens {
		v, err := strconv.ParseInt(strings.TrimSpace(tok), 10, 64)
		if err != nil {
			return nil, errors.WithStack(&ParseError{Token: tok, Index: k})
		}
		mem = append(mem, Cell(v))
	}
	return mem, nil
}

// Load reads a program from r and parses it.
func Load(r io.Reader) ([]Cell, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "Load")
	}
	return Parse(string(b))
}

// LoadFile loads a program from file fileName.
func LoadFile(fileName string) ([]Cell, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "LoadFile")
	}
	defer f.Close()
	mem, err := Load(f)
	if err != nil {
		return nil, errors.Wrap(err, fileName)
	}
	return mem, nil
}

// Save writes mem to w in program text format, i.e. in a format suitable for
// Parse.
func Save(w io.Writer, mem []Cell) error {
	ew, _ := w.(*iox.ErrWriter)
	if ew == nil {
		ew = iox.NewErrWriter(w)
	}
	b := make([]byte, 0, 24)
	for k, v := range mem {
		b = b[:0]
		if k > 0 {
			b = append(b, ',')
		}
		b = strconv.AppendInt(b, int64(v), 10)
		if _, err := ew.Write(b); err != nil {
			return err
		}
	}
	_, err := ew.Write([]byte{'\n'})
	return err
}

// check validates addr against the memory limits.
func (i *Instance) check(addr int) error {
	if addr < 0 {
		return &Error{Kind: NegativeAddress, PC: i.pc, Value: Cell(addr)}
	}
	if addr >= i.maxMem {
		return &Error{Kind: OutOfRange, PC: i.pc, Value: Cell(addr)}
	}
	return nil
}

// checkCell validates a computed address and converts it to an int. The
// range check happens before conversion so that no address is truncated.
func (i *Instance) checkCell(a Cell) (int, error) {
	if a < 0 {
		return 0, &Error{Kind: NegativeAddress, PC: i.pc, Value: a}
	}
	if a >= Cell(i.maxMem) {
		return 0, &Error{Kind: OutOfRange, PC: i.pc, Value: a}
	}
	return int(a), nil
}

// grow grows memory so that addr is a valid index. addr must have been
// checked.
func (i *Instance) grow(addr int) {
	if addr < len(i.mem) {
		return
	}
	if addr < cap(i.mem) {
		n := len(i.mem)
		i.mem = i.mem[:addr+1]
		for k := n; k <= addr; k++ {
			i.mem[k] = 0
		}
		return
	}
	sz := 2 * cap(i.mem)
	if sz <= addr {
		sz = addr + 1
	}
	if sz > i.maxMem {
		sz = i.maxMem
	}
	t := make([]Cell, addr+1, sz)
	copy(t, i.mem)
	i.mem = t
}

// ReadCell returns the value at address addr, growing memory if needed.
func (i *Instance) ReadCell(addr int) (Cell, error) {
	if err := i.check(addr); err != nil {
		return 0, errors.WithStack(err)
	}
	i.grow(addr)
	return i.mem[addr], nil
}

// WriteCell sets the value at address addr, growing memory if needed. It is
// meant to patch a program before running it.
func (i *Instance) WriteCell(addr int, v Cell) error {
	if err := i.check(addr); err != nil {
		return errors.WithStack(err)
	}
	i.grow(addr)
	i.mem[addr] = v
	return nil
}
