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

// Package ascii runs Intcode programs that talk to the user in ASCII text.
//
// Such programs print characters as output values in the range [0, 127] and
// expect commands as a sequence of character values terminated by a newline
// (10). Values outside the ASCII range are usually final answers and are
// handled separately.
package ascii

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/db47h/intcode/internal/iox"
	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
)

// IsASCII returns true if v is a 7 bits ASCII character.
func IsASCII(v vm.Cell) bool {
	return v >= 0 && v < utf8.RuneSelf
}

// Encode returns the input values for string s, one per rune.
func Encode(s string) []vm.Cell {
	vals := make([]vm.Cell, 0, len(s))
	for _, r := range s {
		vals = append(vals, vm.Cell(r))
	}
	return vals
}

// Decode splits vals into ASCII text and the remaining non-ASCII values, in
// order of appearance.
func Decode(vals []vm.Cell) (text string, rest []vm.Cell) {
	var b strings.Builder
	for _, v := range vals {
		if IsASCII(v) {
			b.WriteByte(byte(v))
		} else {
			rest = append(rest, v)
		}
	}
	return b.String(), rest
}

type flusher interface {
	Flush() error
}

// Option interface
type Option func(*Terminal) error

// Input pushes r on top of the input stack.
func Input(r io.Reader) Option {
	return func(t *Terminal) error {
		t.PushInput(r)
		return nil
	}
}

// Output sets the output writer. If w implements a Flush() error method, it
// will be called every time the program waits for input.
func Output(w io.Writer) Option {
	return func(t *Terminal) error {
		t.w = w
		t.out = iox.NewErrWriter(w)
		return nil
	}
}

// Raw enables raw mode: every rune read is sent to the program as soon as it
// is available and is echoed to the output. A Ctrl-D ends the input.
func Raw(raw bool) Option {
	return func(t *Terminal) error {
		t.raw = raw
		return nil
	}
}

// Exit sets a command that will stop the terminal when entered on a line by
// itself. The command is not sent to the program.
func Exit(cmd string) Option {
	return func(t *Terminal) error {
		t.exit = cmd
		return nil
	}
}

// NonASCII sets the handler for non-ASCII output values. The default handler
// prints the decimal value on a line of its own.
func NonASCII(fn func(w io.Writer, v vm.Cell) error) Option {
	return func(t *Terminal) error {
		if fn == nil {
			return errors.New("nil NonASCII handler")
		}
		t.nonASCII = fn
		return nil
	}
}

func printValue(w io.Writer, v vm.Cell) error {
	_, err := fmt.Fprintf(w, "\n%d\n", v)
	return err
}

var errExit = errors.New("exit")

// Terminal connects an Intcode instance to text input and output.
type Terminal struct {
	i        *vm.Instance
	in       readerStack
	w        io.Writer
	out      *iox.ErrWriter
	raw      bool
	exit     string
	nonASCII func(w io.Writer, v vm.Cell) error
	lines    int
}

// New returns a new terminal running instance i. Without an Output option,
// output is discarded.
func New(i *vm.Instance, opts ...Option) (*Terminal, error) {
	t := &Terminal{
		i:        i,
		w:        io.Discard,
		out:      iox.NewErrWriter(io.Discard),
		nonASCII: printValue,
	}
	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// PushInput sets r as the current input. When this reader reaches EOF, the
// previously pushed reader is used.
func (t *Terminal) PushInput(r io.Reader) {
	t.in.push(r)
}

// Instance returns the underlying VM instance.
func (t *Terminal) Instance() *vm.Instance {
	return t.i
}

// Lines returns the number of input lines (or keys in raw mode) sent to the
// program so far.
func (t *Terminal) Lines() int {
	return t.lines
}

// Run runs the program until it halts, the input is exhausted or the exit
// command is entered. In the last two cases, the instance is left in the
// Blocked state and may be resumed with a new input. Run returns io.EOF if the
// input ended while the program was waiting for input.
func (t *Terminal) Run() error {
	for {
		if err := t.i.Run(); err != nil {
			t.flush()
			return err
		}
		if err := t.flush(); err != nil {
			return err
		}
		if t.i.State() == vm.Halted {
			return nil
		}
		var err error
		if t.raw {
			err = t.readKey()
		} else {
			err = t.readLine()
		}
		switch err {
		case nil:
			t.lines++
		case errExit:
			return nil
		default:
			return err
		}
	}
}

func (t *Terminal) flush() error {
	for v, ok := t.i.Next(); ok; v, ok = t.i.Next() {
		if IsASCII(v) {
			t.out.Write([]byte{byte(v)})
			continue
		}
		// on failure, values past v stay queued in the instance.
		if err := t.nonASCII(t.out, v); err != nil {
			return err
		}
	}
	if t.out.Err != nil {
		return t.out.Err
	}
	if f, ok := t.w.(flusher); ok {
		return errors.Wrap(f.Flush(), "flush failed")
	}
	return nil
}

// readLine reads a line and sends it to the program. A missing final newline
// is added.
func (t *Terminal) readLine() error {
	var b strings.Builder
	for {
		r, _, err := t.in.ReadRune()
		if err != nil {
			if err == io.EOF && b.Len() > 0 {
				b.WriteByte('\n')
				break
			}
			return err
		}
		b.WriteRune(r)
		if r == '\n' {
			break
		}
	}
	line := b.String()
	if t.exit != "" && strings.TrimSpace(line) == t.exit {
		return errExit
	}
	t.i.Push(Encode(line)...)
	return nil
}

func (t *Terminal) readKey() error {
	r, _, err := t.in.ReadRune()
	if err != nil {
		return err
	}
	if r == 4 { // Ctrl-D
		return io.EOF
	}
	t.out.Write([]byte(string(r)))
	if err = t.flush(); err != nil {
		return err
	}
	t.i.Push(vm.Cell(r))
	return nil
}
