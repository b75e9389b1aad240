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

package ascii_test

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/db47h/intcode/asm"
	"github.com/db47h/intcode/lang/ascii"
	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
)

// echo prints 1000, then echoes its input until it reads a 'q'.
const echo = `
		out #1000
:loop	in c
		eq c #'q' t
		jt t #end
		out c
		jz #0 #loop
:end	hlt
:c		0
:t		0
`

func setup(t *testing.T, opts ...ascii.Option) (*ascii.Terminal, *bytes.Buffer) {
	t.Helper()
	mem, err := asm.Assemble("echo", strings.NewReader(echo))
	if err != nil {
		t.Fatal(err)
	}
	i, err := vm.New(mem)
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	term, err := ascii.New(i, append([]ascii.Option{ascii.Output(&b)}, opts...)...)
	if err != nil {
		t.Fatal(err)
	}
	return term, &b
}

type closeReader struct {
	io.Reader
	closed bool
}

func (r *closeReader) Close() error {
	r.closed = true
	return nil
}

func TestEncodeDecode(t *testing.T) {
	if v := ascii.Encode("hé\n"); len(v) != 3 || v[0] != 'h' || v[1] != 0xe9 || v[2] != '\n' {
		t.Errorf("Encode: unexpected %v", v)
	}
	text, rest := ascii.Decode([]vm.Cell{'H', 'i', '\n', 1000, '!', -1})
	if text != "Hi\n!" {
		t.Errorf("Decode: expected %q, got %q", "Hi\n!", text)
	}
	if len(rest) != 2 || rest[0] != 1000 || rest[1] != -1 {
		t.Errorf("Decode: expected [1000 -1], got %v", rest)
	}
	if text, rest = ascii.Decode(nil); text != "" || rest != nil {
		t.Errorf("Decode(nil): %q, %v", text, rest)
	}
}

func TestTerminal(t *testing.T) {
	var tests = [...]struct {
		name  string
		in    string
		raw   bool
		out   string
		err   error
		lines int
	}{
		{"quit", "ab\ncd\nq\n", false, "\n1000\nab\ncd\n", nil, 3},
		{"crlf", "ab\r\nq\r\n", false, "\n1000\nab\n", nil, 2},
		{"eof", "ab", false, "\n1000\nab\n", io.EOF, 1},
		{"empty", "", false, "\n1000\n", io.EOF, 0},
		{"raw", "ab\r\x04", true, "\n1000\naabb\n\n", io.EOF, 3},
		{"rawQuit", "aq", true, "\n1000\naaq", nil, 2},
		{"cr", "ab\rq\r", false, "\n1000\nab\n", nil, 2},
		{"rawCRLF", "a\r\nq", true, "\n1000\naa\n\nq", nil, 3},
	}
	for _, test := range tests {
		term, b := setup(t, ascii.Input(strings.NewReader(test.in)), ascii.Raw(test.raw))
		err := term.Run()
		if errors.Cause(err) != test.err {
			t.Errorf("%s: expected error %v, got %v", test.name, test.err, err)
		}
		if s := b.String(); s != test.out {
			t.Errorf("%s: expected output %q, got %q", test.name, test.out, s)
		}
		if n := term.Lines(); n != test.lines {
			t.Errorf("%s: expected %d lines, got %d", test.name, test.lines, n)
		}
	}
}

func TestTerminal_exit(t *testing.T) {
	term, b := setup(t, ascii.Input(strings.NewReader("ab\n  exit \ncd\n")), ascii.Exit("exit"))
	if err := term.Run(); err != nil {
		t.Fatal(err)
	}
	if st := term.Instance().State(); st != vm.Blocked {
		t.Errorf("expected %v, got %v", vm.Blocked, st)
	}
	if s := b.String(); s != "\n1000\nab\n" {
		t.Errorf("unexpected output %q", s)
	}
	// resume
	if err := term.Run(); err != io.EOF {
		t.Errorf("expected EOF, got %v", err)
	}
	if s := b.String(); s != "\n1000\nab\ncd\n" {
		t.Errorf("unexpected output %q", s)
	}
}

func TestTerminal_inputStack(t *testing.T) {
	last := &closeReader{Reader: strings.NewReader("é\nq\n")}
	var vals []vm.Cell
	term, b := setup(t,
		ascii.Input(last),
		ascii.NonASCII(func(w io.Writer, v vm.Cell) error {
			vals = append(vals, v)
			return nil
		}))
	term.PushInput(strings.NewReader("ab\n"))
	if err := term.Run(); err != nil {
		t.Fatal(err)
	}
	if s := b.String(); s != "ab\n\n" {
		t.Errorf("unexpected output %q", s)
	}
	if len(vals) != 2 || vals[0] != 1000 || vals[1] != 0xe9 {
		t.Errorf("unexpected non-ASCII values %v", vals)
	}
	if last.closed {
		t.Error("reader closed before EOF")
	}
	if _, err := ascii.New(term.Instance(), ascii.NonASCII(nil)); err == nil {
		t.Error("expected error with nil handler")
	}
}

func TestTerminal_close(t *testing.T) {
	r := &closeReader{Reader: strings.NewReader("ab\n")}
	term, _ := setup(t, ascii.Input(strings.NewReader("q\n")))
	term.PushInput(r)
	if err := term.Run(); err != nil {
		t.Fatal(err)
	}
	if !r.closed {
		t.Error("reader not closed after EOF")
	}
}

func TestTerminal_flush(t *testing.T) {
	mem, _ := vm.Parse("104,72,104,105,3,0,99")
	i, err := vm.New(mem)
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	w := bufio.NewWriter(&b)
	term, err := ascii.New(i, ascii.Output(w))
	if err != nil {
		t.Fatal(err)
	}
	if err = term.Run(); err != io.EOF {
		t.Fatalf("expected EOF, got %v", err)
	}
	if s := b.String(); s != "Hi" {
		t.Errorf("output not flushed: %q", s)
	}
}

func TestTerminal_error(t *testing.T) {
	mem, _ := vm.Parse("104,65,42")
	i, err := vm.New(mem)
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	term, err := ascii.New(i, ascii.Output(&b))
	if err != nil {
		t.Fatal(err)
	}
	err = term.Run()
	if e, ok := errors.Cause(err).(*vm.Error); !ok || e.Kind != vm.InvalidOpcode {
		t.Errorf("expected %v, got %v", vm.InvalidOpcode, err)
	}
	if s := b.String(); s != "A" {
		t.Errorf("unexpected output %q", s)
	}
}

func TestTerminal_handlerError(t *testing.T) {
	mem, _ := vm.Parse("104,97,104,1000,104,98,104,2000,99")
	i, err := vm.New(mem)
	if err != nil {
		t.Fatal(err)
	}
	errBig := errors.New("too big")
	var b bytes.Buffer
	term, err := ascii.New(i, ascii.Output(&b), ascii.NonASCII(func(w io.Writer, v vm.Cell) error {
		return errBig
	}))
	if err != nil {
		t.Fatal(err)
	}
	if err = term.Run(); err != errBig {
		t.Fatalf("expected %v, got %v", errBig, err)
	}
	if s := b.String(); s != "a" {
		t.Errorf("unexpected output %q", s)
	}
	// undelivered values are not lost
	if out := i.Drain(); len(out) != 2 || out[0] != 'b' || out[1] != 2000 {
		t.Errorf("expected [98 2000] still queued, got %v", out)
	}
}

type utf8Reader struct {
	r io.Reader
}

func (u utf8Reader) Read(p []byte) (int, error) { return u.r.Read(p) }

func TestTerminal_utf8(t *testing.T) {
	var vals []vm.Cell
	// a reader that is not an io.RuneReader, with a truncated sequence at EOF
	in := utf8Reader{strings.NewReader("é\nq\n\xc3")}
	term, _ := setup(t, ascii.Input(in), ascii.NonASCII(func(w io.Writer, v vm.Cell) error {
		vals = append(vals, v)
		return nil
	}))
	if err := term.Run(); err != nil {
		t.Fatal(err)
	}
	if len(vals) != 2 || vals[1] != 0xe9 {
		t.Errorf("unexpected non-ASCII values %v", vals)
	}
}
