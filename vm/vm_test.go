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

package vm_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
)

func TestParse(t *testing.T) {
	mem, err := vm.Parse(" 1, -2 ,3,1125899906842624\n")
	if err != nil {
		t.Fatal(err)
	}
	if !equal(mem, C{1, -2, 3, 1125899906842624}) {
		t.Errorf("bad parse: %v", mem)
	}

	var parseErrors = [...]struct {
		text  string
		token string
		index int
	}{
		{"1,x,3", "x", 1},
		{"1, a ", " a ", 1},
		{"", "", 0},
		{"1,2,", "", 2},
		{"1;2", "1;2", 0},
		{"1,99999999999999999999", "99999999999999999999", 1},
	}
	for _, test := range parseErrors {
		_, err := vm.Parse(test.text)
		e, ok := errors.Cause(err).(*vm.ParseError)
		if !ok {
			t.Errorf("%q: expected *vm.ParseError, got %v", test.text, err)
			continue
		}
		if e.Token != test.token || e.Index != test.index {
			t.Errorf("%q: expected token %q at %d, got %q at %d", test.text, test.token, test.index, e.Token, e.Index)
		}
	}
}

func TestSaveLoad(t *testing.T) {
	const prog = "1,9,10,3,2,3,11,0,99,30,40,50"
	mem, err := vm.Parse(prog)
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	if err = vm.Save(&b, mem); err != nil {
		t.Fatal(err)
	}
	if s := b.String(); s != prog+"\n" {
		t.Errorf("Save: expected %q, got %q", prog+"\n", s)
	}

	fn := filepath.Join(t.TempDir(), "prog.txt")
	if err = os.WriteFile(fn, b.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	m2, err := vm.LoadFile(fn)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if !equal(mem, m2) {
		t.Errorf("LoadFile: expected %v, got %v", mem, m2)
	}
	if _, err = vm.LoadFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("LoadFile: expected error on missing file")
	}
	if _, err = vm.Load(strings.NewReader("1,2,zz")); err == nil {
		t.Error("Load: expected parse error")
	}
}

func TestCells(t *testing.T) {
	i := setup(t, "99")
	if err := i.WriteCell(10, 7); err != nil {
		t.Fatal(err)
	}
	if i.Len() != 11 {
		t.Errorf("expected memory size 11, got %d", i.Len())
	}
	exp := C{99, 0, 0, 0, 0, 0, 0, 0, 0, 0, 7}
	if m := i.Memory(); !equal(m, exp) {
		t.Errorf("expected %v, got %v", exp, m)
	}
	v, err := i.ReadCell(20)
	if err != nil || v != 0 {
		t.Errorf("ReadCell(20): %d, %v", v, err)
	}
	if i.Len() != 21 {
		t.Errorf("expected memory size 21 after read, got %d", i.Len())
	}
	if err = i.WriteCell(-1, 0); errKind(err) != vm.NegativeAddress {
		t.Errorf("expected %v, got %v", vm.NegativeAddress, err)
	}
	if _, err = i.ReadCell(vm.DefaultMaxMemory); errKind(err) != vm.OutOfRange {
		t.Errorf("expected %v, got %v", vm.OutOfRange, err)
	}
	// memory never shrinks
	if err = i.WriteCell(3, 1); err != nil || i.Len() != 21 {
		t.Errorf("WriteCell(3): len %d, %v", i.Len(), err)
	}
}

func TestMaxMemory(t *testing.T) {
	mem, _ := vm.Parse("1,0,0,0,99")
	if _, err := vm.New(mem, vm.MaxMemory(4)); err == nil {
		t.Error("expected error with memory limit smaller than program")
	}
	i, err := vm.New(mem, vm.MaxMemory(5))
	if err != nil {
		t.Fatal(err)
	}
	if err = i.WriteCell(5, 1); errKind(err) != vm.OutOfRange {
		t.Errorf("expected %v, got %v", vm.OutOfRange, err)
	}
}

func TestQueues(t *testing.T) {
	i := setup(t, "104,1,104,2,104,3,3,0,104,4,99")
	if err := i.Run(); err != nil {
		t.Fatal(err)
	}
	if i.State() != vm.Blocked {
		t.Fatalf("expected %v, got %v", vm.Blocked, i.State())
	}
	if n := i.Peek(); n != 3 {
		t.Errorf("Peek: expected 3, got %d", n)
	}
	if v, ok := i.Next(); !ok || v != 1 {
		t.Errorf("Next: expected 1, got %d, %v", v, ok)
	}
	if out := i.Drain(); !equal(out, C{2, 3}) {
		t.Errorf("Drain: expected [2 3], got %v", out)
	}
	if out := i.Drain(); out != nil {
		t.Errorf("second Drain: expected nothing, got %v", out)
	}
	if _, ok := i.Next(); ok {
		t.Error("Next on empty output queue")
	}
	i.Push(0)
	if i.Pending() != 1 {
		t.Errorf("Pending: expected 1, got %d", i.Pending())
	}
	if err := i.Run(); err != nil {
		t.Fatal(err)
	}
	if i.Pending() != 0 || i.Peek() != 1 {
		t.Errorf("Pending/Peek: expected 0/1, got %d/%d", i.Pending(), i.Peek())
	}
	if out := i.Drain(); !equal(out, C{4}) {
		t.Errorf("Drain: expected [4], got %v", out)
	}
}

func TestDuplicate(t *testing.T) {
	base := setup(t, "3,7,3,8,3,9,99,0,0,0")
	base.Push(1)
	d := base.Duplicate()
	if d.Pending() != 0 {
		t.Errorf("duplicate shares input queue: %d pending", d.Pending())
	}
	d.Push(10, 20, 30)
	if err := d.Run(); err != nil {
		t.Fatal(err)
	}
	if d.State() != vm.Halted {
		t.Errorf("duplicate: expected %v, got %v", vm.Halted, d.State())
	}
	if base.State() != vm.Running || base.PC() != 0 {
		t.Errorf("original modified: state %v, pc %d", base.State(), base.PC())
	}
	if m := base.Memory()[7:]; !equal(m, C{0, 0, 0}) {
		t.Errorf("original memory modified: %v", m)
	}
	if m := d.Memory()[7:]; !equal(m, C{10, 20, 30}) {
		t.Errorf("duplicate memory: %v", m)
	}
}

func TestDeterminism(t *testing.T) {
	base := setup(t, cmp8)
	a, b := base.Duplicate(), base.Duplicate()
	for _, i := range []*vm.Instance{a, b} {
		i.Push(8)
		if err := i.Run(); err != nil {
			t.Fatal(err)
		}
	}
	if a.State() != b.State() || a.PC() != b.PC() || a.RelativeBase() != b.RelativeBase() {
		t.Errorf("registers differ: %v/%d/%d vs %v/%d/%d", a.State(), a.PC(), a.RelativeBase(), b.State(), b.PC(), b.RelativeBase())
	}
	if !equal(a.Memory(), b.Memory()) {
		t.Error("memory differs")
	}
	if oa, ob := a.Drain(), b.Drain(); !equal(oa, ob) {
		t.Errorf("output differs: %v vs %v", oa, ob)
	}
}

func TestDump(t *testing.T) {
	i := setup(t, "1,9,10,3,2,3,11,0,99,30,40,50")
	if err := i.Run(); err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	if err := i.Dump(&b); err != nil {
		t.Fatal(err)
	}
	exp := "state: halted\npc: 8\nrb: 0\nmem: 3500,9,10,70,2,3,11,0,99,30,40,50\n"
	if s := b.String(); s != exp {
		t.Errorf("Expected:\n%q\ngot:\n%q", exp, s)
	}
}

func TestDecode(t *testing.T) {
	in, err := vm.Decode([]vm.Cell{21101, 3, -4}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if s := in.String(); s != "add #3 #-4 @0" {
		t.Errorf("expected \"add #3 #-4 @0\", got %q", s)
	}
	if in.Len() != 4 {
		t.Errorf("expected length 4, got %d", in.Len())
	}
}

func TestDecode_errors(t *testing.T) {
	var tests = [...]struct {
		mem  C
		pc   int
		kind vm.ErrorKind
		val  vm.Cell
	}{
		{C{99}, -1, vm.NegativeAddress, -1},
		{C{99}, 1, vm.InvalidOpcode, 0},
		{C{-7}, 0, vm.NegativeInstruction, -7},
		{C{1299}, 0, vm.TooManyParameterModes, 1299},
	}
	for _, test := range tests {
		_, err := vm.Decode(test.mem, test.pc)
		e, ok := err.(*vm.Error)
		if !ok || e.Kind != test.kind || e.Value != test.val {
			t.Errorf("Decode(%v, %d): expected %v %d, got %v", test.mem, test.pc, test.kind, test.val, err)
		}
	}
}
