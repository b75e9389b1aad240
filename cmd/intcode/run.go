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

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/db47h/intcode/asm"
	"github.com/db47h/intcode/lang/ascii"
	"github.com/db47h/intcode/sched"
	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
)

// loadProgram loads the program file, assembling it if needed, and applies
// patches.
func loadProgram(cfg *config, log *slog.Logger) (*vm.Instance, error) {
	var (
		mem []vm.Cell
		err error
	)
	if cfg.Asm {
		var f *os.File
		if f, err = os.Open(cfg.Image); err != nil {
			return nil, errors.Wrap(err, "open program")
		}
		mem, err = asm.Assemble(cfg.Image, f)
		f.Close()
	} else {
		mem, err = vm.LoadFile(cfg.Image)
	}
	if err != nil {
		return nil, err
	}
	log.Debug("program loaded", "file", cfg.Image, "cells", len(mem))

	var opts []vm.Option
	if cfg.MaxMemory > 0 {
		opts = append(opts, vm.MaxMemory(cfg.MaxMemory))
	}
	if cfg.Trace {
		opts = append(opts, vm.Trace(traceWriter{log}))
	}
	i, err := vm.New(mem, opts...)
	if err != nil {
		return nil, err
	}
	for _, p := range cfg.Patch {
		if err = i.WriteCell(p.Addr, vm.Cell(p.Value)); err != nil {
			return i, errors.Wrapf(err, "patch %d=%d", p.Addr, p.Value)
		}
		log.Debug("patch", "addr", p.Addr, "value", p.Value)
	}
	return i, nil
}

// runNumeric runs the program with the given comma separated input and writes
// output values to w, one per line.
func runNumeric(i *vm.Instance, input string, w io.Writer, log *slog.Logger) error {
	if strings.TrimSpace(input) != "" {
		in, err := vm.Parse(input)
		if err != nil {
			return errors.Wrap(err, "input")
		}
		i.Push(in...)
	}
	err := i.Run()
	for _, v := range i.Drain() {
		fmt.Fprintln(w, v)
	}
	if err != nil {
		return err
	}
	log.Debug("run complete", "state", i.State(), "instructions", i.InstructionCount())
	if i.State() == vm.Blocked {
		log.Warn("program waiting for input", "pc", i.PC())
	}
	return nil
}

// runASCII runs the program as an ASCII terminal. Files in with are read
// first, in order, then stdin.
func runASCII(i *vm.Instance, cfg *config, stdin io.Reader, w io.Writer, raw bool, log *slog.Logger) error {
	opts := []ascii.Option{
		ascii.Input(stdin),
		ascii.Output(w),
		ascii.Raw(raw),
		ascii.Exit(cfg.Exit),
	}
	// the terminal closes files as it reaches their end. Close the others on
	// exit, errors from already closed files are ignored.
	var files []*os.File
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()
	// push -with files in reverse order so that they are read in order of
	// appearance on the command line.
	for n := len(cfg.With) - 1; n >= 0; n-- {
		f, err := os.Open(cfg.With[n])
		if err != nil {
			return errors.Wrap(err, "input file")
		}
		files = append(files, f)
		opts = append(opts, ascii.Input(f))
	}
	if strings.TrimSpace(cfg.Input) != "" {
		opts = append(opts, ascii.Input(strings.NewReader(cfg.Input+"\n")))
	}
	t, err := ascii.New(i, opts...)
	if err != nil {
		return err
	}
	err = t.Run()
	log.Debug("terminal stopped", "state", i.State(), "lines", t.Lines())
	if err == io.EOF {
		return nil
	}
	return err
}

// runCircuit runs an amplifier circuit, or searches for the best phase
// settings.
func runCircuit(ctx context.Context, i *vm.Instance, cfg *config, w io.Writer, log *slog.Logger) error {
	var c sched.Circuit = sched.Chain
	switch {
	case cfg.Parallel:
		c = sched.Parallel(ctx, cfg.Feedback)
	case cfg.Feedback:
		c = sched.Feedback
	}
	if cfg.Search != "" {
		settings, err := vm.Parse(cfg.Search)
		if err != nil {
			return errors.Wrap(err, "phase settings")
		}
		s, phases, err := sched.MaxSignal(i, settings, c)
		if err != nil {
			return err
		}
		log.Info("search complete", "permutations", len(sched.Permutations(settings)))
		fmt.Fprintln(w, s, phasesString(phases))
		return nil
	}
	phases, err := vm.Parse(cfg.Chain)
	if err != nil {
		return errors.Wrap(err, "phases")
	}
	s, err := c(i, phases, 0)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, s)
	return nil
}

func phasesString(phases []vm.Cell) string {
	var b strings.Builder
	vm.Save(&b, phases)
	return strings.TrimSpace(b.String())
}

func disassemble(i *vm.Instance, w io.Writer) error {
	return asm.DisassembleAll(i.Memory(), 0, w)
}

func save(i *vm.Instance, fileName string) error {
	f, err := os.Create(fileName)
	if err != nil {
		return errors.Wrap(err, "save")
	}
	if err = vm.Save(f, i.Memory()); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "save")
}
