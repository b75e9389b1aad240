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
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/db47h/intcode/asm"
	"github.com/db47h/intcode/vm"
)

func atExit(i *vm.Instance, debug bool, err error) {
	if err == nil {
		return
	}
	if !debug {
		fmt.Fprintf(os.Stderr, "\n%v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "\n%+v\n", err)
	if i != nil {
		var b strings.Builder
		mem := i.Memory()
		if pc := i.PC(); pc < len(mem) {
			asm.Disassemble(mem, pc, &b)
		}
		fmt.Fprintf(os.Stderr, "State: %v, PC: %v (%s), RB: %v\n", i.State(), i.PC(), b.String(), i.RelativeBase())
	}
	os.Exit(1)
}

// setupIO tries to switch the terminal to raw mode.
func setupIO(noRaw bool, log *slog.Logger) (raw bool, tearDown func()) {
	if noRaw {
		return false, nil
	}
	tearDown, err := setRawIO()
	if err != nil {
		log.Debug("raw terminal IO unavailable", "error", err)
		return false, nil
	}
	return true, tearDown
}

func main() {
	var (
		err error
		i   *vm.Instance
		cfg = defaultConfig()
	)

	stdout := bufio.NewWriter(os.Stdout)

	// flush output, catch and log errors
	defer func() {
		stdout.Flush()
		if err == nil && cfg.Dump && i != nil {
			err = i.Dump(os.Stdout)
		}
		atExit(i, cfg.Debug, err)
	}()

	cfg, err = loadConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		cfg = defaultConfig()
		return
	}

	log, closeLog, err := newLogger(cfg.Log, os.Stderr)
	if err != nil {
		return
	}
	defer closeLog()

	i, err = loadProgram(cfg, log)
	if err != nil {
		return
	}

	switch {
	case cfg.Output != "":
		err = save(i, cfg.Output)
	case cfg.Disasm:
		err = disassemble(i, stdout)
	case cfg.Chain != "" || cfg.Search != "":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		err = runCircuit(ctx, i, cfg, stdout, log)
	case cfg.ASCII:
		raw, tearDown := setupIO(cfg.NoRaw, log)
		if tearDown != nil {
			defer tearDown()
		}
		var stdin io.Reader = os.Stdin
		if !raw {
			stdin = bufio.NewReader(os.Stdin)
		}
		err = runASCII(i, cfg, stdin, stdout, raw, log)
	default:
		err = runNumeric(i, cfg.Input, stdout, log)
	}
}
