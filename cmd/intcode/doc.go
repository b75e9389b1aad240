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

// The intcode command line tool loads and runs Intcode programs. It is a
// showcase for the packages github.com/db47h/intcode/vm,
// github.com/db47h/intcode/asm and github.com/db47h/intcode/sched.
//
// Usage:
//
//	intcode [flags] [program]
//
//	-ascii
//		  run as an ASCII terminal on stdin/stdout
//	-asm
//		  the program file is assembly source
//	-chain phases
//		  run an amplifier chain with the given comma separated phases
//	-config filename
//		  load settings from TOML file filename
//	-debug
//		  enable debug diagnostics
//	-disasm
//		  print a disassembly of the program and exit
//	-dump
//		  dump the machine state upon exit
//	-exit command
//		  ASCII terminal exit command (default "exit")
//	-feedback
//		  amplifiers run in a feedback loop
//	-image filename
//		  load program from file filename
//	-in values
//		  comma separated values to use as input
//	-log filename
//		  also write JSON logs to filename
//	-loglevel level
//		  log level: debug, info, warn or error (default "warn")
//	-mem cells
//		  memory limit in cells (0 for the default)
//	-noraw
//		  disable raw terminal IO
//	-o filename
//		  save the (patched) program to filename instead of running it
//	-parallel
//		  run amplifiers concurrently
//	-search settings
//		  find the phase settings permutation that yields the highest signal from settings
//	-set addr=value
//		  set memory cell before running, addr=value (can be specified multiple times)
//	-trace
//		  log every instruction executed
//	-with filename
//		  add filename to the ASCII input list (can be specified multiple times)
//
// The program file can also be given as the first non-flag argument.
//
// By default, the program runs with the values given by -in as input, and its
// output values are printed one per line. If the program stops while waiting
// for more input, a warning is logged.
//
// -ascii: the program talks ASCII. Input is read line by line from the -in
// value, then the -with files, then stdin. Output values outside of the ASCII
// range are printed as decimal numbers on a line of their own. When stdin is a
// terminal, it is switched to raw mode, where each key is sent to the program
// as soon as it is typed and Ctrl-D ends the input. A line containing only
// the -exit command stops the program.
//
// -chain, -search: run an amplifier circuit where each amplifier runs a copy of
// the program, gets its phase setting as first input, and passes its output
// signal to the next one. The first amplifier gets a signal of 0. -search tries
// all permutations of the given phase settings and prints the highest signal
// along with the winning phases. With -feedback, the last amplifier output is
// fed back into the first until all amplifiers halt.
//
// -debug: will print a full stacktrace and the machine registers should the VM
// crash.
//
// -dump: this flag dumps the machine state and memory to stdout upon exit, in
// a format where the memory line can be loaded back as a program.
//
// -config: settings can be loaded from a TOML file. Keys are named after the
// flags with the following exceptions: the program file is "image", -o is
// "output", -in is "input", -mem is "max-memory", patches are given as an
// array of tables:
//
//	[[patch]]
//	addr = 1
//	value = 12
//
// and the log settings go in a [log] table with "level" and "file" keys. Flags
// given on the command line override the config file. Patches and -with files
// are added to those of the config file.
package main
