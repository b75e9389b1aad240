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
	"flag"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// patch sets the memory cell at Addr to Value before running a program.
type patch struct {
	Addr  int   `toml:"addr"`
	Value int64 `toml:"value"`
}

type logConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// config holds the command line settings. It can be loaded from a TOML file,
// in which case flags explicitly set on the command line take precedence.
type config struct {
	Image     string    `toml:"image"`
	Asm       bool      `toml:"asm"`
	Output    string    `toml:"output"`
	Input     string    `toml:"input"`
	Patch     []patch   `toml:"patch"`
	MaxMemory int       `toml:"max-memory"`
	ASCII     bool      `toml:"ascii"`
	With      []string  `toml:"with"`
	NoRaw     bool      `toml:"noraw"`
	Exit      string    `toml:"exit"`
	Chain     string    `toml:"chain"`
	Search    string    `toml:"search"`
	Feedback  bool      `toml:"feedback"`
	Parallel  bool      `toml:"parallel"`
	Disasm    bool      `toml:"disasm"`
	Dump      bool      `toml:"dump"`
	Trace     bool      `toml:"trace"`
	Debug     bool      `toml:"debug"`
	Log       logConfig `toml:"log"`
}

func defaultConfig() *config {
	return &config{
		Exit: "exit",
		Log:  logConfig{Level: "warn"},
	}
}

type fileList []string

func (f *fileList) String() string     { return "" }
func (f *fileList) Set(s string) error { *f = append(*f, s); return nil }
func (f *fileList) Get() interface{}   { return *f }

type patchList []patch

func (p *patchList) String() string { return "" }
func (p *patchList) Set(s string) error {
	a, v, ok := strings.Cut(s, "=")
	if !ok {
		return errors.Errorf("invalid patch %q, expected addr=value", s)
	}
	addr, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return errors.Wrapf(err, "invalid address in patch %q", s)
	}
	val, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return errors.Wrapf(err, "invalid value in patch %q", s)
	}
	*p = append(*p, patch{addr, val})
	return nil
}
func (p *patchList) Get() interface{} { return *p }

// flags holds the values of the command line flags until they are merged
// into a config.
type flags struct {
	config    string
	image     string
	asm       bool
	output    string
	input     string
	patch     patchList
	maxMemory int
	ascii     bool
	with      fileList
	noraw     bool
	exit      string
	chain     string
	search    string
	feedback  bool
	parallel  bool
	disasm    bool
	dump      bool
	trace     bool
	debug     bool
	logLevel  string
	logFile   string
}

func (f *flags) define(fs *flag.FlagSet, def *config) {
	fs.StringVar(&f.config, "config", "", "load settings from TOML file `filename`")
	fs.StringVar(&f.image, "image", def.Image, "load program from file `filename`")
	fs.BoolVar(&f.asm, "asm", def.Asm, "the program file is assembly source")
	fs.StringVar(&f.output, "o", def.Output, "save the (patched) program to `filename` instead of running it")
	fs.StringVar(&f.input, "in", def.Input, "comma separated `values` to use as input")
	fs.Var(&f.patch, "set", "set memory cell before running, `addr=value` (can be specified multiple times)")
	fs.IntVar(&f.maxMemory, "mem", def.MaxMemory, "memory limit in `cells` (0 for the default)")
	fs.BoolVar(&f.ascii, "ascii", def.ASCII, "run as an ASCII terminal on stdin/stdout")
	fs.Var(&f.with, "with", "add `filename` to the ASCII input list (can be specified multiple times)")
	fs.BoolVar(&f.noraw, "noraw", def.NoRaw, "disable raw terminal IO")
	fs.StringVar(&f.exit, "exit", def.Exit, "ASCII terminal exit `command`")
	fs.StringVar(&f.chain, "chain", def.Chain, "run an amplifier chain with the given comma separated `phases`")
	fs.StringVar(&f.search, "search", def.Search, "find the phase settings permutation that yields the highest signal from `settings`")
	fs.BoolVar(&f.feedback, "feedback", def.Feedback, "amplifiers run in a feedback loop")
	fs.BoolVar(&f.parallel, "parallel", def.Parallel, "run amplifiers concurrently")
	fs.BoolVar(&f.disasm, "disasm", def.Disasm, "print a disassembly of the program and exit")
	fs.BoolVar(&f.dump, "dump", def.Dump, "dump the machine state upon exit")
	fs.BoolVar(&f.trace, "trace", def.Trace, "log every instruction executed")
	fs.BoolVar(&f.debug, "debug", def.Debug, "enable debug diagnostics")
	fs.StringVar(&f.logLevel, "loglevel", def.Log.Level, "log `level`: debug, info, warn or error")
	fs.StringVar(&f.logFile, "log", def.Log.File, "also write JSON logs to `filename`")
}

// apply copies the value of flag name to cfg.
func (f *flags) apply(name string, cfg *config) {
	switch name {
	case "image":
		cfg.Image = f.image
	case "asm":
		cfg.Asm = f.asm
	case "o":
		cfg.Output = f.output
	case "in":
		cfg.Input = f.input
	case "set":
		cfg.Patch = append(cfg.Patch, f.patch...)
	case "mem":
		cfg.MaxMemory = f.maxMemory
	case "ascii":
		cfg.ASCII = f.ascii
	case "with":
		cfg.With = append(cfg.With, f.with...)
	case "noraw":
		cfg.NoRaw = f.noraw
	case "exit":
		cfg.Exit = f.exit
	case "chain":
		cfg.Chain = f.chain
	case "search":
		cfg.Search = f.search
	case "feedback":
		cfg.Feedback = f.feedback
	case "parallel":
		cfg.Parallel = f.parallel
	case "disasm":
		cfg.Disasm = f.disasm
	case "dump":
		cfg.Dump = f.dump
	case "trace":
		cfg.Trace = f.trace
	case "debug":
		cfg.Debug = f.debug
	case "loglevel":
		cfg.Log.Level = f.logLevel
	case "log":
		cfg.Log.File = f.logFile
	}
}

// loadConfig parses the command line arguments. If a -config file is given,
// it is loaded first and flags set on the command line are applied on top of
// it. Patches and -with files are appended to those of the config file.
func loadConfig(fs *flag.FlagSet, args []string) (*config, error) {
	cfg := defaultConfig()
	var f flags
	f.define(fs, cfg)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if f.config != "" {
		md, err := toml.DecodeFile(f.config, cfg)
		if err != nil {
			return nil, errors.Wrapf(err, "config file %s", f.config)
		}
		if keys := md.Undecoded(); len(keys) > 0 {
			return nil, errors.Errorf("config file %s: unknown setting %q", f.config, keys[0].String())
		}
	}
	fs.Visit(func(fl *flag.Flag) {
		f.apply(fl.Name, cfg)
	})
	if cfg.Image == "" && fs.NArg() > 0 {
		cfg.Image = fs.Arg(0)
	}
	if cfg.Image == "" {
		return nil, errors.New("no program file specified")
	}
	if cfg.Chain != "" && cfg.Search != "" {
		return nil, errors.New("-chain and -search are mutually exclusive")
	}
	if cfg.Debug {
		cfg.Log.Level = "debug"
	}
	// traces are logged at info level
	if cfg.Trace && !strings.EqualFold(cfg.Log.Level, "debug") {
		cfg.Log.Level = "info"
	}
	return cfg, nil
}
