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

package sched

import (
	"context"
	"runtime"

	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// ErrNoOutput is returned by the amplifier circuits when the last amplifier
// did not output any signal.
var ErrNoOutput = errors.New("no output signal")

// A Circuit runs a chain of amplifiers, one per phase setting, all running a
// copy of the base program. It feeds signal to the first amplifier and returns
// the last signal output by the last one.
type Circuit func(base *vm.Instance, phases []vm.Cell, signal vm.Cell) (vm.Cell, error)

// amplifiers returns one duplicate of base per phase setting, with the phase
// setting pushed as its first input. The first amplifier also gets signal.
func amplifiers(base *vm.Instance, phases []vm.Cell, signal vm.Cell) []*vm.Instance {
	amps := make([]*vm.Instance, len(phases))
	for k, p := range phases {
		amps[k] = base.Duplicate()
		amps[k].Push(p)
	}
	if len(amps) > 0 {
		amps[0].Push(signal)
	}
	return amps
}

// Chain runs amplifiers in series: each amplifier runs until it halts, then
// its last output is passed on to the next one.
func Chain(base *vm.Instance, phases []vm.Cell, signal vm.Cell) (vm.Cell, error) {
	for k, m := range amplifiers(base, phases, signal) {
		if k > 0 {
			m.Push(signal)
		}
		if err := m.Run(); err != nil {
			return 0, errors.Wrapf(err, "amplifier %d", k)
		}
		if m.State() != vm.Halted {
			return 0, errors.Errorf("amplifier %d: waiting for input", k)
		}
		out := m.Drain()
		if len(out) == 0 {
			return 0, errors.Wrapf(ErrNoOutput, "amplifier %d", k)
		}
		signal = out[len(out)-1]
	}
	return signal, nil
}

// Feedback runs amplifiers in a feedback loop on the calling goroutine: the
// output of the last amplifier is fed back into the first until all of them
// have halted.
func Feedback(base *vm.Instance, phases []vm.Cell, signal vm.Cell) (vm.Cell, error) {
	amps := amplifiers(base, phases, signal)
	var (
		last vm.Cell
		ok   bool
	)
	err := RoundRobin(amps, func(k int, out []vm.Cell) {
		if k == len(amps)-1 {
			last, ok = out[len(out)-1], true
		}
		amps[(k+1)%len(amps)].Push(out...)
	})
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, errors.WithStack(ErrNoOutput)
	}
	return last, nil
}

// ChainParallel runs amplifiers concurrently with Pipeline. If loop is true,
// the amplifiers form a feedback loop.
func ChainParallel(ctx context.Context, base *vm.Instance, phases []vm.Cell, signal vm.Cell, loop bool) (vm.Cell, error) {
	out, err := Pipeline(ctx, amplifiers(base, phases, signal), loop)
	if err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return 0, errors.WithStack(ErrNoOutput)
	}
	return out[len(out)-1], nil
}

// Parallel returns a Circuit that runs ChainParallel with the given context.
func Parallel(ctx context.Context, loop bool) Circuit {
	return func(base *vm.Instance, phases []vm.Cell, signal vm.Cell) (vm.Cell, error) {
		return ChainParallel(ctx, base, phases, signal, loop)
	}
}

// Permutations returns all permutations of vals, in the order generated by
// Heap's algorithm.
func Permutations(vals []vm.Cell) [][]vm.Cell {
	a := append([]vm.Cell(nil), vals...)
	var res [][]vm.Cell
	var gen func(n int)
	gen = func(n int) {
		if n <= 1 {
			res = append(res, append([]vm.Cell(nil), a...))
			return
		}
		for k := 0; k < n-1; k++ {
			gen(n - 1)
			if n%2 == 0 {
				a[k], a[n-1] = a[n-1], a[k]
			} else {
				a[0], a[n-1] = a[n-1], a[0]
			}
		}
		gen(n - 1)
	}
	gen(len(a))
	return res
}

// MaxSignal runs circuit c for every permutation of the given phase settings
// with an input signal of 0. It returns the highest output signal and the
// phase settings that produced it. Permutations are evaluated concurrently,
// each on its own duplicates of base.
func MaxSignal(base *vm.Instance, settings []vm.Cell, c Circuit) (signal vm.Cell, phases []vm.Cell, err error) {
	perms := Permutations(settings)
	signals := make([]vm.Cell, len(perms))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for k, p := range perms {
		k, p := k, p
		g.Go(func() error {
			s, err := c(base, p, 0)
			if err != nil {
				return errors.Wrapf(err, "phases %v", p)
			}
			signals[k] = s
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return 0, nil, err
	}
	best := 0
	for k, s := range signals {
		if s > signals[best] {
			best = k
		}
	}
	return signals[best], perms[best], nil
}
