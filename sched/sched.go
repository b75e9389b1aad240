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

// Package sched runs several Intcode instances that exchange values.
//
// Instances are not safe for concurrent use and never block a goroutine: an
// instance waiting for input returns from Run in the Blocked state. This
// package builds on that to provide two scheduling strategies:
//
// RoundRobin runs all instances in turn on the calling goroutine. The Blocked
// state acts as a yield point.
//
// Pipeline runs each instance in its own goroutine. Values flow between
// goroutines over channels and each goroutine is the sole owner of its
// instance.
package sched

import (
	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
)

// ErrDeadlock is returned by RoundRobin when a complete round of execution
// made no progress while some instances still wait for input.
var ErrDeadlock = errors.New("deadlock: all running instances are waiting for input")

// ErrStarved is returned by Pipeline when an instance waits for input that
// cannot come, either because it has no upstream instance or because the
// upstream instance has halted.
var ErrStarved = errors.New("instance waiting for input from a halted instance")

// A Router dispatches the output values of instance k, usually by pushing them
// to other instances. It is called after each run of instance k that produced
// output.
type Router func(k int, out []vm.Cell)

// RoundRobin runs the given instances in turn until all of them have halted.
//
// After each run, the output of the instance is passed to route. A round in
// which no instance executed any instruction fails with ErrDeadlock. Any
// instance error stops the scheduler and is returned with the index of the
// failed instance.
func RoundRobin(machines []*vm.Instance, route Router) error {
	for {
		var progress bool
		halted := 0
		for k, m := range machines {
			if m.State() == vm.Halted {
				halted++
				continue
			}
			if err := m.Run(); err != nil {
				return errors.Wrapf(err, "instance %d", k)
			}
			if m.InstructionCount() > 0 {
				progress = true
			}
			if out := m.Drain(); len(out) > 0 && route != nil {
				route(k, out)
			}
		}
		if halted == len(machines) {
			return nil
		}
		if !progress {
			return errors.WithStack(ErrDeadlock)
		}
	}
}
