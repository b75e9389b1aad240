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

// Push appends values to the input queue. If the instance was blocked waiting
// for input, it becomes Running again. Pushing to a halted instance is a no-op.
func (i *Instance) Push(values ...Cell) {
	if i.state == Halted || len(values) == 0 {
		return
	}
	if i.inPos == len(i.in) {
		// everything consumed, reuse the buffer
		i.in, i.inPos = i.in[:0], 0
	}
	i.in = append(i.in, values...)
	if i.state == Blocked {
		i.state = Running
	}
}

// Pending returns the number of values in the input queue that have not been
// consumed yet.
func (i *Instance) Pending() int {
	return len(i.in) - i.inPos
}

// Peek returns the number of output values that have not been drained yet.
func (i *Instance) Peek() int {
	return len(i.out) - i.outPos
}

// Drain returns all output values produced since the last call to Drain, in
// the order they were produced. It returns nil if there are none.
func (i *Instance) Drain() []Cell {
	if i.outPos == len(i.out) {
		return nil
	}
	v := make([]Cell, len(i.out)-i.outPos)
	copy(v, i.out[i.outPos:])
	i.out, i.outPos = i.out[:0], 0
	return v
}

// Next removes and returns the oldest undrained output value. ok is false if
// there is none.
func (i *Instance) Next() (v Cell, ok bool) {
	if i.outPos == len(i.out) {
		return 0, false
	}
	v = i.out[i.outPos]
	i.outPos++
	if i.outPos == len(i.out) {
		i.out, i.outPos = i.out[:0], 0
	}
	return v, true
}

func (i *Instance) pop() Cell {
	v := i.in[i.inPos]
	i.inPos++
	return v
}
