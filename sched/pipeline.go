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

	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Pipeline runs the given instances concurrently, each in its own goroutine.
// The output of instance k is sent to instance k+1. If loop is true, the
// output of the last instance is also sent to the first one.
//
// Initial input must be pushed to the instances before calling Pipeline. Once
// Pipeline has been called, the instances must not be used until it returns.
//
// Pipeline returns when all instances have halted or when any of them fails,
// in which case the first error is returned and the other instances are
// stopped. Values sent to a halted instance are dropped. The returned slice
// holds all the values output by the last instance.
func Pipeline(ctx context.Context, machines []*vm.Instance, loop bool) ([]vm.Cell, error) {
	n := len(machines)
	if n == 0 {
		return nil, nil
	}
	chans := make([]chan vm.Cell, n)
	done := make([]chan struct{}, n)
	for k := range chans {
		chans[k] = make(chan vm.Cell)
		done[k] = make(chan struct{})
	}

	var result []vm.Cell
	g, ctx := errgroup.WithContext(ctx)
	for k, m := range machines {
		k := k
		s := stage{m: m, done: done[k], self: loop && n == 1}
		// a single looping instance feeds itself, see send.
		if !s.self {
			if k > 0 || loop {
				up := (k + n - 1) % n
				s.in, s.upDone = chans[k], done[up]
			}
			if k < n-1 || loop {
				down := (k + 1) % n
				s.out, s.downDone = chans[down], done[down]
			}
		}
		if k == n-1 {
			s.result = &result
		}
		g.Go(func() error {
			if err := s.run(ctx); err != nil {
				return errors.Wrapf(err, "instance %d", k)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// stage is the goroutine side of a pipeline instance. nil channels disable
// the corresponding select cases.
type stage struct {
	m        *vm.Instance
	in       <-chan vm.Cell
	out      chan<- vm.Cell
	done     chan struct{}
	upDone   <-chan struct{}
	downDone <-chan struct{}
	pending  []vm.Cell
	result   *[]vm.Cell
	self     bool
}

func (s *stage) run(ctx context.Context) error {
	defer close(s.done)
	for {
		if err := s.m.Run(); err != nil {
			return err
		}
		for _, v := range s.m.Drain() {
			if s.result != nil {
				*s.result = append(*s.result, v)
			}
			if err := s.send(ctx, v); err != nil {
				return err
			}
		}
		if s.m.State() == vm.Halted {
			return nil
		}
		if len(s.pending) > 0 {
			s.m.Push(s.pending...)
			s.pending = s.pending[:0]
			continue
		}
		if s.in == nil {
			return errors.WithStack(ErrStarved)
		}
		select {
		case v := <-s.in:
			s.m.Push(v)
		case <-s.upDone:
			return errors.WithStack(ErrStarved)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// send sends v downstream. Incoming values are queued while waiting so that
// two instances sending to each other cannot deadlock.
func (s *stage) send(ctx context.Context, v vm.Cell) error {
	if s.self {
		s.pending = append(s.pending, v)
		return nil
	}
	if s.out == nil {
		return nil
	}
	for {
		select {
		case s.out <- v:
			return nil
		case <-s.downDone:
			return nil
		case x := <-s.in:
			s.pending = append(s.pending, x)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
