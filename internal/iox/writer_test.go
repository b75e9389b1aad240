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

package iox_test

import (
	"bytes"
	"io"
	"testing"
	"testing/iotest"

	"github.com/db47h/intcode/internal/iox"
	"github.com/pkg/errors"
)

type limitWriter struct {
	w io.Writer
	n int
}

func (l *limitWriter) Write(p []byte) (int, error) {
	if len(p) > l.n {
		return 0, iotest.ErrTimeout
	}
	l.n -= len(p)
	return l.w.Write(p)
}

func TestErrWriter(t *testing.T) {
	var b bytes.Buffer
	w := iox.NewErrWriter(&limitWriter{&b, 4})
	if _, err := w.WriteString("abc"); err != nil {
		t.Fatal(err)
	}
	if _, err := w.WriteString("de"); errors.Cause(err) != iotest.ErrTimeout {
		t.Errorf("expected %v, got %v", iotest.ErrTimeout, err)
	}
	// sticky
	if n, err := w.Write([]byte{'x'}); n != 0 || errors.Cause(err) != iotest.ErrTimeout {
		t.Errorf("expected sticky error, got %d, %v", n, err)
	}
	if errors.Cause(w.Err) != iotest.ErrTimeout {
		t.Errorf("Err: expected %v, got %v", iotest.ErrTimeout, w.Err)
	}
	if s := b.String(); s != "abc" {
		t.Errorf("expected %q, got %q", "abc", s)
	}
}
