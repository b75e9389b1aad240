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

package ascii

import (
	"io"
	"unicode/utf8"
)

// byteRuneReader decodes UTF-8 from a reader one byte at a time, so that no
// input is consumed past the last rune returned. This matters for stdin in
// raw mode and for input handed over to another consumer.
type byteRuneReader struct {
	r   io.Reader
	err error // deferred error, returned once buffered bytes are consumed
}

func (br *byteRuneReader) readByte() (byte, error) {
	if br.err != nil {
		return 0, br.err
	}
	var b [1]byte
	for {
		n, err := br.r.Read(b[:])
		if err != nil {
			br.err = err
		}
		if n > 0 {
			return b[0], nil
		}
		if err != nil {
			return 0, err
		}
	}
}

func (br *byteRuneReader) ReadRune() (r rune, size int, err error) {
	c, err := br.readByte()
	if err != nil {
		return 0, 0, err
	}
	if c < utf8.RuneSelf {
		return rune(c), 1, nil
	}
	buf := [utf8.UTFMax]byte{c}
	n := 1
	for n < utf8.UTFMax && !utf8.FullRune(buf[:n]) {
		if buf[n], err = br.readByte(); err != nil {
			break
		}
		n++
	}
	// invalid or truncated sequences decode as utf8.RuneError.
	r, size = utf8.DecodeRune(buf[:n])
	return r, size, nil
}

func (br *byteRuneReader) Close() error {
	if c, ok := br.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// readerStack reads runes from a stack of readers. When the reader on top of
// the stack reaches EOF, it is closed if it implements io.Closer and popped.
//
// Line endings are normalized: CR and CR LF both read as a single LF.
type readerStack struct {
	readers []io.RuneReader
	cr      bool // last rune read was a CR
}

func (s *readerStack) ReadRune() (r rune, size int, err error) {
	for len(s.readers) > 0 {
		r, size, err = s.readers[0].ReadRune()
		if size == 0 && err == io.EOF {
			if c, ok := s.readers[0].(io.Closer); ok {
				c.Close()
			}
			s.readers = s.readers[1:]
			continue
		}
		if err != nil && err != io.EOF {
			return r, size, err
		}
		cr := s.cr
		s.cr = r == '\r'
		switch {
		case r == '\n' && cr:
			continue
		case r == '\r':
			r = '\n'
		}
		return r, size, nil
	}
	return 0, 0, io.EOF
}

func (s *readerStack) push(r io.Reader) {
	rr, ok := r.(io.RuneReader)
	if !ok {
		rr = &byteRuneReader{r: r}
	}
	s.readers = append([]io.RuneReader{rr}, s.readers...)
}
