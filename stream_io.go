// {{{ Copyright (c) Paul R. Tagliamonte <paul@k3xec.com>, 2020-2021
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE. }}}

package sdrplug

import (
	"time"
)

// streamReader adapts a receive Stream onto the Reader interface, so the
// generic sample plumbing (Copy, ReadFull, the byte boundary helpers) can
// drain a device.
type streamReader struct {
	stream  *Stream
	rate    uint
	timeout time.Duration
}

// Read implements the Reader interface. Soft stream events pass straight
// through: an overflow surfaces as ErrOverflow and the next Read carries
// on with the samples that survived.
func (sr streamReader) Read(buf Samples) (int, error) {
	n, _, _, err := sr.stream.Read(buf, sr.timeout)
	return n, err
}

// SampleFormat implements the Reader interface.
func (sr streamReader) SampleFormat() SampleFormat {
	return sr.stream.Format()
}

// SampleRate implements the Reader interface.
func (sr streamReader) SampleRate() uint {
	return sr.rate
}

// StreamReader adapts a receive Stream onto the Reader interface. The
// sample rate is carried for the interface's sake; the stream itself does
// not know it.
func StreamReader(stream *Stream, rate uint, timeout time.Duration) Reader {
	return streamReader{stream: stream, rate: rate, timeout: timeout}
}

// streamWriter adapts a transmit Stream onto the Writer interface.
type streamWriter struct {
	stream  *Stream
	rate    uint
	timeout time.Duration
}

// Write implements the Writer interface.
func (sw streamWriter) Write(buf Samples) (int, error) {
	return sw.stream.Write(buf, 0, 0, sw.timeout)
}

// SampleFormat implements the Writer interface.
func (sw streamWriter) SampleFormat() SampleFormat {
	return sw.stream.Format()
}

// SampleRate implements the Writer interface.
func (sw streamWriter) SampleRate() uint {
	return sw.rate
}

// StreamWriter adapts a transmit Stream onto the Writer interface.
func StreamWriter(stream *Stream, rate uint, timeout time.Duration) Writer {
	return streamWriter{stream: stream, rate: rate, timeout: timeout}
}

// vim: foldmethod=marker
