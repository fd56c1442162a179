// {{{ Copyright (c) Paul R. Tagliamonte <paul@k3xec.com>, 2020
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

// Writer is the interface that wraps the basic Write method.
type Writer interface {
	// Write IQ Samples from the provided Samples buffer. There are two
	// return values, an int representing the **IQ** samples (not bytes)
	// written by this function, and any error conditions encountered.
	Write(Samples) (int, error)

	// SampleFormat returns the sample format of this stream.
	SampleFormat() SampleFormat

	// SampleRate will get the number of samples per second that this
	// stream is communicating at.
	SampleRate() uint
}

// WriteCloser is the interface that groups the basic Write and Close methods.
type WriteCloser interface {
	Writer
	Closer
}

type writerWithCloser struct {
	Writer
	closer func() error
}

func (wwc writerWithCloser) Close() error {
	return wwc.closer()
}

// WriterWithCloser will add a closer to a writer to make a WriteCloser
func WriterWithCloser(w Writer, c func() error) WriteCloser {
	return writerWithCloser{
		Writer: w,
		closer: c,
	}
}

// vim: foldmethod=marker
