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

import (
	"io"
)

type byteWriter struct {
	w                io.Writer
	samplesPerSecond uint
	sampleFormat     SampleFormat
}

func (bw byteWriter) Write(samples Samples) (int, error) {
	if samples.Format() != bw.sampleFormat {
		return 0, ErrSampleFormatMismatch
	}
	bufBytes, err := UnsafeSamplesAsBytes(samples)
	if err != nil {
		return 0, err
	}
	i, err := bw.w.Write(bufBytes)
	return i / bw.sampleFormat.Size(), err
}

func (bw byteWriter) SampleRate() uint {
	return bw.samplesPerSecond
}

func (bw byteWriter) SampleFormat() SampleFormat {
	return bw.sampleFormat
}

// ByteWriter will wrap an io.Writer, and write encoded IQ data as a series
// of raw bytes out, in the host byte order.
func ByteWriter(w io.Writer, samplesPerSecond uint, sf SampleFormat) Writer {
	return byteWriter{
		w:                w,
		samplesPerSecond: samplesPerSecond,
		sampleFormat:     sf,
	}
}

type byteReader struct {
	r                io.Reader
	samplesPerSecond uint
	sampleFormat     SampleFormat
}

func (br byteReader) Read(samples Samples) (int, error) {
	if samples.Format() != br.sampleFormat {
		return 0, ErrSampleFormatMismatch
	}
	bufBytes, err := UnsafeSamplesAsBytes(samples)
	if err != nil {
		return 0, err
	}
	i, err := br.r.Read(bufBytes)
	return i / br.sampleFormat.Size(), err
}

func (br byteReader) SampleFormat() SampleFormat {
	return br.sampleFormat
}

func (br byteReader) SampleRate() uint {
	return br.samplesPerSecond
}

// ByteReader will wrap an io.Reader, and read encoded IQ data as a series
// of raw bytes from it, in the host byte order.
func ByteReader(r io.Reader, samplesPerSecond uint, sf SampleFormat) Reader {
	return byteReader{
		r:                r,
		samplesPerSecond: samplesPerSecond,
		sampleFormat:     sf,
	}
}

// vim: foldmethod=marker
