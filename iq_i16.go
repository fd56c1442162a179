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
	"unsafe"
)

// SamplesI16 indicates that the samples are being sent as a vector
// of interleaved int16 numbers.
type SamplesI16 [][2]int16

// Format returns the type of this vector, as exported by the SampleFormat
// enum.
func (s SamplesI16) Format() SampleFormat {
	return SampleFormatI16
}

// Size will return the size of this Samples in *bytes*. This is used
// when your code needs to be aware of the underlying storage size. This
// should usually only be used at i/o boundaries.
func (s SamplesI16) Size() int {
	return int(unsafe.Sizeof([2]int16{})) * len(s)
}

// Length will return the number of IQ samples in this vector of Samples.
func (s SamplesI16) Length() int {
	return len(s)
}

// Slice will return a slice of the sample buffer from the provided
// starting position until the ending position. The returned value is
// assumed to be a slice, which is to say, mutations of the returned
// Samples will modify the slice from whence it came.
func (s SamplesI16) Slice(start, end int) Samples {
	return s[start:end]
}

// ToI8 will convert the int16 data to a vector of interleaved int8
// values, discarding the low byte of each component.
func (s SamplesI16) ToI8(out SamplesI8) (int, error) {
	if s.Length() > out.Length() {
		return 0, ErrDstTooSmall
	}
	for i := range s {
		out[i] = [2]int8{
			int8(s[i][0] >> 8),
			int8(s[i][1] >> 8),
		}
	}
	return s.Length(), nil
}

// ToC64 will convert the int16 data to a vector of complex64 numbers.
func (s SamplesI16) ToC64(out SamplesC64) (int, error) {
	if s.Length() > out.Length() {
		return 0, ErrDstTooSmall
	}
	for i := range s {
		out[i] = complex(
			float32(s[i][0])/32767,
			float32(s[i][1])/32767,
		)
	}
	return s.Length(), nil
}

// ToC128 will convert the int16 data to a vector of complex128 numbers.
func (s SamplesI16) ToC128(out SamplesC128) (int, error) {
	if s.Length() > out.Length() {
		return 0, ErrDstTooSmall
	}
	for i := range s {
		out[i] = complex(
			float64(s[i][0])/32767,
			float64(s[i][1])/32767,
		)
	}
	return s.Length(), nil
}

// vim: foldmethod=marker
