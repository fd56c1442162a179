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
	"math"
	"unsafe"
)

// SamplesC64 indicates that the samples are being sent as a vector
// of complex64 numbers, which is to say two interleaved float32 components.
type SamplesC64 []complex64

// Format returns the type of this vector, as exported by the SampleFormat
// enum.
func (s SamplesC64) Format() SampleFormat {
	return SampleFormatC64
}

// Size will return the size of this Samples in *bytes*. This is used
// when your code needs to be aware of the underlying storage size. This
// should usually only be used at i/o boundaries.
func (s SamplesC64) Size() int {
	return int(unsafe.Sizeof(complex64(0))) * len(s)
}

// Length will return the number of IQ samples in this vector of Samples.
func (s SamplesC64) Length() int {
	return len(s)
}

// Slice will return a slice of the sample buffer from the provided
// starting position until the ending position. The returned value is
// assumed to be a slice, which is to say, mutations of the returned
// Samples will modify the slice from whence it came.
func (s SamplesC64) Slice(start, end int) Samples {
	return s[start:end]
}

// clampI8 scales a float component to int8 range, rounding half away from
// zero and clamping at the rails.
func clampI8(v float64) int8 {
	v = math.Round(v * 127)
	if v > 127 {
		return 127
	}
	if v < -128 {
		return -128
	}
	return int8(v)
}

// clampI16 scales a float component to int16 range, rounding half away from
// zero and clamping at the rails.
func clampI16(v float64) int16 {
	v = math.Round(v * 32767)
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

// ToI8 will convert the complex64 data to a vector of interleaved int8
// values.
func (s SamplesC64) ToI8(out SamplesI8) (int, error) {
	if s.Length() > out.Length() {
		return 0, ErrDstTooSmall
	}
	for i := range s {
		out[i] = [2]int8{
			clampI8(float64(real(s[i]))),
			clampI8(float64(imag(s[i]))),
		}
	}
	return s.Length(), nil
}

// ToI16 will convert the complex64 data to a vector of interleaved int16
// values.
func (s SamplesC64) ToI16(out SamplesI16) (int, error) {
	if s.Length() > out.Length() {
		return 0, ErrDstTooSmall
	}
	for i := range s {
		out[i] = [2]int16{
			clampI16(float64(real(s[i]))),
			clampI16(float64(imag(s[i]))),
		}
	}
	return s.Length(), nil
}

// ToC128 will convert the complex64 data to a vector of complex128 numbers.
func (s SamplesC64) ToC128(out SamplesC128) (int, error) {
	if s.Length() > out.Length() {
		return 0, ErrDstTooSmall
	}
	for i := range s {
		out[i] = complex128(s[i])
	}
	return s.Length(), nil
}

// vim: foldmethod=marker
