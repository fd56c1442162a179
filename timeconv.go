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
	"math"
)

// TicksToTimeNs converts a tick count at the provided sample rate into
// nanoseconds.
//
// The math here is deliberately split into an integer part and a fractional
// part so that the round trip through TimeNsToTicks is exact for tick
// counts in the lower 56 bits, even at awkward rates like 100e6/3 where a
// single floating point multiply would lose low bits.
func TicksToTimeNs(ticks int64, rate float64) int64 {
	rateInt := int64(rate)
	full := ticks / rateInt
	err := ticks - full*rateInt
	part := float64(full) * (rate - float64(rateInt))
	frac := (float64(err) - part) * 1e9 / rate
	return full*1000000000 + int64(math.Round(frac))
}

// TimeNsToTicks converts nanoseconds into a tick count at the provided
// sample rate. This is the exact inverse of TicksToTimeNs; see there for
// why the arithmetic is split.
func TimeNsToTicks(timeNs int64, rate float64) int64 {
	rateInt := int64(rate)
	full := timeNs / 1000000000
	err := timeNs - full*1000000000
	part := float64(full) * (rate - float64(rateInt))
	frac := part + float64(err)*rate/1e9
	return full*rateInt + int64(math.Round(frac))
}

// vim: foldmethod=marker
