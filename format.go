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
	"fmt"
)

// Stream format markup constants, as they appear on the wire in device
// arguments and driver advertisements. Only a subset of these are backed by
// a Samples implementation in this package; the rest exist so that drivers
// may advertise exotic hardware layouts without every consumer needing to
// understand them.
const (
	FormatCF64 = "CF64"
	FormatCF32 = "CF32"
	FormatCS32 = "CS32"
	FormatCU32 = "CU32"
	FormatCS16 = "CS16"
	FormatCU16 = "CU16"
	FormatCS12 = "CS12"
	FormatCU12 = "CU12"
	FormatCS8  = "CS8"
	FormatCU8  = "CU8"
	FormatCS4  = "CS4"
	FormatCU4  = "CU4"
	FormatF64  = "F64"
	FormatF32  = "F32"
	FormatS32  = "S32"
	FormatU32  = "U32"
	FormatS16  = "S16"
	FormatU16  = "U16"
	FormatS8   = "S8"
	FormatU8   = "U8"
)

// Wire will return the stream format markup constant for this SampleFormat,
// suitable for device arguments and driver advertisements.
func (sf SampleFormat) Wire() string {
	switch sf {
	case SampleFormatI8:
		return FormatCS8
	case SampleFormatU8:
		return FormatCU8
	case SampleFormatI16:
		return FormatCS16
	case SampleFormatC64:
		return FormatCF32
	case SampleFormatC128:
		return FormatCF64
	default:
		return ""
	}
}

// ParseSampleFormat will return the SampleFormat described by the provided
// stream format markup constant. Formats without a Samples implementation in
// this package will return ErrSampleFormatUnknown.
func ParseSampleFormat(wire string) (SampleFormat, error) {
	switch wire {
	case FormatCS8:
		return SampleFormatI8, nil
	case FormatCU8:
		return SampleFormatU8, nil
	case FormatCS16:
		return SampleFormatI16, nil
	case FormatCF32:
		return SampleFormatC64, nil
	case FormatCF64:
		return SampleFormatC128, nil
	default:
		return 0, fmt.Errorf("sdrplug: %q: %w", wire, ErrSampleFormatUnknown)
	}
}

// vim: foldmethod=marker
