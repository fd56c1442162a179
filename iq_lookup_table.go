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
	"unsafe"
)

// LookupTable or "iq table" is a micro-optimization for extremely hotpath code
// where you make a memory / one-time CPU tradeoff for many expensive
// operations on an int8 or uint8. Since both are [2]int8 or [2]uint8,
// it's very possible to pre-compute all possible input IQ samples, since
// both could "just" be thought of as an int16, which is less than a fraction
// of a second to precompute (in IQ terms - 65535 (int16 max) is only
// 0.03 of a second at 2Msps. That being said -- this isn't free and shouldn't
// be overused.
//
// Drivers whose hardware speaks 8 bit IQ (the rtl-sdr most of all) build
// their sample converters on these tables once at open time.
type LookupTable interface {
	// Lookup - uncreatively - looks up the values from the source ('src')
	// IQ buffer, and writes the precomputed value to the destination ('dst')
	// buffer.
	//
	// 'dst' and 'src' MUST match the configured sample format(s).
	Lookup(dst, src Samples) (int, error)

	// SourceSampleFormat is the sample format of the precomputed table keys.
	// this must be one of SampleFormatI8 or SampleFormatU8, depending on the
	// configuration of the LookupTable.
	SourceSampleFormat() SampleFormat

	// DestinationSampleFormat is the sample format of the precomputed table
	// values. This can be any IQ type.
	DestinationSampleFormat() SampleFormat
}

// LookupTableIndexU8 will return the index into the LookupTable for an uint8
// iq sample.
func LookupTableIndexU8(v [2]uint8) uint16 {
	return *(*uint16)(unsafe.Pointer(&v[0]))
}

// LookupTableIndexI8 will return the index into the LookupTable for an int8
// iq sample.
func LookupTableIndexI8(v [2]int8) uint16 {
	return *(*uint16)(unsafe.Pointer(&v[0]))
}

// GenerateLookupTable will produce a 65536 entry table by invoking the
// provided function for every possible uint8 IQ pair, in index order. The
// function receives the raw I and Q bytes.
func GenerateLookupTable(format SampleFormat, fn func(dst Samples, idx int, i, q uint8)) (Samples, error) {
	tab, err := MakeSamples(format, 65536)
	if err != nil {
		return nil, err
	}
	for idx := 0; idx < 65536; idx++ {
		i16 := uint16(idx)
		v := *(*[2]uint8)(unsafe.Pointer(&i16))
		fn(tab, idx, v[0], v[1])
	}
	return tab, nil
}

// NewLookupTable will create a new LookupTable. The 'inputFormat' is the format
// of input IQ samples. This must be either SampleFormatI8 or SampleFormatU8.
//
// On the other end, the 'lookup' buffer is the data to place into the output
// buffer depending on the input samples. The 'lookup' buffer must be exactly
// 65536 samples long.
func NewLookupTable(inputFormat SampleFormat, lookup Samples) (LookupTable, error) {
	tab, err := MakeSamples(lookup.Format(), lookup.Length())
	if err != nil {
		return nil, err
	}
	n, err := CopySamples(tab, lookup)
	if err != nil {
		return nil, err
	}
	if n != 65536 {
		return nil, fmt.Errorf("sdrplug: NewLookupTable requires 'lookup' be exactly 65536 samples long")
	}

	switch inputFormat {
	case SampleFormatI8, SampleFormatU8:
		break
	default:
		return nil, ErrSampleFormatUnknown
	}

	return &lookupTable{
		tab: tab,
		sf:  inputFormat,
	}, nil
}

type lookupTable struct {
	sf  SampleFormat
	tab Samples
}

func (lt *lookupTable) SourceSampleFormat() SampleFormat {
	return lt.sf
}

func (lt *lookupTable) DestinationSampleFormat() SampleFormat {
	return lt.tab.Format()
}

func (lt *lookupTable) Lookup(dst, src Samples) (int, error) {
	if dst.Format() != lt.tab.Format() {
		return 0, ErrSampleFormatMismatch
	}
	if src.Format() != lt.sf {
		return 0, ErrSampleFormatMismatch
	}
	if dst.Length() < src.Length() {
		return 0, ErrDstTooSmall
	}

	index := func(i int) uint16 {
		switch src := src.(type) {
		case SamplesU8:
			return LookupTableIndexU8(src[i])
		case SamplesI8:
			return LookupTableIndexI8(src[i])
		}
		return 0
	}

	switch src.(type) {
	case SamplesU8, SamplesI8:
		break
	default:
		return 0, ErrSampleFormatUnknown
	}

	// Typed fast paths for the hot output formats; everything else takes
	// the slow per-sample copy.
	switch dst := dst.(type) {
	case SamplesC64:
		tab := lt.tab.(SamplesC64)
		for i := 0; i < src.Length(); i++ {
			dst[i] = tab[index(i)]
		}
	case SamplesI16:
		tab := lt.tab.(SamplesI16)
		for i := 0; i < src.Length(); i++ {
			dst[i] = tab[index(i)]
		}
	default:
		for i := 0; i < src.Length(); i++ {
			idx := int(index(i))
			if _, err := CopySamples(
				dst.Slice(i, i+1),
				lt.tab.Slice(idx, idx+1),
			); err != nil {
				return i, err
			}
		}
	}
	return src.Length(), nil
}

// vim: foldmethod=marker
