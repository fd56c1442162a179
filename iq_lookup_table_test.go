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

package sdrplug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hz.tools/sdrplug"
)

func TestLookupTableIndex(t *testing.T) {
	// The index is the raw interleaved byte pair read as a uint16: I in
	// the low byte, Q in the high byte.
	assert.Equal(t, uint16(0), sdrplug.LookupTableIndexU8([2]uint8{0, 0}))
	assert.Equal(t, uint16(0x0201), sdrplug.LookupTableIndexU8([2]uint8{1, 2}))
	assert.Equal(t, uint16(0xFFFF), sdrplug.LookupTableIndexU8([2]uint8{255, 255}))
}

func TestGenerateLookupTable(t *testing.T) {
	tab, err := sdrplug.GenerateLookupTable(sdrplug.SampleFormatC64,
		func(dst sdrplug.Samples, idx int, i, q uint8) {
			dst.(sdrplug.SamplesC64)[idx] = complex(
				(float32(i)-127.4)/128,
				(float32(q)-127.4)/128,
			)
		})
	require.NoError(t, err)
	require.Equal(t, 65536, tab.Length())

	c64 := tab.(sdrplug.SamplesC64)
	idx := sdrplug.LookupTableIndexU8([2]uint8{128, 0})
	assert.InDelta(t, (128.0-127.4)/128, real(c64[idx]), 1e-6)
	assert.InDelta(t, (0.0-127.4)/128, imag(c64[idx]), 1e-6)
}

func TestLookupTable(t *testing.T) {
	identity, err := sdrplug.GenerateLookupTable(sdrplug.SampleFormatC64,
		func(dst sdrplug.Samples, idx int, i, q uint8) {
			dst.(sdrplug.SamplesC64)[idx] = complex(float32(i), float32(q))
		})
	require.NoError(t, err)

	tab, err := sdrplug.NewLookupTable(sdrplug.SampleFormatU8, identity)
	require.NoError(t, err)
	assert.Equal(t, sdrplug.SampleFormatU8, tab.SourceSampleFormat())
	assert.Equal(t, sdrplug.SampleFormatC64, tab.DestinationSampleFormat())

	src := sdrplug.SamplesU8{{10, 20}, {0, 255}}
	dst := make(sdrplug.SamplesC64, 2)
	n, err := tab.Lookup(dst, src)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, complex64(complex(10, 20)), dst[0])
	assert.Equal(t, complex64(complex(0, 255)), dst[1])
}

func TestLookupTableWrongSize(t *testing.T) {
	short := make(sdrplug.SamplesC64, 100)
	_, err := sdrplug.NewLookupTable(sdrplug.SampleFormatU8, short)
	assert.Error(t, err)
}

// vim: foldmethod=marker
