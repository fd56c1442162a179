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

	"hz.tools/sdrplug"
)

func TestSampleFormatSizes(t *testing.T) {
	assert.Equal(t, 2, sdrplug.SampleFormatU8.Size())
	assert.Equal(t, 2, sdrplug.SampleFormatI8.Size())
	assert.Equal(t, 4, sdrplug.SampleFormatI16.Size())
	assert.Equal(t, 8, sdrplug.SampleFormatC64.Size())
	assert.Equal(t, 16, sdrplug.SampleFormatC128.Size())
	assert.Equal(t, 0, sdrplug.SampleFormat(250).Size())
}

func TestSampleFormatWire(t *testing.T) {
	for _, sf := range []sdrplug.SampleFormat{
		sdrplug.SampleFormatU8,
		sdrplug.SampleFormatI8,
		sdrplug.SampleFormatI16,
		sdrplug.SampleFormatC64,
		sdrplug.SampleFormatC128,
	} {
		back, err := sdrplug.ParseSampleFormat(sf.Wire())
		assert.NoError(t, err)
		assert.Equal(t, sf, back)
	}

	assert.Equal(t, "CS8", sdrplug.SampleFormatI8.Wire())
	assert.Equal(t, "CU8", sdrplug.SampleFormatU8.Wire())
	assert.Equal(t, "CS16", sdrplug.SampleFormatI16.Wire())
	assert.Equal(t, "CF32", sdrplug.SampleFormatC64.Wire())
	assert.Equal(t, "CF64", sdrplug.SampleFormatC128.Wire())

	_, err := sdrplug.ParseSampleFormat("CS12")
	assert.Error(t, err)
}

func TestMakeSamples(t *testing.T) {
	for _, sf := range []sdrplug.SampleFormat{
		sdrplug.SampleFormatU8,
		sdrplug.SampleFormatI8,
		sdrplug.SampleFormatI16,
		sdrplug.SampleFormatC64,
		sdrplug.SampleFormatC128,
	} {
		buf, err := sdrplug.MakeSamples(sf, 128)
		assert.NoError(t, err)
		assert.Equal(t, 128, buf.Length())
		assert.Equal(t, sf, buf.Format())
		assert.Equal(t, 128*sf.Size(), buf.Size())
	}

	_, err := sdrplug.MakeSamples(sdrplug.SampleFormat(250), 128)
	assert.Equal(t, sdrplug.ErrSampleFormatUnknown, err)
}

// vim: foldmethod=marker
