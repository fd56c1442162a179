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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"hz.tools/sdrplug"
)

func TestErrorCodes(t *testing.T) {
	assert.Equal(t, sdrplug.Code(0), sdrplug.CodeNone)
	assert.Equal(t, sdrplug.Code(-1), sdrplug.CodeTimeout)
	assert.Equal(t, sdrplug.Code(-2), sdrplug.CodeStreamError)
	assert.Equal(t, sdrplug.Code(-3), sdrplug.CodeCorruption)
	assert.Equal(t, sdrplug.Code(-4), sdrplug.CodeOverflow)
	assert.Equal(t, sdrplug.Code(-5), sdrplug.CodeNotSupported)
	assert.Equal(t, sdrplug.Code(-6), sdrplug.CodeTimeError)
	assert.Equal(t, sdrplug.Code(-7), sdrplug.CodeUnderflow)
}

func TestCodeOfRoundTrip(t *testing.T) {
	for _, code := range []sdrplug.Code{
		sdrplug.CodeNone,
		sdrplug.CodeTimeout,
		sdrplug.CodeStreamError,
		sdrplug.CodeCorruption,
		sdrplug.CodeOverflow,
		sdrplug.CodeNotSupported,
		sdrplug.CodeTimeError,
		sdrplug.CodeUnderflow,
	} {
		assert.Equal(t, code, sdrplug.CodeOf(code.Err()))
	}
}

func TestCodeOfWrapped(t *testing.T) {
	err := fmt.Errorf("reading: %w", sdrplug.ErrOverflow)
	assert.Equal(t, sdrplug.CodeOverflow, sdrplug.CodeOf(err))

	assert.Equal(t, sdrplug.CodeStreamError, sdrplug.CodeOf(fmt.Errorf("anything else")))
}

func TestStreamFlags(t *testing.T) {
	assert.Equal(t, sdrplug.StreamFlags(1<<1), sdrplug.FlagEndBurst)
	assert.Equal(t, sdrplug.StreamFlags(1<<2), sdrplug.FlagHasTime)
	assert.Equal(t, sdrplug.StreamFlags(1<<3), sdrplug.FlagEndAbrupt)
	assert.Equal(t, sdrplug.StreamFlags(1<<4), sdrplug.FlagOnePacket)
	assert.Equal(t, sdrplug.StreamFlags(1<<5), sdrplug.FlagMoreFragments)
	assert.Equal(t, sdrplug.StreamFlags(1<<6), sdrplug.FlagWaitTrigger)
	assert.Equal(t, sdrplug.StreamFlags(1<<16), sdrplug.FlagUser)
}

func TestDirections(t *testing.T) {
	assert.Equal(t, sdrplug.Direction(0), sdrplug.DirectionTx)
	assert.Equal(t, sdrplug.Direction(1), sdrplug.DirectionRx)
	assert.Equal(t, "TX", sdrplug.DirectionTx.String())
	assert.Equal(t, "RX", sdrplug.DirectionRx.String())
}

// vim: foldmethod=marker
