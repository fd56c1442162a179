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
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"hz.tools/sdrplug"
)

func TestParseKwargs(t *testing.T) {
	kw := sdrplug.ParseKwargs("driver=rtlsdr, serial=00000001, label=Generic RTL2832U")
	assert.Equal(t, "rtlsdr", kw["driver"])
	assert.Equal(t, "00000001", kw["serial"])
	assert.Equal(t, "Generic RTL2832U", kw["label"])

	kw = sdrplug.ParseKwargs("  spaced  =  out  ,driver=hackrf")
	assert.Equal(t, "out", kw["spaced"])
	assert.Equal(t, "hackrf", kw["driver"])

	// Valueless keys parse as empty values; empty keys are discarded.
	kw = sdrplug.ParseKwargs("novalue=, =nokey, bare")
	assert.Equal(t, "", kw["novalue"])
	assert.Contains(t, kw, "bare")
	assert.Equal(t, "", kw["bare"])
	assert.NotContains(t, kw, "")
	assert.Len(t, kw, 2)
}

func TestParseKwargsEmpty(t *testing.T) {
	assert.Len(t, sdrplug.ParseKwargs(""), 0)
	assert.Len(t, sdrplug.ParseKwargs(" ,, , "), 0)
}

func TestKwargsString(t *testing.T) {
	kw := sdrplug.Kwargs{"driver": "hackrf", "serial": "1234"}
	assert.Equal(t, "driver=hackrf, serial=1234", kw.String())
	assert.Equal(t, "", sdrplug.Kwargs{}.String())
}

func TestKwargsRoundTrip(t *testing.T) {
	keyGen := rapid.StringMatching(`[a-zA-Z_][a-zA-Z0-9_.-]{0,15}`)
	valueGen := rapid.StringMatching(`[a-zA-Z0-9_.:/ -]{0,24}`)

	rapid.Check(t, func(t *rapid.T) {
		kw := sdrplug.Kwargs{}
		for _, key := range rapid.SliceOfDistinct(keyGen, rapid.ID[string]).Draw(t, "keys") {
			value := valueGen.Draw(t, "value")
			// The markup trims whitespace; stick to values that
			// survive the trip.
			kw[key] = trimmable(value)
		}
		assert.Equal(t, kw, sdrplug.ParseKwargs(kw.String()))
	})
}

func trimmable(s string) string {
	for len(s) > 0 && (s[0] == ' ' || s[len(s)-1] == ' ') {
		if s[0] == ' ' {
			s = s[1:]
		} else {
			s = s[:len(s)-1]
		}
	}
	return s
}

func TestKwargsTypedSettings(t *testing.T) {
	kw := sdrplug.Kwargs{}

	kw.SetBool("agc", true)
	assert.Equal(t, "true", kw["agc"])
	assert.True(t, kw.Bool("agc", false))
	assert.False(t, kw.Bool("missing", false))

	kw.SetInt("ppm", -12)
	assert.Equal(t, int64(-12), kw.Int("ppm", 0))

	kw.SetUint("buffers", 24)
	assert.Equal(t, uint64(24), kw.Uint("buffers", 0))

	kw.SetFloat("rate", 2.4e6)
	assert.Equal(t, 2.4e6, kw.Float("rate", 0))

	stamp := time.Date(2021, time.March, 14, 15, 9, 26, 0, time.UTC)
	kw.SetTime("since", stamp)
	assert.True(t, stamp.Equal(kw.Time("since", time.Time{})))

	kw["garbage"] = "not a number"
	assert.Equal(t, int64(7), kw.Int("garbage", 7))
}

// vim: foldmethod=marker
