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

package rtl

import (
	"hz.tools/sdrplug"
)

// u8Converter converts the dongle's unsigned 8 bit IQ into the client
// formats through a pair of 65536 entry lookup tables, one per output
// width, generated once at open time. The table key is the raw (Q<<8)|I
// byte pair; the float value is (v - 127.4) / 128, matching the dongle's
// not-quite-centered ADC.
type u8Converter struct {
	s *Sdr

	lutC64 sdrplug.SamplesC64
	lutI16 sdrplug.SamplesI16
}

func newU8Converter(s *Sdr) *u8Converter {
	c := &u8Converter{s: s}

	lutC64, _ := sdrplug.GenerateLookupTable(sdrplug.SampleFormatC64,
		func(dst sdrplug.Samples, idx int, i, q uint8) {
			dst.(sdrplug.SamplesC64)[idx] = complex(
				(float32(i)-127.4)/128,
				(float32(q)-127.4)/128,
			)
		})
	c.lutC64 = lutC64.(sdrplug.SamplesC64)

	lutI16, _ := sdrplug.GenerateLookupTable(sdrplug.SampleFormatI16,
		func(dst sdrplug.Samples, idx int, i, q uint8) {
			dst.(sdrplug.SamplesI16)[idx] = [2]int16{
				int16((float64(i) - 127.4) / 128 * 32767),
				int16((float64(q) - 127.4) / 128 * 32767),
			}
		})
	c.lutI16 = lutI16.(sdrplug.SamplesI16)

	return c
}

// NativeFormat implements the sdrplug.StreamConverter interface.
func (c *u8Converter) NativeFormat() sdrplug.SampleFormat {
	return sdrplug.SampleFormatU8
}

// ToClient implements the sdrplug.StreamConverter interface.
func (c *u8Converter) ToClient(dst sdrplug.Samples, src []byte) (int, error) {
	n := len(src) / 2
	if n > dst.Length() {
		n = dst.Length()
	}
	if n == 0 {
		return 0, nil
	}

	raw, err := sdrplug.BytesAsSamples(src[:n*2], sdrplug.SampleFormatU8)
	if err != nil {
		return 0, err
	}
	u8 := raw.(sdrplug.SamplesU8)

	out := dst.Slice(0, n)
	switch out := out.(type) {
	case sdrplug.SamplesC64:
		for i := range out {
			out[i] = c.lutC64[sdrplug.LookupTableIndexU8(u8[i])]
		}
	case sdrplug.SamplesI16:
		for i := range out {
			out[i] = c.lutI16[sdrplug.LookupTableIndexU8(u8[i])]
		}
	case sdrplug.SamplesI8:
		if _, err := u8.ToI8(out); err != nil {
			return 0, err
		}
	case sdrplug.SamplesU8:
		copy(out, u8)
	default:
		return 0, sdrplug.ErrConversionNotImplemented
	}

	if c.s.iqSwap.Load() {
		if err := sdrplug.SwapIQ(out); err != nil {
			return 0, err
		}
	}
	return n, nil
}

// FromClient implements the sdrplug.StreamConverter interface. The
// hardware is receive only.
func (c *u8Converter) FromClient(dst []byte, src sdrplug.Samples) (int, error) {
	return 0, sdrplug.ErrNotSupported
}

// vim: foldmethod=marker
