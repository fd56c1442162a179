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
	"unsafe"
)

// StreamConverter binds a driver's native wire sample layout to the client
// visible Samples formats. The generic stream machinery calls ToClient on
// the receive path and FromClient on the transmit path; drivers whose
// hardware does not speak interleaved int8 (or that can precompute better,
// like the rtl-sdr's lookup tables) supply their own.
type StreamConverter interface {
	// NativeFormat is the wire layout of the hardware transfer buffers.
	NativeFormat() SampleFormat

	// ToClient converts src, a buffer of native interleaved samples as the
	// hardware delivered them, into the client's dst buffer. dst bounds the
	// conversion; the sample count converted is returned.
	ToClient(dst Samples, src []byte) (int, error)

	// FromClient converts the client's src buffer into dst, a buffer of
	// native interleaved samples as the hardware expects them. src bounds
	// the conversion; the sample count converted is returned.
	FromClient(dst []byte, src Samples) (int, error)
}

// bytesAsI8 views a byte buffer as interleaved int8 samples without
// copying. The buffer must outlive the returned view.
func bytesAsI8(buf []byte) SamplesI8 {
	if len(buf) < 2 {
		return nil
	}
	return unsafe.Slice((*[2]int8)(unsafe.Pointer(&buf[0])), len(buf)/2)
}

// bytesAsU8 views a byte buffer as interleaved uint8 samples without
// copying. The buffer must outlive the returned view.
func bytesAsU8(buf []byte) SamplesU8 {
	if len(buf) < 2 {
		return nil
	}
	return unsafe.Slice((*[2]uint8)(unsafe.Pointer(&buf[0])), len(buf)/2)
}

// BytesAsSamples views a byte buffer as interleaved samples of the provided
// format, without copying. Only the 8 bit formats are supported; wider
// formats have alignment requirements a raw transfer buffer can't promise.
func BytesAsSamples(buf []byte, format SampleFormat) (Samples, error) {
	switch format {
	case SampleFormatI8:
		return bytesAsI8(buf), nil
	case SampleFormatU8:
		return bytesAsU8(buf), nil
	default:
		return nil, ErrSampleFormatUnknown
	}
}

// I8Converter is the stock converter for hardware that speaks interleaved
// int8, optionally exchanging the I and Q components on the way through.
type I8Converter struct {
	// Swap exchanges the I and Q components in both directions.
	Swap bool
}

// NativeFormat implements the StreamConverter interface.
func (c I8Converter) NativeFormat() SampleFormat {
	return SampleFormatI8
}

// ToClient implements the StreamConverter interface.
func (c I8Converter) ToClient(dst Samples, src []byte) (int, error) {
	n := len(src) / 2
	if n > dst.Length() {
		n = dst.Length()
	}
	if n == 0 {
		return 0, nil
	}
	out := dst.Slice(0, n)
	if err := ConvertBuffer(out, bytesAsI8(src[:n*2])); err != nil {
		return 0, err
	}
	if c.Swap {
		if err := SwapIQ(out); err != nil {
			return 0, err
		}
	}
	return n, nil
}

// FromClient implements the StreamConverter interface.
func (c I8Converter) FromClient(dst []byte, src Samples) (int, error) {
	n := len(dst) / 2
	if n > src.Length() {
		n = src.Length()
	}
	if n == 0 {
		return 0, nil
	}
	out := bytesAsI8(dst[:n*2])
	if err := ConvertBuffer(out, src.Slice(0, n)); err != nil {
		return 0, err
	}
	if c.Swap {
		if err := SwapIQ(out); err != nil {
			return 0, err
		}
	}
	return n, nil
}

// vim: foldmethod=marker
