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

package airspy

import (
	"unsafe"

	"hz.tools/sdrplug"
)

// c64Converter binds the HF+'s native complex float32 wire layout to the
// client formats. Ring buffers come from the Go allocator, so the float32
// alignment the view below needs always holds.
type c64Converter struct{}

func bytesAsC64(buf []byte) sdrplug.SamplesC64 {
	if len(buf) < 8 {
		return nil
	}
	return unsafe.Slice((*complex64)(unsafe.Pointer(&buf[0])), len(buf)/8)
}

// NativeFormat implements the sdrplug.StreamConverter interface.
func (c64Converter) NativeFormat() sdrplug.SampleFormat {
	return sdrplug.SampleFormatC64
}

// ToClient implements the sdrplug.StreamConverter interface.
func (c64Converter) ToClient(dst sdrplug.Samples, src []byte) (int, error) {
	n := len(src) / sdrplug.SampleFormatC64.Size()
	if n > dst.Length() {
		n = dst.Length()
	}
	if n == 0 {
		return 0, nil
	}
	native := bytesAsC64(src[:n*sdrplug.SampleFormatC64.Size()])
	if err := sdrplug.ConvertBuffer(dst.Slice(0, n), native); err != nil {
		return 0, err
	}
	return n, nil
}

// FromClient implements the sdrplug.StreamConverter interface. The
// hardware is receive only.
func (c64Converter) FromClient(dst []byte, src sdrplug.Samples) (int, error) {
	return 0, sdrplug.ErrNotSupported
}

// vim: foldmethod=marker
