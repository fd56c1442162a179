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

package hackrf

// #cgo pkg-config: libhackrf
//
// #include <libhackrf/hackrf.h>
import "C"

import (
	"unsafe"

	"github.com/mattn/go-pointer"

	"hz.tools/sdrplug/internal/yikes"
)

//export sdrplugHackrfRxCallback
func sdrplugHackrfRxCallback(transfer *C.hackrf_transfer) C.int {
	s, ok := pointer.Restore(transfer.rx_ctx).(*Sdr)
	if !ok || s == nil {
		// Our back-reference is gone; tell the driver to end the
		// transfer so its thread winds down.
		return -1
	}

	bufSize := int(transfer.valid_length)
	if bufSize%2 != 0 {
		logger.Warn("rx transfer is misaligned", "len", bufSize)
		bufSize--
	}

	buf := yikes.GoBytes(uintptr(unsafe.Pointer(transfer.buffer)), bufSize)
	s.rx.ring.Produce(buf)
	return 0
}

// vim: foldmethod=marker
