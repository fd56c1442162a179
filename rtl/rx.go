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

// #cgo pkg-config: librtlsdr
//
// #include <stdint.h>
//
// #include <rtl-sdr.h>
//
// extern void sdrplugRtlsdrRxCallback(unsigned char *buf, uint32_t len, void *ctx);
import "C"

import (
	"unsafe"

	"github.com/mattn/go-pointer"

	"hz.tools/sdrplug"
	"hz.tools/sdrplug/internal/yikes"
)

//export sdrplugRtlsdrRxCallback
func sdrplugRtlsdrRxCallback(cBuf *C.uchar, cLen C.uint32_t, ctx unsafe.Pointer) {
	s, ok := pointer.Restore(ctx).(*Sdr)
	if !ok || s == nil {
		return
	}
	buf := yikes.GoBytes(uintptr(unsafe.Pointer(cBuf)), int(cLen))
	s.rxRing.Produce(buf)
}

// rxOps drives the dongle's async read thread for the receive stream.
type rxOps struct {
	s *Sdr
}

// Activate implements the sdrplug.StreamOps interface.
func (o rxOps) Activate(flags sdrplug.StreamFlags, timeNs int64, numElems int) error {
	s := o.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}
	if err := rvToErr(C.rtlsdr_reset_buffer(s.handle)); err != nil {
		return err
	}
	s.rxRing.Reset()
	s.running = true
	s.done = make(chan struct{})

	go func(handle *C.rtlsdr_dev_t, token unsafe.Pointer, done chan struct{}) {
		defer close(done)
		if err := rvToErr(C.rtlsdr_read_async(
			handle,
			C.rtlsdr_read_async_cb_t(C.sdrplugRtlsdrRxCallback),
			token, C.uint32_t(s.bufNum), C.uint32_t(defaultBufLen),
		)); err != nil {
			logger.Warn("read_async exited", "err", err)
		}
	}(s.handle, s.token, s.done)
	return nil
}

// Deactivate implements the sdrplug.StreamOps interface.
func (o rxOps) Deactivate(flags sdrplug.StreamFlags, timeNs int64) error {
	s := o.s
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	err := rvToErr(C.rtlsdr_cancel_async(s.handle))
	done := s.done
	s.running = false
	s.mu.Unlock()

	<-done
	return err
}

// Active implements the sdrplug.StreamOps interface.
func (o rxOps) Active() bool {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	return o.s.running
}

// Close implements the sdrplug.StreamOps interface.
func (o rxOps) Close() error {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	o.s.rxOpened = false
	o.s.rxRing = nil
	return nil
}

// vim: foldmethod=marker
