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

// #cgo pkg-config: libairspyhf
//
// #include <airspyhf.h>
//
// extern int sdrplugAirspyRxCallback(airspyhf_transfer_t* transfer);
import "C"

import (
	"unsafe"

	"github.com/mattn/go-pointer"

	"hz.tools/sdrplug"
	"hz.tools/sdrplug/internal/yikes"
)

//export sdrplugAirspyRxCallback
func sdrplugAirspyRxCallback(transfer *C.airspyhf_transfer_t) C.int {
	s, ok := pointer.Restore(transfer.ctx).(*Sdr)
	if !ok || s == nil {
		return -1
	}
	if transfer.dropped_samples > 0 {
		logger.Warn("dropped samples", "count", uint64(transfer.dropped_samples))
	}

	size := int(transfer.sample_count) * sdrplug.SampleFormatC64.Size()
	buf := yikes.GoBytes(uintptr(unsafe.Pointer(transfer.samples)), size)
	s.rxRing.Produce(buf)
	return 0
}

// rxOps drives libairspyhf's streaming thread for the receive stream.
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
	s.rxRing.Reset()
	if err := rvToErr(C.airspyhf_start(
		s.dev,
		C.airspyhf_sample_block_cb_fn(C.sdrplugAirspyRxCallback),
		s.token,
	)); err != nil {
		return err
	}
	s.running = true
	return nil
}

// Deactivate implements the sdrplug.StreamOps interface.
func (o rxOps) Deactivate(flags sdrplug.StreamFlags, timeNs int64) error {
	s := o.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	err := rvToErr(C.airspyhf_stop(s.dev))
	s.running = false
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
