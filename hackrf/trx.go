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

package hackrf

// #cgo pkg-config: libhackrf
//
// #include <libhackrf/hackrf.h>
//
// extern int sdrplugHackrfRxCallback(hackrf_transfer* transfer);
// extern int sdrplugHackrfTxCallback(hackrf_transfer* transfer);
import "C"

import (
	"github.com/mattn/go-pointer"

	"hz.tools/sdrplug"
)

// The TrxOps hooks below are invoked by the transceiver state machine with
// the device mutex already held (the stream ops take it before driving the
// Trx), so everything here talks straight to libhackrf and the caches
// without locking.

// StartRx implements the sdrplug.TrxOps interface.
func (s *Sdr) StartRx() error {
	return rvToErr(C.hackrf_start_rx(
		s.dev,
		C.hackrf_sample_block_cb_fn(C.sdrplugHackrfRxCallback),
		s.token,
	))
}

// StopRx implements the sdrplug.TrxOps interface.
func (s *Sdr) StopRx() error {
	return rvToErr(C.hackrf_stop_rx(s.dev))
}

// StartTx implements the sdrplug.TrxOps interface.
func (s *Sdr) StartTx() error {
	return rvToErr(C.hackrf_start_tx(
		s.dev,
		C.hackrf_sample_block_cb_fn(C.sdrplugHackrfTxCallback),
		s.token,
	))
}

// StopTx implements the sdrplug.TrxOps interface. Whatever was queued
// for a transmission that is being stopped -- by a deactivate or by the
// receive side taking the radio -- is dropped with it.
func (s *Sdr) StopTx() error {
	err := rvToErr(C.hackrf_stop_tx(s.dev))
	if s.tx.ring != nil {
		s.tx.ring.Reset()
	}
	return err
}

// Streaming implements the sdrplug.TrxOps interface.
func (s *Sdr) Streaming() sdrplug.StreamingState {
	switch C.hackrf_is_streaming(s.dev) {
	case C.HACKRF_TRUE:
		return sdrplug.StreamingActive
	case C.HACKRF_ERROR_STREAMING_EXIT_CALLED:
		return sdrplug.StreamingExitCalled
	default:
		return sdrplug.StreamingIdle
	}
}

// BurstPending implements the sdrplug.TrxOps interface.
func (s *Sdr) BurstPending() bool {
	if s.tx.ring == nil {
		return false
	}
	return s.tx.ring.BurstPending()
}

// Reopen implements the sdrplug.TrxOps interface: the one automatic
// recovery path. The native handle is closed and reopened by serial, and
// the cached tuner state for the direction being started is replayed onto
// the fresh handle.
func (s *Sdr) Reopen(dir sdrplug.Direction) error {
	logger.Warn("reopening device", "serial", s.serial, "dir", dir)

	if err := rvToErr(C.hackrf_close(s.dev)); err != nil {
		logger.Warn("close during reopen failed", "serial", s.serial, "err", err)
	}
	s.dev = nil
	pointer.Unref(s.token)
	s.token = nil

	dev, err := open(s.serial)
	if err != nil {
		return err
	}
	s.dev = dev
	s.token = pointer.Save(s)

	return s.applyLocked(dir, s.stateFor(dir), nil)
}

// ApplyPending implements the sdrplug.TrxOps interface: on a direction
// change, every cached tuner value that differs between the stream being
// left and the stream being entered is reapplied to the hardware.
func (s *Sdr) ApplyPending(dir sdrplug.Direction) error {
	var from *streamState
	if dir == sdrplug.DirectionRx {
		from = &s.tx
	} else {
		from = &s.rx
	}
	return s.applyLocked(dir, s.stateFor(dir), from)
}

// applyLocked replays st's cached tuner values onto the hardware. When
// prior is non-nil only the values that differ from it are written; when
// it is nil everything cached is written. The caller holds the device
// mutex.
func (s *Sdr) applyLocked(dir sdrplug.Direction, st, prior *streamState) error {
	if st.sampleRate != 0 && (prior == nil || prior.sampleRate != st.sampleRate) {
		if err := rvToErr(C.hackrf_set_sample_rate(s.dev, C.double(st.sampleRate))); err != nil {
			return err
		}
	}
	if st.bandwidth != 0 && (prior == nil || prior.bandwidth != st.bandwidth) {
		if err := rvToErr(C.hackrf_set_baseband_filter_bandwidth(s.dev, C.uint32_t(st.bandwidth))); err != nil {
			return err
		}
	}
	if st.frequency != 0 && (prior == nil || prior.frequency != st.frequency) {
		if err := rvToErr(C.hackrf_set_freq(s.dev, C.uint64_t(st.frequency))); err != nil {
			return err
		}
	}
	if prior == nil || prior.ampGain != st.ampGain {
		if err := s.setAmpLocked(st.ampGain > 0); err != nil {
			return err
		}
	}
	if dir == sdrplug.DirectionRx {
		if prior == nil || prior.lnaGain != st.lnaGain {
			if err := rvToErr(C.hackrf_set_lna_gain(s.dev, C.uint32_t(st.lnaGain))); err != nil {
				return err
			}
		}
		if prior == nil || prior.vgaGain != st.vgaGain {
			if err := rvToErr(C.hackrf_set_vga_gain(s.dev, C.uint32_t(st.vgaGain))); err != nil {
				return err
			}
		}
	} else {
		if prior == nil || prior.vgaGain != st.vgaGain {
			if err := rvToErr(C.hackrf_set_txvga_gain(s.dev, C.uint32_t(st.vgaGain))); err != nil {
				return err
			}
		}
	}
	if prior == nil || prior.bias != st.bias {
		var enable C.uint8_t
		if st.bias {
			enable = 1
		}
		if err := rvToErr(C.hackrf_set_antenna_enable(s.dev, enable)); err != nil {
			return err
		}
	}
	return nil
}

// rxOps routes the receive stream's lifecycle through the transceiver
// state machine, under the device mutex.
type rxOps struct {
	s *Sdr
}

// Activate implements the sdrplug.StreamOps interface.
func (o rxOps) Activate(flags sdrplug.StreamFlags, timeNs int64, numElems int) error {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()

	if o.s.trx.Mode() != sdrplug.TrxRx {
		o.s.rx.ring.Reset()
	}
	return o.s.trx.ActivateRx()
}

// Deactivate implements the sdrplug.StreamOps interface.
func (o rxOps) Deactivate(flags sdrplug.StreamFlags, timeNs int64) error {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	return o.s.trx.Deactivate(sdrplug.DirectionRx)
}

// Active implements the sdrplug.StreamOps interface: the receive stream
// is live exactly while the transceiver is in receive.
func (o rxOps) Active() bool {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	return o.s.trx.Mode() == sdrplug.TrxRx
}

// Close implements the sdrplug.StreamOps interface.
func (o rxOps) Close() error {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	o.s.rx.opened = false
	o.s.rx.ring = nil
	return nil
}

// txOps routes the transmit stream's lifecycle through the transceiver
// state machine. An activation without burst parameters only arms the
// stream; the radio starts on the first bursted write.
type txOps struct {
	s *Sdr
}

// Activate implements the sdrplug.StreamOps interface.
func (o txOps) Activate(flags sdrplug.StreamFlags, timeNs int64, numElems int) error {
	if flags&sdrplug.FlagEndBurst == 0 || numElems == 0 {
		return nil
	}

	o.s.mu.Lock()
	defer o.s.mu.Unlock()

	// No ring reset here: a bursted write queues its samples before the
	// hardware start, and they must survive it. The ring is wiped on
	// StopTx instead.
	o.s.tx.ring.SetBurst(numElems)
	return o.s.trx.ActivateTx()
}

// Deactivate implements the sdrplug.StreamOps interface.
func (o txOps) Deactivate(flags sdrplug.StreamFlags, timeNs int64) error {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	return o.s.trx.Deactivate(sdrplug.DirectionTx)
}

// Active implements the sdrplug.StreamOps interface: the transmit stream
// is live exactly while the transceiver is in transmit. An armed but
// never bursted stream reads inactive.
func (o txOps) Active() bool {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	return o.s.trx.Mode() == sdrplug.TrxTx
}

// Close implements the sdrplug.StreamOps interface.
func (o txOps) Close() error {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	o.s.tx.opened = false
	o.s.tx.ring = nil
	return nil
}

// vim: foldmethod=marker
