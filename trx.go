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
	"time"
)

// TrxMode is the half-duplex transceiver state: the radio is either off,
// receiving, or transmitting, never two at once.
type TrxMode uint8

const (
	// TrxOff means neither direction is streaming.
	TrxOff TrxMode = iota

	// TrxRx means the receive stream owns the radio.
	TrxRx

	// TrxTx means the transmit stream owns the radio.
	TrxTx
)

// String returns a short human readable mode name.
func (m TrxMode) String() string {
	switch m {
	case TrxOff:
		return "off"
	case TrxRx:
		return "rx"
	case TrxTx:
		return "tx"
	default:
		return "unknown"
	}
}

// StreamingState is the driver's answer to "is the USB thread alive".
type StreamingState uint8

const (
	// StreamingIdle means the driver reports no stream running.
	StreamingIdle StreamingState = iota

	// StreamingActive means the driver's USB thread is moving transfers.
	StreamingActive

	// StreamingExitCalled means the driver's streaming machinery wound
	// itself down (typically after a spurious USB fault) and the device
	// must be reopened before streaming again.
	StreamingExitCalled
)

// TrxOps is the driver surface the transceiver state machine drives. All
// hooks are invoked from inside Trx methods, under whatever lock the caller
// serializes the Trx with (the device mutex, in the bundled drivers);
// drivers must not call back into the Trx from them.
type TrxOps interface {
	// StartRx asks the driver to start its receive thread.
	StartRx() error

	// StopRx asks the driver to stop its receive thread.
	StopRx() error

	// StartTx asks the driver to start its transmit thread.
	StartTx() error

	// StopTx asks the driver to stop its transmit thread.
	StopTx() error

	// Streaming probes the driver's stream thread state.
	Streaming() StreamingState

	// Reopen closes and reopens the native handle by serial, reapplying
	// every cached tuner value for the direction being started. This is
	// the one automatic recovery path, taken after StreamingExitCalled.
	Reopen(dir Direction) error

	// ApplyPending reapplies any cached tuner values that differ between
	// the direction being left and the direction being entered.
	ApplyPending(dir Direction) error

	// BurstPending reports whether an armed transmit burst has not yet
	// fully drained to the hardware.
	BurstPending() bool
}

// Trx is the Off / RX / TX state machine for half-duplex radios. One Trx
// guards one native handle; both of the device's streams route their
// activations through it.
type Trx struct {
	ops  TrxOps
	mode TrxMode
}

// NewTrx builds the state machine over a driver's hooks, starting in
// TrxOff. The caller provides mutual exclusion; in practice the owning
// device serializes activations under its device mutex.
func NewTrx(ops TrxOps) *Trx {
	return &Trx{ops: ops}
}

// Mode returns the current transceiver state.
func (t *Trx) Mode() TrxMode {
	return t.mode
}

// burstDrainPoll is how long to sleep between Streaming probes while a
// transmit burst drains ahead of a direction switch.
const burstDrainPoll = 10 * time.Millisecond

// confirm polls the driver until it reports something other than idle, or
// gives up after roughly ten milliseconds.
func (t *Trx) confirm() StreamingState {
	for i := 0; i < 10; i++ {
		st := t.ops.Streaming()
		if st != StreamingIdle {
			return st
		}
		time.Sleep(time.Millisecond)
	}
	return t.ops.Streaming()
}

// start issues the driver start for one direction and confirms the stream
// actually came up, taking the single reopen recovery path if the driver
// reports its streaming machinery already wound down.
func (t *Trx) start(dir Direction) error {
	starter := t.ops.StartTx
	if dir == DirectionRx {
		starter = t.ops.StartRx
	}

	if err := starter(); err != nil {
		return err
	}
	st := t.confirm()
	if st == StreamingExitCalled {
		logger.Warn("stream exited on start, reopening device", "dir", dir)
		if err := t.ops.Reopen(dir); err != nil {
			return ErrStream
		}
		if err := starter(); err != nil {
			return ErrStream
		}
		st = t.confirm()
	}
	if st != StreamingActive {
		return ErrStream
	}
	if dir == DirectionRx {
		t.mode = TrxRx
	} else {
		t.mode = TrxTx
	}
	return nil
}

// ActivateRx transitions the radio into receive. Coming from transmit, a
// pending burst is allowed to drain first, the transmit thread is stopped,
// and any tuner values that differ between the two directions are
// reapplied before the receive thread starts.
func (t *Trx) ActivateRx() error {
	switch t.mode {
	case TrxRx:
		return nil
	case TrxTx:
		for t.ops.BurstPending() && t.ops.Streaming() == StreamingActive {
			time.Sleep(burstDrainPoll)
		}
		if err := t.ops.StopTx(); err != nil {
			return err
		}
		t.mode = TrxOff
		if err := t.ops.ApplyPending(DirectionRx); err != nil {
			return err
		}
	}
	return t.start(DirectionRx)
}

// ActivateTx transitions the radio into transmit. The caller has already
// validated the burst parameters; an unbounded activation never reaches
// here.
func (t *Trx) ActivateTx() error {
	switch t.mode {
	case TrxTx:
		return nil
	case TrxRx:
		if err := t.ops.StopRx(); err != nil {
			return err
		}
		t.mode = TrxOff
		if err := t.ops.ApplyPending(DirectionTx); err != nil {
			return err
		}
	}
	return t.start(DirectionTx)
}

// Deactivate stops the named direction if it currently owns the radio.
// Deactivating a direction that is not running is a no-op.
func (t *Trx) Deactivate(dir Direction) error {
	switch {
	case dir == DirectionRx && t.mode == TrxRx:
		if err := t.ops.StopRx(); err != nil {
			return err
		}
		t.mode = TrxOff
	case dir == DirectionTx && t.mode == TrxTx:
		if err := t.ops.StopTx(); err != nil {
			return err
		}
		t.mode = TrxOff
	}
	return nil
}

// vim: foldmethod=marker
