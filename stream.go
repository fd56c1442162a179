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
	"errors"
	"sync"
	"time"
)

// StreamOps is the driver side of a Stream: the hooks the generic stream
// machinery uses to start and stop the hardware for one direction. For
// half-duplex radios these normally land in a Trx.
type StreamOps interface {
	// Activate starts the hardware stream. For transmit streams the
	// burst parameters ride along: FlagEndBurst plus a sample count arm a
	// bounded transmission.
	Activate(flags StreamFlags, timeNs int64, numElems int) error

	// Deactivate stops the hardware stream.
	Deactivate(flags StreamFlags, timeNs int64) error

	// Active reports whether this direction currently owns the
	// hardware. On a half-duplex radio the sibling direction can take
	// the radio away at any activation, so this -- not any state held
	// by the Stream -- is the one source of truth for liveness.
	Active() bool

	// Close releases the driver's stream direction state, letting a new
	// stream be set up for it. Called exactly once, after deactivation.
	Close() error
}

// Stream is the public-facing handle onto one direction of a device. It
// owns the ring, the sample format conversion, and the remainder cursor
// that carries a partially consumed ring buffer across Read calls.
//
// A Stream is not safe for concurrent use from multiple goroutines; each
// stream expects a single caller at a time, the same way the hardware
// expects a single consumer.
type Stream struct {
	mu sync.Mutex

	ops  StreamOps
	ring *Ring
	dir  Direction

	format SampleFormat
	conv   StreamConverter

	closed bool

	remHandle int
	remOffset int
	remSamps  int
	remBuf    []byte
}

// NewStream wires a Stream over a ring and a converter. Drivers call this
// from their stream setup path after validating the requested format and
// channel list.
func NewStream(ops StreamOps, conv StreamConverter, ring *Ring, dir Direction, format SampleFormat) *Stream {
	return &Stream{
		ops:       ops,
		ring:      ring,
		dir:       dir,
		format:    format,
		conv:      conv,
		remHandle: -1,
	}
}

// Direction returns which half of the transceiver this stream moves
// samples for.
func (s *Stream) Direction() Direction {
	return s.dir
}

// Format returns the client sample format this stream was set up with.
func (s *Stream) Format() SampleFormat {
	return s.format
}

// MTU returns the most samples a single Read or Write call can move: one
// ring buffer, in complex samples.
func (s *Stream) MTU() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ring == nil {
		return 0
	}
	return s.ring.MTU()
}

// Active reports whether this stream's direction currently owns the
// hardware, as the driver sees it. On a half-duplex radio, activating one
// direction takes the radio away from the other, so the sibling stream
// reads inactive from that moment on -- and may simply be activated again
// to take the radio back.
func (s *Stream) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	return s.ops.Active()
}

// Activate starts the stream. Activating a closed stream, or a stream
// whose direction already owns the hardware, is an error. Whether this
// stream is "active" is the driver's call, never local bookkeeping: a
// stream that lost the radio to its sibling direction reads inactive and
// reactivates normally.
//
// For transmit streams, passing FlagEndBurst and a non-zero numElems arms
// a bounded burst and starts the hardware; without them the stream is
// merely armed, and the hardware starts on the first bursted Write.
func (s *Stream) Activate(flags StreamFlags, timeNs int64, numElems int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStreamClosed
	}
	if s.ops.Active() {
		return ErrStreamActive
	}
	return s.ops.Activate(flags, timeNs, numElems)
}

// Deactivate stops the hardware for this stream. The ring and its buffers
// stay allocated; Activate may be called again.
func (s *Stream) Deactivate(flags StreamFlags, timeNs int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStreamClosed
	}
	if !s.ops.Active() {
		return ErrStreamActive
	}
	return s.ops.Deactivate(flags, timeNs)
}

// Close tears the stream down, deactivating first if needed, and frees the
// ring. Closing twice is an error.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStreamClosed
	}
	if s.ops.Active() {
		if err := s.ops.Deactivate(0, 0); err != nil {
			logger.Warn("deactivate on close failed", "err", err)
		}
	}
	if s.remHandle >= 0 {
		s.ring.ReleaseRead(s.remHandle)
		s.remHandle = -1
	}
	s.ring = nil
	s.closed = true
	return s.ops.Close()
}

// Read moves up to MTU samples into buf, converting from the hardware's
// native layout into the stream's client format.
//
// A remainder left over from a prior call is served first; only then is a
// fresh ring buffer acquired, and anything buf can't hold becomes the new
// remainder. If acquiring times out after remainder samples were already
// served, those samples are returned with success.
//
// An overflow is reported as ErrOverflow with FlagEndAbrupt, consumes no
// samples, and leaves the stream usable.
func (s *Stream) Read(buf Samples, timeout time.Duration) (int, StreamFlags, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, 0, 0, ErrStreamClosed
	}
	if buf.Format() != s.format {
		return 0, 0, 0, ErrSampleFormatMismatch
	}

	var (
		bps   = s.conv.NativeFormat().Size()
		want  = buf.Length()
		total int
	)
	if mtu := s.ring.MTU(); want > mtu {
		want = mtu
	}

	if s.remHandle >= 0 {
		n := s.remSamps
		if n > want {
			n = want
		}
		if _, err := s.conv.ToClient(
			buf.Slice(0, n),
			s.remBuf[s.remOffset*bps:(s.remOffset+n)*bps],
		); err != nil {
			return 0, 0, 0, err
		}
		s.remOffset += n
		s.remSamps -= n
		if s.remSamps == 0 {
			s.ring.ReleaseRead(s.remHandle)
			s.remHandle = -1
		}
		total = n
		if total == want {
			return total, 0, 0, nil
		}
	}

	handle, raw, samps, err := s.ring.AcquireRead(timeout)
	if err != nil {
		if total > 0 {
			return total, 0, 0, nil
		}
		if errors.Is(err, ErrOverflow) {
			return 0, FlagEndAbrupt, 0, err
		}
		return 0, 0, 0, err
	}

	n := want - total
	if n > samps {
		n = samps
	}
	if _, err := s.conv.ToClient(
		buf.Slice(total, total+n),
		raw[:n*bps],
	); err != nil {
		s.ring.ReleaseRead(handle)
		return total, 0, 0, err
	}
	if n < samps {
		s.remHandle = handle
		s.remOffset = n
		s.remSamps = samps - n
		s.remBuf = raw
	} else {
		s.ring.ReleaseRead(handle)
	}
	return total + n, 0, 0, nil
}

// Write moves up to MTU samples out of buf, converting from the stream's
// client format into the hardware's native layout.
//
// Passing FlagEndBurst starts (or re-arms) the hardware for a bounded
// transmission of the samples written; when the burst is shorter than the
// MTU the unfilled tail of the ring buffer is zero filled, and the driver
// callback ends the transfer once the burst has drained.
func (s *Stream) Write(buf Samples, flags StreamFlags, timeNs int64, timeout time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrStreamClosed
	}
	if buf.Format() != s.format {
		return 0, ErrSampleFormatMismatch
	}

	var (
		bps  = s.conv.NativeFormat().Size()
		want = buf.Length()
	)
	if mtu := s.ring.MTU(); want > mtu {
		want = mtu
	}

	handle, raw, mtu, err := s.ring.AcquireWrite(timeout)
	if err != nil {
		return 0, err
	}
	if _, err := s.conv.FromClient(raw[:want*bps], buf.Slice(0, want)); err != nil {
		s.ring.ReleaseWrite(handle, 0, 0, 0)
		return 0, err
	}
	if want < mtu {
		for i := want * bps; i < len(raw); i++ {
			raw[i] = 0
		}
	}
	s.ring.ReleaseWrite(handle, want, flags, timeNs)

	// The samples are queued before the hardware comes up, so a burst
	// start never races the consume path into an underflow.
	if flags&FlagEndBurst != 0 && want > 0 {
		if err := s.ops.Activate(flags, timeNs, want); err != nil {
			return 0, err
		}
	}
	return want, nil
}

// ReadStatus reports transmit-side stream events: it polls the underflow
// flag, sleeping in short steps, until an event or the timeout. Receive
// streams have no status channel and return ErrNotSupported.
func (s *Stream) ReadStatus(timeout time.Duration) error {
	if s.dir != DirectionTx {
		return ErrNotSupported
	}
	s.mu.Lock()
	ring := s.ring
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ErrStreamClosed
	}

	step := timeout / 10
	if step > time.Millisecond {
		step = time.Millisecond
	}
	deadline := time.Now().Add(timeout)
	for {
		if ring.TakeUnderflow() {
			return ErrUnderflow
		}
		if step <= 0 || !time.Now().Before(deadline) {
			return ErrTimeout
		}
		time.Sleep(step)
	}
}

// AcquireReadBuffer hands out a filled ring buffer directly, bypassing the
// format conversion. The slice aliases ring memory and stays valid until
// ReleaseReadBuffer.
func (s *Stream) AcquireReadBuffer(timeout time.Duration) (int, []byte, int, StreamFlags, error) {
	s.mu.Lock()
	ring, closed := s.ring, s.closed
	s.mu.Unlock()
	if closed {
		return -1, nil, 0, 0, ErrStreamClosed
	}

	handle, buf, samps, err := ring.AcquireRead(timeout)
	if errors.Is(err, ErrOverflow) {
		return -1, nil, 0, FlagEndAbrupt, err
	}
	return handle, buf, samps, 0, err
}

// ReleaseReadBuffer returns a buffer acquired by AcquireReadBuffer.
func (s *Stream) ReleaseReadBuffer(handle int) {
	s.mu.Lock()
	ring, closed := s.ring, s.closed
	s.mu.Unlock()
	if closed {
		return
	}
	ring.ReleaseRead(handle)
}

// AcquireWriteBuffer hands out an empty ring buffer directly, bypassing
// the format conversion.
func (s *Stream) AcquireWriteBuffer(timeout time.Duration) (int, []byte, int, error) {
	s.mu.Lock()
	ring, closed := s.ring, s.closed
	s.mu.Unlock()
	if closed {
		return -1, nil, 0, ErrStreamClosed
	}
	return ring.AcquireWrite(timeout)
}

// ReleaseWriteBuffer commits a buffer acquired by AcquireWriteBuffer,
// carrying numElems samples.
func (s *Stream) ReleaseWriteBuffer(handle, numElems int, flags StreamFlags, timeNs int64) {
	s.mu.Lock()
	ring, closed := s.ring, s.closed
	s.mu.Unlock()
	if closed {
		return
	}
	ring.ReleaseWrite(handle, numElems, flags, timeNs)
}

// vim: foldmethod=marker
