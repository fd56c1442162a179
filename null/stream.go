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

package null

import (
	"fmt"
	"time"

	"hz.tools/sdrplug"
)

const (
	defaultBufNum = 4
	defaultBufLen = 16384

	// pumpInterval paces the software pumps that stand in for a USB
	// thread: the receive pump produces a quiet buffer per tick, the
	// transmit pump drains one.
	pumpInterval = time.Millisecond
)

// SetupStream implements the sdrplug.Device interface.
func (s *Sdr) SetupStream(dir sdrplug.Direction, format string, channels []int, args sdrplug.Kwargs) (*sdrplug.Stream, error) {
	if err := sdrplug.ValidateStreamSetup(s, dir, format, channels); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.stateFor(dir)
	if st.opened {
		return nil, fmt.Errorf("null: %s stream is already open", dir)
	}

	bufNum := int(args.Uint("buffers", defaultBufNum))
	bufLen := int(args.Uint("bufflen", defaultBufLen))
	if bufNum <= 0 || bufLen <= 0 || bufLen%sdrplug.SampleFormatI8.Size() != 0 {
		return nil, fmt.Errorf("null: bad ring geometry %dx%d", bufNum, bufLen)
	}

	st.ring = sdrplug.NewRing(bufNum, bufLen, sdrplug.SampleFormatI8.Size())
	st.opened = true

	sf, err := sdrplug.ParseSampleFormat(format)
	if err != nil {
		return nil, err
	}
	return sdrplug.NewStream(streamOps{s: s, dir: dir}, sdrplug.I8Converter{}, st.ring, dir, sf), nil
}

// streamOps runs the software pumps behind the null device's streams.
type streamOps struct {
	s   *Sdr
	dir sdrplug.Direction
}

// Activate implements the sdrplug.StreamOps interface.
func (o streamOps) Activate(flags sdrplug.StreamFlags, timeNs int64, numElems int) error {
	s := o.s
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.stateFor(o.dir)
	if o.dir == sdrplug.DirectionTx {
		if flags&sdrplug.FlagEndBurst == 0 || numElems == 0 {
			return nil
		}
		// A bursted write queues its samples before this call; the
		// ring must not be reset here. Deactivate wipes it instead.
		st.ring.SetBurst(numElems)
	}
	if st.running {
		return nil
	}
	if o.dir == sdrplug.DirectionRx {
		st.ring.Reset()
	}

	st.running = true
	st.stop = make(chan struct{})

	if o.dir == sdrplug.DirectionRx {
		go producePump(st.ring, st.stop)
	} else {
		go consumePump(st.ring, st.stop, func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			st.running = false
		})
	}
	return nil
}

// Deactivate implements the sdrplug.StreamOps interface.
func (o streamOps) Deactivate(flags sdrplug.StreamFlags, timeNs int64) error {
	s := o.s
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.stateFor(o.dir)
	if !st.running {
		return nil
	}
	close(st.stop)
	st.running = false
	if o.dir == sdrplug.DirectionTx {
		st.ring.Reset()
	}
	return nil
}

// Active implements the sdrplug.StreamOps interface. A transmit pump
// that finished its burst has already wound down, so a completed burst
// reads inactive, the same as real hardware ending the transfer.
func (o streamOps) Active() bool {
	s := o.s
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateFor(o.dir).running
}

// Close implements the sdrplug.StreamOps interface.
func (o streamOps) Close() error {
	s := o.s
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.stateFor(o.dir)
	st.opened = false
	st.ring = nil
	return nil
}

// producePump stands in for a receive USB thread: one quiet buffer into
// the ring per tick.
func producePump(ring *sdrplug.Ring, stop chan struct{}) {
	buf := make([]byte, ring.MTU()*sdrplug.SampleFormatI8.Size())
	tick := time.NewTicker(pumpInterval)
	defer tick.Stop()
	for {
		select {
		case <-stop:
			return
		case <-tick.C:
			ring.Produce(buf)
		}
	}
}

// consumePump stands in for a transmit USB thread: one buffer out of the
// ring per tick, winding down once an armed burst drains. done runs on
// the burst-end exit so the device can mark the direction idle.
func consumePump(ring *sdrplug.Ring, stop chan struct{}, done func()) {
	buf := make([]byte, ring.MTU()*sdrplug.SampleFormatI8.Size())
	tick := time.NewTicker(pumpInterval)
	defer tick.Stop()
	for {
		select {
		case <-stop:
			return
		case <-tick.C:
			if ring.Consume(buf) {
				done()
				return
			}
		}
	}
}

// vim: foldmethod=marker
