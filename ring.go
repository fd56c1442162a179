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
	"sync"
	"time"
)

// Ring is a fixed count of pre-allocated byte buffers shared between
// exactly two parties: a driver owned callback on one side, and the client
// owned read or write path on the other. On receive the driver produces and
// the client consumes; on transmit the client produces and the driver
// consumes.
//
// The client cursor is head, the driver cursor is tail, for both
// directions. For an unbroken sequence, head = (tail - count) mod n holds
// on receive, where the driver fills ahead of the client, and
// head = (tail + count) mod n on transmit, where the client fills ahead.
// A single mutex protects the cursors and the overflow/underflow flags, and
// one condition variable signals count changes.
//
// Buffers are allocated once, by NewRing, and never reallocated while a
// stream is active. Acquired buffers are handed to the caller as raw slices
// into the ring; the handle stays valid until released.
type Ring struct {
	mu   sync.Mutex
	cond *sync.Cond

	bufs [][]byte
	lens []int

	head  int
	tail  int
	count int

	bytesPerSample int

	overflow   bool
	underflow  bool
	burstEnd   bool
	burstSamps int
}

// NewRing allocates a ring of bufNum buffers of bufLen bytes each.
// bytesPerSample is the size of one interleaved complex sample as the
// hardware lays it out, and is only used to convert byte lengths to sample
// counts at the API boundary.
func NewRing(bufNum, bufLen, bytesPerSample int) *Ring {
	r := &Ring{
		bufs:           make([][]byte, bufNum),
		lens:           make([]int, bufNum),
		bytesPerSample: bytesPerSample,
	}
	for i := range r.bufs {
		r.bufs[i] = make([]byte, bufLen)
	}
	r.cond = sync.NewCond(&r.mu)
	return r
}

// MTU returns the size of one ring buffer in complex samples. This is the
// most a single read or write call can move.
func (r *Ring) MTU() int {
	return len(r.bufs[0]) / r.bytesPerSample
}

// Count returns the number of filled, unreleased buffers.
func (r *Ring) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Reset rewinds the cursors and clears the flags. Called before the driver
// stream is (re)started; never while one is running.
func (r *Ring) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.head = 0
	r.tail = 0
	r.count = 0
	r.overflow = false
	r.underflow = false
	r.burstEnd = false
	r.burstSamps = 0
}

// SetBurst arms the transmit burst countdown: after numElems samples have
// been handed to the driver, Consume returns the end-of-transfer sentinel.
func (r *Ring) SetBurst(numElems int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.burstEnd = true
	r.burstSamps = numElems
}

// BurstPending reports whether an armed burst has not yet fully drained.
func (r *Ring) BurstPending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.burstEnd
}

// TakeUnderflow reports whether the driver ran the ring dry since the last
// call, clearing the flag.
func (r *Ring) TakeUnderflow() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.underflow
	r.underflow = false
	return u
}

// waitLocked blocks on the ring condition until pred returns true or the
// timeout elapses; the caller must hold the mutex. A zero or negative
// timeout checks once and returns.
func (r *Ring) waitLocked(timeout time.Duration, pred func() bool) bool {
	if pred() {
		return true
	}
	if timeout <= 0 {
		return false
	}
	deadline := time.Now().Add(timeout)
	timer := time.AfterFunc(timeout, r.cond.Broadcast)
	defer timer.Stop()
	for !pred() {
		if !time.Now().Before(deadline) {
			return false
		}
		r.cond.Wait()
	}
	return true
}

// AcquireRead blocks until the driver has filled at least one buffer, then
// hands it out. The handle stays valid, and the slice stays stable, until
// ReleaseRead.
//
// A pending overflow is reported exactly once: the first acquire after the
// drop clears the flag and returns ErrOverflow without consuming samples.
func (r *Ring) AcquireRead(timeout time.Duration) (int, []byte, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ok := r.waitLocked(timeout, func() bool {
		return r.count > 0 || r.overflow
	})
	if r.overflow {
		r.overflow = false
		return -1, nil, 0, ErrOverflow
	}
	if !ok {
		return -1, nil, 0, ErrTimeout
	}

	handle := r.head
	r.head = (r.head + 1) % len(r.bufs)
	return handle, r.bufs[handle], r.lens[handle] / r.bytesPerSample, nil
}

// ReleaseRead returns a buffer acquired by AcquireRead to the ring.
func (r *Ring) ReleaseRead(handle int) {
	if handle < 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.count--
	r.cond.Broadcast()
}

// AcquireWrite blocks until the ring has room, then hands out an empty
// buffer of MTU samples for the client to fill.
func (r *Ring) AcquireWrite(timeout time.Duration) (int, []byte, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ok := r.waitLocked(timeout, func() bool {
		return r.count < len(r.bufs)
	})
	if !ok {
		return -1, nil, 0, ErrTimeout
	}

	handle := r.head
	r.head = (r.head + 1) % len(r.bufs)
	return handle, r.bufs[handle], r.MTU(), nil
}

// ReleaseWrite commits a buffer acquired by AcquireWrite, carrying
// numElems samples, making it visible to the driver callback. The flags
// and time ride along for drivers that can use them; the stock consume
// path can not, and ignores both.
func (r *Ring) ReleaseWrite(handle, numElems int, flags StreamFlags, timeNs int64) {
	if handle < 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lens[handle] = numElems * r.bytesPerSample
	r.count++
	r.cond.Broadcast()
}

// Produce is the receive callback path: it copies one hardware transfer
// into the ring. When the ring is full the oldest unread buffer is dropped
// and the overflow flag raised; the drop costs one buffer, the flag is
// reported once per overflow epoch.
func (r *Ring) Produce(src []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tail := (r.head + r.count) % len(r.bufs)
	n := copy(r.bufs[tail], src)
	r.lens[tail] = n
	r.tail = (tail + 1) % len(r.bufs)

	if r.count == len(r.bufs) {
		r.overflow = true
		r.head = (r.head + 1) % len(r.bufs)
	} else {
		r.count++
	}
	r.cond.Broadcast()
}

// Consume is the transmit callback path: it fills one hardware transfer
// from the ring. When the ring is empty the transfer is zero filled and the
// underflow flag raised. The return value is true when an armed burst has
// fully drained, which the driver callback must translate into its
// end-of-transfer sentinel.
func (r *Ring) Consume(dst []byte) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.count == 0 {
		for i := range dst {
			dst[i] = 0
		}
		r.underflow = true
	} else {
		n := copy(dst, r.bufs[r.tail])
		for i := n; i < len(dst); i++ {
			dst[i] = 0
		}
		r.tail = (r.tail + 1) % len(r.bufs)
		r.count--
	}

	var end bool
	if r.burstEnd {
		r.burstSamps -= len(dst) / r.bytesPerSample
		if r.burstSamps <= 0 {
			r.burstEnd = false
			r.burstSamps = 0
			end = true
		}
	}
	r.cond.Broadcast()
	return end
}

// vim: foldmethod=marker
