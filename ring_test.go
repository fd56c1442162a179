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

package sdrplug_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hz.tools/sdrplug"
)

func fill(n int, v byte) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = v
	}
	return buf
}

func TestRingMTU(t *testing.T) {
	ring := sdrplug.NewRing(3, 1024, 2)
	assert.Equal(t, 512, ring.MTU())

	ring = sdrplug.NewRing(3, 1024, 8)
	assert.Equal(t, 128, ring.MTU())
}

func TestRingProduceAcquire(t *testing.T) {
	ring := sdrplug.NewRing(3, 8, 2)

	ring.Produce(fill(8, 0xAA))
	assert.Equal(t, 1, ring.Count())

	handle, buf, samps, err := ring.AcquireRead(0)
	require.NoError(t, err)
	assert.Equal(t, 4, samps)
	assert.Equal(t, fill(8, 0xAA), buf)
	ring.ReleaseRead(handle)
	assert.Equal(t, 0, ring.Count())
}

func TestRingShortTransfer(t *testing.T) {
	ring := sdrplug.NewRing(3, 8, 2)

	// A short USB transfer stores a short length; the acquire reports
	// the samples that actually arrived.
	ring.Produce(fill(4, 0xBB))
	handle, _, samps, err := ring.AcquireRead(0)
	require.NoError(t, err)
	assert.Equal(t, 2, samps)
	ring.ReleaseRead(handle)
}

func TestRingAcquireTimeout(t *testing.T) {
	ring := sdrplug.NewRing(3, 8, 2)

	_, _, _, err := ring.AcquireRead(0)
	assert.Equal(t, sdrplug.ErrTimeout, err)

	start := time.Now()
	_, _, _, err = ring.AcquireRead(20 * time.Millisecond)
	assert.Equal(t, sdrplug.ErrTimeout, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestRingAcquireWakesOnProduce(t *testing.T) {
	ring := sdrplug.NewRing(3, 8, 2)

	go func() {
		time.Sleep(5 * time.Millisecond)
		ring.Produce(fill(8, 0x11))
	}()

	handle, _, samps, err := ring.AcquireRead(time.Second)
	require.NoError(t, err)
	assert.Equal(t, 4, samps)
	ring.ReleaseRead(handle)
}

// TestRingOverflowEpoch is the dropped-buffer scenario: with 3 slots, a
// producer that runs 4 buffers ahead drops the oldest, the next acquire
// reports the overflow exactly once, and the survivors come out in FIFO
// order.
func TestRingOverflowEpoch(t *testing.T) {
	ring := sdrplug.NewRing(3, 8, 2)

	for i := byte(1); i <= 4; i++ {
		ring.Produce(fill(8, i))
	}

	_, _, _, err := ring.AcquireRead(0)
	assert.Equal(t, sdrplug.ErrOverflow, err)

	// One overflow per epoch, not one per dropped buffer.
	for _, want := range []byte{2, 3, 4} {
		handle, buf, samps, err := ring.AcquireRead(0)
		require.NoError(t, err)
		assert.Equal(t, 4, samps)
		assert.Equal(t, fill(8, want), buf)
		ring.ReleaseRead(handle)
	}

	_, _, _, err = ring.AcquireRead(0)
	assert.Equal(t, sdrplug.ErrTimeout, err)
}

func TestRingWritePath(t *testing.T) {
	ring := sdrplug.NewRing(2, 8, 2)

	handle, buf, mtu, err := ring.AcquireWrite(0)
	require.NoError(t, err)
	assert.Equal(t, 4, mtu)
	copy(buf, fill(8, 0x5A))
	ring.ReleaseWrite(handle, 4, 0, 0)

	dst := make([]byte, 8)
	assert.False(t, ring.Consume(dst))
	assert.Equal(t, fill(8, 0x5A), dst)
	assert.Equal(t, 0, ring.Count())
}

func TestRingUnderflow(t *testing.T) {
	ring := sdrplug.NewRing(2, 8, 2)

	dst := fill(8, 0xFF)
	assert.False(t, ring.Consume(dst))
	assert.Equal(t, make([]byte, 8), dst)
	assert.True(t, ring.TakeUnderflow())
	assert.False(t, ring.TakeUnderflow())
}

// TestRingBurst covers the bounded transmission: with a burst half the
// MTU, the first consume delivers it and reports the end of the transfer.
func TestRingBurst(t *testing.T) {
	ring := sdrplug.NewRing(3, 8, 2)
	ring.SetBurst(2)
	assert.True(t, ring.BurstPending())

	handle, buf, _, err := ring.AcquireWrite(0)
	require.NoError(t, err)
	copy(buf, []byte{1, 2, 3, 4, 0, 0, 0, 0})
	ring.ReleaseWrite(handle, 2, sdrplug.FlagEndBurst, 0)

	dst := make([]byte, 8)
	assert.True(t, ring.Consume(dst))
	assert.Equal(t, []byte{1, 2, 3, 4, 0, 0, 0, 0}, dst)
	assert.False(t, ring.BurstPending())
}

func TestRingWriteBlocksWhenFull(t *testing.T) {
	ring := sdrplug.NewRing(2, 8, 2)

	for i := 0; i < 2; i++ {
		handle, _, _, err := ring.AcquireWrite(0)
		require.NoError(t, err)
		ring.ReleaseWrite(handle, 4, 0, 0)
	}

	_, _, _, err := ring.AcquireWrite(0)
	assert.Equal(t, sdrplug.ErrTimeout, err)

	// Space opens up as soon as the consumer side drains one.
	go func() {
		time.Sleep(5 * time.Millisecond)
		ring.Consume(make([]byte, 8))
	}()
	handle, _, _, err := ring.AcquireWrite(time.Second)
	require.NoError(t, err)
	ring.ReleaseWrite(handle, 4, 0, 0)
}

// TestRingConcurrent races a producer against a consumer and checks the
// count invariant holds at every observation point.
func TestRingConcurrent(t *testing.T) {
	const (
		bufNum = 4
		rounds = 2000
	)
	ring := sdrplug.NewRing(bufNum, 16, 2)

	var (
		wg       sync.WaitGroup
		consumed int
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		src := fill(16, 0x22)
		for i := 0; i < rounds; i++ {
			ring.Produce(src)
			count := ring.Count()
			assert.GreaterOrEqual(t, count, 0)
			assert.LessOrEqual(t, count, bufNum)
		}
	}()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		handle, _, _, err := ring.AcquireRead(time.Millisecond)
		if err == sdrplug.ErrOverflow {
			continue
		} else if err != nil {
			break
		}
		ring.ReleaseRead(handle)
		consumed++

		count := ring.Count()
		assert.GreaterOrEqual(t, count, 0)
		assert.LessOrEqual(t, count, bufNum)
	}

	wg.Wait()
	assert.Greater(t, consumed, 0)
	assert.LessOrEqual(t, consumed, rounds)
}

// vim: foldmethod=marker
