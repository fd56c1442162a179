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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hz.tools/sdrplug"
)

// fakeOps is a driverless StreamOps: it arms bursts the way a transmit
// driver would, counts calls, and owns the liveness the stream reads
// back through Active.
type fakeOps struct {
	ring *sdrplug.Ring

	active        bool
	activations   int
	deactivations int
	closes        int
	burstElems    int

	activateErr error
}

func (f *fakeOps) Activate(flags sdrplug.StreamFlags, timeNs int64, numElems int) error {
	if f.activateErr != nil {
		return f.activateErr
	}
	f.activations++
	f.active = true
	if flags&sdrplug.FlagEndBurst != 0 && numElems > 0 {
		f.burstElems = numElems
		f.ring.SetBurst(numElems)
	}
	return nil
}

func (f *fakeOps) Deactivate(flags sdrplug.StreamFlags, timeNs int64) error {
	f.deactivations++
	f.active = false
	return nil
}

func (f *fakeOps) Active() bool {
	return f.active
}

func (f *fakeOps) Close() error {
	f.closes++
	return nil
}

func newRxStream(t *testing.T, bufNum, bufLen int) (*sdrplug.Stream, *sdrplug.Ring, *fakeOps) {
	t.Helper()
	ring := sdrplug.NewRing(bufNum, bufLen, 2)
	ops := &fakeOps{ring: ring}
	stream := sdrplug.NewStream(ops, sdrplug.I8Converter{}, ring, sdrplug.DirectionRx, sdrplug.SampleFormatI8)
	return stream, ring, ops
}

func newTxStream(t *testing.T, bufNum, bufLen int) (*sdrplug.Stream, *sdrplug.Ring, *fakeOps) {
	t.Helper()
	ring := sdrplug.NewRing(bufNum, bufLen, 2)
	ops := &fakeOps{ring: ring}
	stream := sdrplug.NewStream(ops, sdrplug.I8Converter{}, ring, sdrplug.DirectionTx, sdrplug.SampleFormatI8)
	return stream, ring, ops
}

func ramp(n int) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte(i)
	}
	return buf
}

func TestStreamMTU(t *testing.T) {
	stream, _, _ := newRxStream(t, 3, 1024)
	assert.Equal(t, 512, stream.MTU())
}

func TestStreamLifecycle(t *testing.T) {
	stream, _, ops := newRxStream(t, 3, 64)

	assert.Equal(t, sdrplug.ErrStreamActive, stream.Deactivate(0, 0))
	require.NoError(t, stream.Activate(0, 0, 0))
	assert.Equal(t, sdrplug.ErrStreamActive, stream.Activate(0, 0, 0))
	require.NoError(t, stream.Deactivate(0, 0))
	require.NoError(t, stream.Activate(0, 0, 0))

	// Close auto-deactivates.
	require.NoError(t, stream.Close())
	assert.Equal(t, 2, ops.deactivations)
	assert.Equal(t, 1, ops.closes)

	assert.Equal(t, sdrplug.ErrStreamClosed, stream.Close())
	assert.Equal(t, sdrplug.ErrStreamClosed, stream.Activate(0, 0, 0))
	_, _, _, err := stream.Read(make(sdrplug.SamplesI8, 16), 0)
	assert.Equal(t, sdrplug.ErrStreamClosed, err)
}

func TestStreamReadWholeBuffer(t *testing.T) {
	stream, ring, _ := newRxStream(t, 3, 64)
	require.NoError(t, stream.Activate(0, 0, 0))

	ring.Produce(ramp(64))

	buf := make(sdrplug.SamplesI8, 32)
	n, flags, _, err := stream.Read(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, 32, n)
	assert.Equal(t, sdrplug.StreamFlags(0), flags)
	assert.Equal(t, [2]int8{0, 1}, buf[0])
	assert.Equal(t, [2]int8{62, 63}, buf[31])
	assert.Equal(t, 0, ring.Count())
}

// TestStreamReadRemainder covers the carry-over cursor: a client reading
// in chunks smaller than the hardware transfer gets the rest of the same
// buffer on the next call, and the ring slot is only released once
// drained.
func TestStreamReadRemainder(t *testing.T) {
	stream, ring, _ := newRxStream(t, 3, 64)
	require.NoError(t, stream.Activate(0, 0, 0))

	ring.Produce(ramp(64))

	buf := make(sdrplug.SamplesI8, 12)
	n, _, _, err := stream.Read(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, 12, n)
	assert.Equal(t, [2]int8{0, 1}, buf[0])
	assert.Equal(t, 1, ring.Count())

	n, _, _, err = stream.Read(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, 12, n)
	assert.Equal(t, [2]int8{24, 25}, buf[0])

	n, _, _, err = stream.Read(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, [2]int8{48, 49}, buf[0])
	assert.Equal(t, 0, ring.Count())

	// Fully drained: a fresh acquire now times out.
	_, _, _, err = stream.Read(buf, 0)
	assert.Equal(t, sdrplug.ErrTimeout, err)
}

// TestStreamReadRemainderThenTimeout: samples already served from the
// remainder are returned with success even when the fresh acquire times
// out.
func TestStreamReadRemainderThenTimeout(t *testing.T) {
	stream, ring, _ := newRxStream(t, 3, 64)
	require.NoError(t, stream.Activate(0, 0, 0))

	ring.Produce(ramp(16))

	buf := make(sdrplug.SamplesI8, 6)
	n, _, _, err := stream.Read(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	big := make(sdrplug.SamplesI8, 6)
	n, _, _, err = stream.Read(big, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestStreamReadOverflow(t *testing.T) {
	stream, ring, _ := newRxStream(t, 2, 16)
	require.NoError(t, stream.Activate(0, 0, 0))

	for i := 0; i < 3; i++ {
		ring.Produce(ramp(16))
	}

	buf := make(sdrplug.SamplesI8, 8)
	n, flags, _, err := stream.Read(buf, 0)
	assert.Equal(t, sdrplug.ErrOverflow, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, sdrplug.FlagEndAbrupt, flags)

	// The stream stays usable; the survivors read out.
	n, _, _, err = stream.Read(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, 8, n)
}

func TestStreamReadClampsToMTU(t *testing.T) {
	stream, ring, _ := newRxStream(t, 3, 16)
	require.NoError(t, stream.Activate(0, 0, 0))

	ring.Produce(ramp(16))
	ring.Produce(ramp(16))

	buf := make(sdrplug.SamplesI8, 64)
	n, _, _, err := stream.Read(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, stream.MTU(), n)
}

func TestStreamReadFormatMismatch(t *testing.T) {
	stream, _, _ := newRxStream(t, 3, 16)
	_, _, _, err := stream.Read(make(sdrplug.SamplesC64, 4), 0)
	assert.Equal(t, sdrplug.ErrSampleFormatMismatch, err)
}

// TestStreamWriteBurst is the short burst: half an MTU with the burst
// flag lands zero padded in the ring, and the consume path reports the
// end of the transfer after delivering it.
func TestStreamWriteBurst(t *testing.T) {
	stream, ring, ops := newTxStream(t, 3, 16)
	require.NoError(t, stream.Activate(0, 0, 0))
	// Armed but not started: no burst parameters yet.
	assert.Equal(t, 1, ops.activations)

	src := make(sdrplug.SamplesI8, 4)
	for i := range src {
		src[i] = [2]int8{int8(i + 1), int8(-i - 1)}
	}
	n, err := stream.Write(src, sdrplug.FlagEndBurst, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, 4, ops.burstElems)

	dst := make([]byte, 16)
	assert.True(t, ring.Consume(dst))
	assert.Equal(t, []byte{1, 0xFF, 2, 0xFE, 3, 0xFD, 4, 0xFC, 0, 0, 0, 0, 0, 0, 0, 0}, dst)
}

func TestStreamWriteFillsRing(t *testing.T) {
	stream, ring, _ := newTxStream(t, 2, 16)
	require.NoError(t, stream.Activate(0, 0, 0))

	src := make(sdrplug.SamplesI8, 8)
	for i := 0; i < 2; i++ {
		n, err := stream.Write(src, 0, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, 8, n)
	}
	assert.Equal(t, 2, ring.Count())

	// Ring full: the next write times out.
	_, err := stream.Write(src, 0, 0, 0)
	assert.Equal(t, sdrplug.ErrTimeout, err)
}

func TestStreamReadStatus(t *testing.T) {
	rxStream, _, _ := newRxStream(t, 2, 16)
	assert.Equal(t, sdrplug.ErrNotSupported, rxStream.ReadStatus(0))

	stream, ring, _ := newTxStream(t, 2, 16)
	require.NoError(t, stream.Activate(0, 0, 0))

	assert.Equal(t, sdrplug.ErrTimeout, stream.ReadStatus(0))

	ring.Consume(make([]byte, 16))
	assert.Equal(t, sdrplug.ErrUnderflow, stream.ReadStatus(10*time.Millisecond))
	assert.Equal(t, sdrplug.ErrTimeout, stream.ReadStatus(time.Millisecond))
}

func TestStreamDirectAccess(t *testing.T) {
	stream, ring, _ := newRxStream(t, 3, 16)
	require.NoError(t, stream.Activate(0, 0, 0))

	ring.Produce(ramp(16))

	handle, buf, samps, flags, err := stream.AcquireReadBuffer(0)
	require.NoError(t, err)
	assert.Equal(t, 8, samps)
	assert.Equal(t, sdrplug.StreamFlags(0), flags)
	assert.Equal(t, ramp(16), buf)
	stream.ReleaseReadBuffer(handle)

	wHandle, wBuf, mtu, err := stream.AcquireWriteBuffer(0)
	require.NoError(t, err)
	assert.Equal(t, 8, mtu)
	copy(wBuf, ramp(16))
	stream.ReleaseWriteBuffer(wHandle, 8, 0, 0)
}

// duplexRig wires two streams over one shared transceiver state machine,
// the way the hackrf driver does: each direction's liveness is read off
// the Trx mode, and activating one direction takes the radio from the
// other.
type duplexRig struct {
	trx    *sdrplug.Trx
	rxRing *sdrplug.Ring
	txRing *sdrplug.Ring
}

type duplexRxOps struct {
	rig *duplexRig
}

func (o duplexRxOps) Activate(flags sdrplug.StreamFlags, timeNs int64, numElems int) error {
	if o.rig.trx.Mode() != sdrplug.TrxRx {
		o.rig.rxRing.Reset()
	}
	return o.rig.trx.ActivateRx()
}

func (o duplexRxOps) Deactivate(flags sdrplug.StreamFlags, timeNs int64) error {
	return o.rig.trx.Deactivate(sdrplug.DirectionRx)
}

func (o duplexRxOps) Active() bool {
	return o.rig.trx.Mode() == sdrplug.TrxRx
}

func (o duplexRxOps) Close() error {
	return nil
}

type duplexTxOps struct {
	rig *duplexRig
}

func (o duplexTxOps) Activate(flags sdrplug.StreamFlags, timeNs int64, numElems int) error {
	if flags&sdrplug.FlagEndBurst == 0 || numElems == 0 {
		return nil
	}
	o.rig.txRing.SetBurst(numElems)
	return o.rig.trx.ActivateTx()
}

func (o duplexTxOps) Deactivate(flags sdrplug.StreamFlags, timeNs int64) error {
	return o.rig.trx.Deactivate(sdrplug.DirectionTx)
}

func (o duplexTxOps) Active() bool {
	return o.rig.trx.Mode() == sdrplug.TrxTx
}

func (o duplexTxOps) Close() error {
	return nil
}

// TestStreamHalfDuplexReactivate drives repeated direction switches
// through the public Stream API over one shared transceiver: activating
// receive steals the radio from the transmit stream, which must then
// read inactive and reactivate cleanly -- and back again.
func TestStreamHalfDuplexReactivate(t *testing.T) {
	radio := &fakeRadio{}
	rig := &duplexRig{
		trx:    sdrplug.NewTrx(radio),
		rxRing: sdrplug.NewRing(3, 16, 2),
		txRing: sdrplug.NewRing(3, 16, 2),
	}
	rxStream := sdrplug.NewStream(duplexRxOps{rig}, sdrplug.I8Converter{},
		rig.rxRing, sdrplug.DirectionRx, sdrplug.SampleFormatI8)
	txStream := sdrplug.NewStream(duplexTxOps{rig}, sdrplug.I8Converter{},
		rig.txRing, sdrplug.DirectionTx, sdrplug.SampleFormatI8)

	require.NoError(t, txStream.Activate(sdrplug.FlagEndBurst, 0, 8))
	assert.True(t, txStream.Active())
	assert.False(t, rxStream.Active())

	// The receive side takes the radio; the transmit stream reads
	// inactive from here on.
	require.NoError(t, rxStream.Activate(0, 0, 0))
	assert.True(t, rxStream.Active())
	assert.False(t, txStream.Active())

	// The mirror transition: the stolen-from stream reactivates.
	require.NoError(t, txStream.Activate(sdrplug.FlagEndBurst, 0, 8))
	assert.True(t, txStream.Active())
	assert.False(t, rxStream.Active())

	// And once more back to receive.
	require.NoError(t, rxStream.Activate(0, 0, 0))
	assert.True(t, rxStream.Active())

	assert.Equal(t, []string{
		"start-tx",
		"stop-tx", "apply-RX", "start-rx",
		"stop-rx", "apply-TX", "start-tx",
		"stop-tx", "apply-RX", "start-rx",
	}, radio.calls)

	// Lifecycle errors still hold at the stream level: the direction
	// that owns the radio can't activate twice, and the one that lost
	// it can't deactivate.
	assert.Equal(t, sdrplug.ErrStreamActive, rxStream.Activate(0, 0, 0))
	assert.Equal(t, sdrplug.ErrStreamActive, txStream.Deactivate(0, 0))

	require.NoError(t, rxStream.Deactivate(0, 0))
	assert.False(t, rxStream.Active())
}

func TestStreamActivateError(t *testing.T) {
	ring := sdrplug.NewRing(2, 16, 2)
	ops := &fakeOps{ring: ring, activateErr: sdrplug.ErrStream}
	stream := sdrplug.NewStream(ops, sdrplug.I8Converter{}, ring, sdrplug.DirectionRx, sdrplug.SampleFormatI8)

	assert.Equal(t, sdrplug.ErrStream, stream.Activate(0, 0, 0))

	// The failure leaves the stream inactive and reusable.
	ops.activateErr = nil
	assert.NoError(t, stream.Activate(0, 0, 0))
}

// vim: foldmethod=marker
