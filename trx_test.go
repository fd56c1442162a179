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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hz.tools/sdrplug"
)

// fakeRadio is a scripted half-duplex driver: it records the calls the
// state machine makes and plays back a streaming state per probe.
type fakeRadio struct {
	calls []string

	streaming    []sdrplug.StreamingState
	burstPending int

	startRxErr error
	reopenErr  error
}

func (f *fakeRadio) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeRadio) StartRx() error {
	f.record("start-rx")
	return f.startRxErr
}

func (f *fakeRadio) StopRx() error {
	f.record("stop-rx")
	return nil
}

func (f *fakeRadio) StartTx() error {
	f.record("start-tx")
	return nil
}

func (f *fakeRadio) StopTx() error {
	f.record("stop-tx")
	return nil
}

func (f *fakeRadio) Streaming() sdrplug.StreamingState {
	if len(f.streaming) == 0 {
		return sdrplug.StreamingActive
	}
	st := f.streaming[0]
	f.streaming = f.streaming[1:]
	return st
}

func (f *fakeRadio) Reopen(dir sdrplug.Direction) error {
	f.record("reopen")
	return f.reopenErr
}

func (f *fakeRadio) ApplyPending(dir sdrplug.Direction) error {
	f.record("apply-" + dir.String())
	return nil
}

func (f *fakeRadio) BurstPending() bool {
	if f.burstPending > 0 {
		f.burstPending--
		return true
	}
	return false
}

func TestTrxOffToRx(t *testing.T) {
	radio := &fakeRadio{}
	trx := sdrplug.NewTrx(radio)

	assert.Equal(t, sdrplug.TrxOff, trx.Mode())
	require.NoError(t, trx.ActivateRx())
	assert.Equal(t, sdrplug.TrxRx, trx.Mode())
	assert.Equal(t, []string{"start-rx"}, radio.calls)

	// Activating the mode we're already in touches nothing.
	require.NoError(t, trx.ActivateRx())
	assert.Equal(t, []string{"start-rx"}, radio.calls)
}

// TestTrxHalfDuplexSwitch is the TX to RX handover: stop the transmit
// thread, reapply the receive tuner state, start the receive thread.
func TestTrxHalfDuplexSwitch(t *testing.T) {
	radio := &fakeRadio{}
	trx := sdrplug.NewTrx(radio)

	require.NoError(t, trx.ActivateTx())
	assert.Equal(t, sdrplug.TrxTx, trx.Mode())

	require.NoError(t, trx.ActivateRx())
	assert.Equal(t, sdrplug.TrxRx, trx.Mode())
	assert.Equal(t, []string{"start-tx", "stop-tx", "apply-RX", "start-rx"}, radio.calls)
}

// TestTrxBurstDrainsBeforeSwitch: a pending burst holds the direction
// change until the driver reports the transfer finished.
func TestTrxBurstDrainsBeforeSwitch(t *testing.T) {
	radio := &fakeRadio{burstPending: 3}
	trx := sdrplug.NewTrx(radio)

	require.NoError(t, trx.ActivateTx())
	require.NoError(t, trx.ActivateRx())
	assert.Equal(t, 0, radio.burstPending)
	assert.Equal(t, sdrplug.TrxRx, trx.Mode())
}

func TestTrxRxToTx(t *testing.T) {
	radio := &fakeRadio{}
	trx := sdrplug.NewTrx(radio)

	require.NoError(t, trx.ActivateRx())
	require.NoError(t, trx.ActivateTx())
	assert.Equal(t, sdrplug.TrxTx, trx.Mode())
	assert.Equal(t, []string{"start-rx", "stop-rx", "apply-TX", "start-tx"}, radio.calls)
}

func TestTrxDeactivate(t *testing.T) {
	radio := &fakeRadio{}
	trx := sdrplug.NewTrx(radio)

	require.NoError(t, trx.ActivateRx())
	require.NoError(t, trx.Deactivate(sdrplug.DirectionRx))
	assert.Equal(t, sdrplug.TrxOff, trx.Mode())

	// Deactivating a direction that isn't running is a no-op.
	require.NoError(t, trx.Deactivate(sdrplug.DirectionTx))
	require.NoError(t, trx.Deactivate(sdrplug.DirectionRx))
	assert.Equal(t, []string{"start-rx", "stop-rx"}, radio.calls)
}

// TestTrxRecovery: a driver reporting its streaming machinery wound down
// gets exactly one reopen and retry.
func TestTrxRecovery(t *testing.T) {
	radio := &fakeRadio{
		streaming: []sdrplug.StreamingState{
			sdrplug.StreamingExitCalled,
			sdrplug.StreamingActive,
		},
	}
	trx := sdrplug.NewTrx(radio)

	require.NoError(t, trx.ActivateRx())
	assert.Equal(t, sdrplug.TrxRx, trx.Mode())
	assert.Equal(t, []string{"start-rx", "reopen", "start-rx"}, radio.calls)
}

func TestTrxRecoveryFails(t *testing.T) {
	radio := &fakeRadio{
		streaming: []sdrplug.StreamingState{
			sdrplug.StreamingExitCalled,
			sdrplug.StreamingExitCalled,
		},
	}
	trx := sdrplug.NewTrx(radio)

	assert.Equal(t, sdrplug.ErrStream, trx.ActivateRx())
	assert.Equal(t, sdrplug.TrxOff, trx.Mode())
}

func TestTrxStartErrorSurfaces(t *testing.T) {
	radio := &fakeRadio{startRxErr: sdrplug.ErrStream}
	trx := sdrplug.NewTrx(radio)

	assert.Error(t, trx.ActivateRx())
	assert.Equal(t, sdrplug.TrxOff, trx.Mode())
}

// vim: foldmethod=marker
