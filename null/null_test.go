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

package null_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hz.tools/rf"
	"hz.tools/sdrplug"
	_ "hz.tools/sdrplug/null"
)

func makeNull(t *testing.T) sdrplug.Device {
	t.Helper()
	dev, err := sdrplug.Make(sdrplug.Kwargs{"driver": "null"})
	require.NoError(t, err)
	t.Cleanup(func() {
		sdrplug.Unmake(dev)
	})
	return dev
}

func TestNullEnumerates(t *testing.T) {
	found := sdrplug.Enumerate(sdrplug.Kwargs{"driver": "null"})
	require.Len(t, found, 1)
	assert.Equal(t, "null", found[0]["driver"])
	assert.Equal(t, "Null Device", found[0]["label"])

	// A blind sweep must not surface the null device.
	for _, kw := range sdrplug.Enumerate(sdrplug.Kwargs{}) {
		assert.NotEqual(t, "null", kw["driver"])
	}
}

func TestNullMakeShares(t *testing.T) {
	first, err := sdrplug.Make(sdrplug.Kwargs{"driver": "null"})
	require.NoError(t, err)
	second, err := sdrplug.Make(sdrplug.Kwargs{"driver": "null"})
	require.NoError(t, err)
	assert.Same(t, first, second)

	require.NoError(t, sdrplug.Unmake(second))
	require.NoError(t, sdrplug.Unmake(first))
	assert.Equal(t, sdrplug.ErrNotMade, sdrplug.Unmake(first))
}

func TestNullConfiguration(t *testing.T) {
	dev := makeNull(t)

	require.NoError(t, dev.SetSampleRate(sdrplug.DirectionRx, 0, 2.4e6))
	rate, err := dev.GetSampleRate(sdrplug.DirectionRx, 0)
	require.NoError(t, err)
	assert.Equal(t, 2.4e6, rate)

	require.NoError(t, dev.SetFrequency(sdrplug.DirectionRx, 0, rf.Hz(100e6), nil))
	freq, err := dev.GetFrequency(sdrplug.DirectionRx, 0)
	require.NoError(t, err)
	assert.Equal(t, rf.Hz(100e6), freq)

	require.NoError(t, dev.SetGain(sdrplug.DirectionRx, 0, 55))
	lna, err := dev.GetGainElement(sdrplug.DirectionRx, 0, "LNA")
	require.NoError(t, err)
	assert.Equal(t, 40.0, lna)
	vga, err := dev.GetGainElement(sdrplug.DirectionRx, 0, "VGA")
	require.NoError(t, err)
	assert.Equal(t, 15.0, vga)

	require.NoError(t, dev.SetFrequencyCorrection(sdrplug.DirectionRx, 0, 12))
	corr, err := dev.GetComponentFrequency(sdrplug.DirectionRx, 0, "CORR")
	require.NoError(t, err)
	assert.Equal(t, rf.Hz(12), corr)

	require.NoError(t, dev.WriteSetting("whatever", "42"))
	value, err := dev.ReadSetting("whatever")
	require.NoError(t, err)
	assert.Equal(t, "42", value)
}

func TestNullStreamValidation(t *testing.T) {
	dev := makeNull(t)

	_, err := dev.SetupStream(sdrplug.DirectionRx, sdrplug.FormatCS8, []int{0, 1}, nil)
	assert.Error(t, err)

	_, err = dev.SetupStream(sdrplug.DirectionRx, sdrplug.FormatCS8, []int{1}, nil)
	assert.Error(t, err)

	_, err = dev.SetupStream(sdrplug.DirectionRx, "CS4", []int{0}, nil)
	assert.Error(t, err)
}

func TestNullRxStream(t *testing.T) {
	dev := makeNull(t)

	stream, err := dev.SetupStream(sdrplug.DirectionRx, sdrplug.FormatCF32, []int{0},
		sdrplug.Kwargs{"buffers": "4", "bufflen": "2048"})
	require.NoError(t, err)
	assert.Equal(t, 1024, stream.MTU())

	// A second rx stream can't share the direction.
	_, err = dev.SetupStream(sdrplug.DirectionRx, sdrplug.FormatCF32, []int{0}, nil)
	assert.Error(t, err)

	require.NoError(t, stream.Activate(0, 0, 0))

	buf := make(sdrplug.SamplesC64, 256)
	total := 0
	for total < 1024 {
		n, _, _, err := stream.Read(buf, time.Second)
		if err == sdrplug.ErrOverflow {
			continue
		}
		require.NoError(t, err)
		total += n
		for i := 0; i < n; i++ {
			assert.Equal(t, complex64(0), buf[i])
		}
	}

	require.NoError(t, stream.Deactivate(0, 0))
	require.NoError(t, stream.Close())

	// The direction frees up on close.
	stream, err = dev.SetupStream(sdrplug.DirectionRx, sdrplug.FormatCF32, []int{0}, nil)
	require.NoError(t, err)
	require.NoError(t, stream.Close())
}

func TestNullTxBurst(t *testing.T) {
	dev := makeNull(t)

	stream, err := dev.SetupStream(sdrplug.DirectionTx, sdrplug.FormatCS8, []int{0},
		sdrplug.Kwargs{"buffers": "4", "bufflen": "64"})
	require.NoError(t, err)
	defer stream.Close()

	require.NoError(t, stream.Activate(0, 0, 0))

	burst := make(sdrplug.SamplesI8, 16)
	n, err := stream.Write(burst, sdrplug.FlagEndBurst, 0, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 16, n)

	// The software pump drains the burst without ever running dry,
	// then winds itself down: a completed burst leaves the stream
	// inactive, the way real hardware ends the transfer.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, sdrplug.ErrTimeout, stream.ReadStatus(time.Millisecond))
	assert.False(t, stream.Active())

	// A second burst reactivates through the same write path.
	n, err = stream.Write(burst, sdrplug.FlagEndBurst, 0, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 16, n)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, sdrplug.ErrTimeout, stream.ReadStatus(time.Millisecond))
}

// vim: foldmethod=marker
