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
// #include <stdlib.h>
// #include <libhackrf/hackrf.h>
import "C"

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/mattn/go-pointer"

	"hz.tools/rf"
	"hz.tools/sdrplug"
)

const (
	defaultBufNum = 15
	defaultBufLen = 262144
)

// streamState is one direction's half of the device: the ring, the client
// format, and the tuner values last requested for this direction. The
// caches are what the transceiver reapplies when the radio changes
// direction, and what recovery replays after a reopen.
type streamState struct {
	opened bool
	ring   *sdrplug.Ring
	format string

	frequency  uint64
	sampleRate float64
	bandwidth  uint32

	lnaGain float64
	vgaGain float64
	ampGain float64
	bias    bool
}

// Sdr is one opened HackRF. It implements the sdrplug.Device interface.
type Sdr struct {
	sdrplug.UnimplementedDevice

	// mu is the device mutex: it covers the native handle, the tuner
	// caches, and the transceiver state machine. The rings have their own
	// lock. Some paths (ring reset, burst arming, the burst-pending probe)
	// call into a ring while holding mu; the ring lock is never held while
	// taking mu.
	mu sync.Mutex

	dev    *C.hackrf_device
	serial string
	board  Board

	// token is the pinned back-reference the C callbacks use to find us;
	// it must stay alive until the handle closes.
	token unsafe.Pointer

	trx *sdrplug.Trx

	rx streamState
	tx streamState
}

func newSdr(dev *C.hackrf_device, serial string, board Board) *Sdr {
	s := &Sdr{
		dev:    dev,
		serial: serial,
		board:  board,
	}
	s.rx.lnaGain = 16
	s.rx.vgaGain = 16
	s.trx = sdrplug.NewTrx(s)
	s.token = pointer.Save(s)
	return s
}

// Driver implements the sdrplug.Device interface.
func (s *Sdr) Driver() string {
	return driverName
}

// Hardware implements the sdrplug.Device interface.
func (s *Sdr) Hardware() string {
	return s.board.String()
}

// HardwareInfo implements the sdrplug.Device interface.
func (s *Sdr) HardwareInfo() sdrplug.Kwargs {
	s.mu.Lock()
	defer s.mu.Unlock()

	kw := sdrplug.Kwargs{
		"serial": s.serial,
		"board":  s.board.String(),
	}

	var version [256]C.char
	if rvToErr(C.hackrf_version_string_read(s.dev, &version[0], 255)) == nil {
		kw["version"] = C.GoString(&version[0])
	}

	var partid C.read_partid_serialno_t
	if rvToErr(C.hackrf_board_partid_serialno_read(s.dev, &partid)) == nil {
		kw["part_id"] = fmt.Sprintf("%08x%08x",
			uint32(partid.part_id[0]), uint32(partid.part_id[1]))
	}
	return kw
}

// Close implements the sdrplug.Device interface. The native handle closes
// exactly once; the library session reference is dropped after it.
func (s *Sdr) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dev == nil {
		return fmt.Errorf("hackrf: device is already closed")
	}
	err := rvToErr(C.hackrf_close(s.dev))
	s.dev = nil
	pointer.Unref(s.token)
	s.token = nil
	if serr := session.Release(); err == nil {
		err = serr
	}
	return err
}

// NumChannels implements the sdrplug.Device interface.
func (s *Sdr) NumChannels(dir sdrplug.Direction) int {
	return 1
}

// StreamFormats implements the sdrplug.Device interface.
func (s *Sdr) StreamFormats(dir sdrplug.Direction, channel int) []string {
	return []string{
		sdrplug.FormatCS8,
		sdrplug.FormatCS16,
		sdrplug.FormatCF32,
		sdrplug.FormatCF64,
	}
}

// NativeStreamFormat implements the sdrplug.Device interface.
func (s *Sdr) NativeStreamFormat(dir sdrplug.Direction, channel int) (string, float64) {
	return sdrplug.FormatCS8, 127
}

// stateFor returns the stream state owning one direction.
func (s *Sdr) stateFor(dir sdrplug.Direction) *streamState {
	if dir == sdrplug.DirectionRx {
		return &s.rx
	}
	return &s.tx
}

// SetupStream implements the sdrplug.Device interface.
func (s *Sdr) SetupStream(dir sdrplug.Direction, format string, channels []int, args sdrplug.Kwargs) (*sdrplug.Stream, error) {
	if err := sdrplug.ValidateStreamSetup(s, dir, format, channels); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.stateFor(dir)
	if st.opened {
		return nil, fmt.Errorf("hackrf: %s stream is already open", dir)
	}

	bufNum := int(args.Uint("buffers", defaultBufNum))
	bufLen := int(args.Uint("bufflen", defaultBufLen))
	if bufNum <= 0 || bufLen <= 0 || bufLen%sdrplug.SampleFormatI8.Size() != 0 {
		return nil, fmt.Errorf("hackrf: bad ring geometry %dx%d", bufNum, bufLen)
	}

	st.ring = sdrplug.NewRing(bufNum, bufLen, sdrplug.SampleFormatI8.Size())
	st.format = format
	st.opened = true

	sf, err := sdrplug.ParseSampleFormat(format)
	if err != nil {
		return nil, err
	}

	var ops sdrplug.StreamOps
	if dir == sdrplug.DirectionRx {
		ops = rxOps{s}
	} else {
		ops = txOps{s}
	}
	return sdrplug.NewStream(ops, sdrplug.I8Converter{}, st.ring, dir, sf), nil
}

// SetFrequency implements the sdrplug.Device interface.
func (s *Sdr) SetFrequency(dir sdrplug.Direction, channel int, freq rf.Hz, args sdrplug.Kwargs) error {
	return sdrplug.SetCompositeFrequency(s, dir, channel, freq, args)
}

// GetFrequency implements the sdrplug.Device interface.
func (s *Sdr) GetFrequency(dir sdrplug.Direction, channel int) (rf.Hz, error) {
	return sdrplug.GetCompositeFrequency(s, dir, channel)
}

// ListFrequencies implements the sdrplug.Device interface.
func (s *Sdr) ListFrequencies(dir sdrplug.Direction, channel int) []string {
	return []string{"RF"}
}

// SetComponentFrequency implements the sdrplug.Device interface.
func (s *Sdr) SetComponentFrequency(dir sdrplug.Direction, channel int, name string, freq rf.Hz) error {
	if name != "RF" {
		return sdrplug.ErrNotSupported
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := rvToErr(C.hackrf_set_freq(s.dev, C.uint64_t(freq))); err != nil {
		return err
	}
	s.stateFor(dir).frequency = uint64(freq)
	return nil
}

// GetComponentFrequency implements the sdrplug.Device interface.
func (s *Sdr) GetComponentFrequency(dir sdrplug.Direction, channel int, name string) (rf.Hz, error) {
	if name != "RF" {
		return 0, sdrplug.ErrNotSupported
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return rf.Hz(s.stateFor(dir).frequency), nil
}

// SetSampleRate implements the sdrplug.Device interface.
func (s *Sdr) SetSampleRate(dir sdrplug.Direction, channel int, rate float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := rvToErr(C.hackrf_set_sample_rate(s.dev, C.double(rate))); err != nil {
		return err
	}
	st := s.stateFor(dir)
	st.sampleRate = rate

	// Unless the caller picked one, track the baseband filter the
	// firmware would pick for this rate.
	if st.bandwidth == 0 {
		bw := uint32(C.hackrf_compute_baseband_filter_bw_round_down_lt(C.uint32_t(rate)))
		if err := rvToErr(C.hackrf_set_baseband_filter_bandwidth(s.dev, C.uint32_t(bw))); err != nil {
			return err
		}
	}
	return nil
}

// GetSampleRate implements the sdrplug.Device interface.
func (s *Sdr) GetSampleRate(dir sdrplug.Direction, channel int) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateFor(dir).sampleRate, nil
}

// SetBandwidth implements the sdrplug.Device interface. The requested
// bandwidth is rounded down onto the discrete baseband filter ladder.
func (s *Sdr) SetBandwidth(dir sdrplug.Direction, channel int, bw rf.Hz) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ladder := uint32(C.hackrf_compute_baseband_filter_bw(C.uint32_t(bw)))
	if err := rvToErr(C.hackrf_set_baseband_filter_bandwidth(s.dev, C.uint32_t(ladder))); err != nil {
		return err
	}
	s.stateFor(dir).bandwidth = ladder
	return nil
}

// GetBandwidth implements the sdrplug.Device interface.
func (s *Sdr) GetBandwidth(dir sdrplug.Direction, channel int) (rf.Hz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return rf.Hz(s.stateFor(dir).bandwidth), nil
}

// ListAntennas implements the sdrplug.Device interface.
func (s *Sdr) ListAntennas(dir sdrplug.Direction, channel int) []string {
	return []string{"TX/RX"}
}

// SetAntenna implements the sdrplug.Device interface.
func (s *Sdr) SetAntenna(dir sdrplug.Direction, channel int, name string) error {
	if name != "TX/RX" {
		return sdrplug.ErrNotSupported
	}
	return nil
}

// GetAntenna implements the sdrplug.Device interface.
func (s *Sdr) GetAntenna(dir sdrplug.Direction, channel int) (string, error) {
	return "TX/RX", nil
}

// WriteSetting implements the sdrplug.Device interface. Recognized keys:
// "biastee" and "bias_tx", both steering the antenna port power.
func (s *Sdr) WriteSetting(key, value string) error {
	kw := sdrplug.Kwargs{key: value}
	switch key {
	case "biastee":
		return s.setBias(sdrplug.DirectionRx, kw.Bool(key, false))
	case "bias_tx":
		return s.setBias(sdrplug.DirectionTx, kw.Bool(key, false))
	default:
		return sdrplug.ErrNotSupported
	}
}

// ReadSetting implements the sdrplug.Device interface.
func (s *Sdr) ReadSetting(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch key {
	case "biastee":
		return fmt.Sprintf("%t", s.rx.bias), nil
	case "bias_tx":
		return fmt.Sprintf("%t", s.tx.bias), nil
	default:
		return "", sdrplug.ErrNotSupported
	}
}

func (s *Sdr) setBias(dir sdrplug.Direction, on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var enable C.uint8_t
	if on {
		enable = 1
	}
	if err := rvToErr(C.hackrf_set_antenna_enable(s.dev, enable)); err != nil {
		return err
	}
	s.stateFor(dir).bias = on
	return nil
}

// vim: foldmethod=marker
