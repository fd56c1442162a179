// {{{ Copyright (c) Paul R. Tagliamonte <paul@k3xec.com>, 2020
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

package rtl

// #cgo pkg-config: librtlsdr
//
// #include <rtl-sdr.h>
import "C"

import (
	"math"
	"unsafe"

	"hz.tools/sdrplug"
)

// ListGains implements the sdrplug.Device interface. The dongle exposes a
// single tuner gain element; the RTL2832U's own digital AGC is a setting,
// not a gain stage.
func (s *Sdr) ListGains(dir sdrplug.Direction, channel int) []string {
	if dir != sdrplug.DirectionRx {
		return nil
	}
	return []string{"TUNER"}
}

// tunerGains returns the tuner's supported gains, in dB.
func (s *Sdr) tunerGains() []float64 {
	count := int(C.rtlsdr_get_tuner_gains(s.handle, nil))
	if count <= 0 {
		return nil
	}
	raw := make([]C.int, count)
	count = int(C.rtlsdr_get_tuner_gains(s.handle, (*C.int)(unsafe.Pointer(&raw[0]))))
	if count <= 0 {
		return nil
	}

	gains := make([]float64, count)
	for i := 0; i < count; i++ {
		gains[i] = float64(raw[i]) / 10
	}
	return gains
}

// GainRange implements the sdrplug.Device interface.
func (s *Sdr) GainRange(dir sdrplug.Direction, channel int, name string) (sdrplug.Range, error) {
	if dir != sdrplug.DirectionRx || name != "TUNER" {
		return sdrplug.Range{}, sdrplug.ErrNotSupported
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	gains := s.tunerGains()
	if len(gains) == 0 {
		return sdrplug.Range{Min: 0, Max: 0}, nil
	}
	r := sdrplug.Range{Min: gains[0], Max: gains[len(gains)-1]}
	if len(gains) > 1 {
		r.Step = (r.Max - r.Min) / float64(len(gains)-1)
	}
	return r, nil
}

// SetGain implements the sdrplug.Device interface.
func (s *Sdr) SetGain(dir sdrplug.Direction, channel int, value float64) error {
	return sdrplug.DistributeGain(s, dir, channel, value)
}

// GetGain implements the sdrplug.Device interface.
func (s *Sdr) GetGain(dir sdrplug.Direction, channel int) (float64, error) {
	return sdrplug.SumGain(s, dir, channel)
}

// SetGainElement implements the sdrplug.Device interface. Setting the
// tuner gain switches the tuner to manual gain mode and snaps to the
// nearest gain the chip supports.
func (s *Sdr) SetGainElement(dir sdrplug.Direction, channel int, name string, value float64) error {
	if dir != sdrplug.DirectionRx || name != "TUNER" {
		return sdrplug.ErrNotSupported
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := rvToErr(C.rtlsdr_set_tuner_gain_mode(s.handle, 1)); err != nil {
		return err
	}

	nearest := value
	if gains := s.tunerGains(); len(gains) > 0 {
		nearest = gains[0]
		for _, g := range gains {
			if math.Abs(g-value) < math.Abs(nearest-value) {
				nearest = g
			}
		}
	}
	return rvToErr(C.rtlsdr_set_tuner_gain(s.handle, C.int(math.Round(nearest*10))))
}

// GetGainElement implements the sdrplug.Device interface.
func (s *Sdr) GetGainElement(dir sdrplug.Direction, channel int, name string) (float64, error) {
	if dir != sdrplug.DirectionRx || name != "TUNER" {
		return 0, sdrplug.ErrNotSupported
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return float64(C.rtlsdr_get_tuner_gain(s.handle)) / 10, nil
}

// vim: foldmethod=marker
