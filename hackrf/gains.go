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
// #include <libhackrf/hackrf.h>
import "C"

import (
	"hz.tools/sdrplug"
)

// The HackRF receive chain runs antenna -> AMP -> LNA (IF) -> VGA
// (baseband); transmit runs VGA -> AMP -> antenna. The overall gain
// distribution fills LNA and VGA before ever switching the 14 dB amp in.

// ListGains implements the sdrplug.Device interface.
func (s *Sdr) ListGains(dir sdrplug.Direction, channel int) []string {
	if dir == sdrplug.DirectionRx {
		return []string{"LNA", "VGA", "AMP"}
	}
	return []string{"AMP", "VGA"}
}

// GainRange implements the sdrplug.Device interface.
func (s *Sdr) GainRange(dir sdrplug.Direction, channel int, name string) (sdrplug.Range, error) {
	switch {
	case name == "AMP":
		return sdrplug.Range{Min: 0, Max: 14, Step: 14}, nil
	case dir == sdrplug.DirectionRx && name == "LNA":
		return sdrplug.Range{Min: 0, Max: 40, Step: 8}, nil
	case dir == sdrplug.DirectionRx && name == "VGA":
		return sdrplug.Range{Min: 0, Max: 62, Step: 2}, nil
	case dir == sdrplug.DirectionTx && name == "VGA":
		return sdrplug.Range{Min: 0, Max: 47, Step: 1}, nil
	default:
		return sdrplug.Range{}, sdrplug.ErrNotSupported
	}
}

// SetGain implements the sdrplug.Device interface.
func (s *Sdr) SetGain(dir sdrplug.Direction, channel int, value float64) error {
	return sdrplug.DistributeGain(s, dir, channel, value)
}

// GetGain implements the sdrplug.Device interface.
func (s *Sdr) GetGain(dir sdrplug.Direction, channel int) (float64, error) {
	return sdrplug.SumGain(s, dir, channel)
}

// SetGainElement implements the sdrplug.Device interface.
func (s *Sdr) SetGainElement(dir sdrplug.Direction, channel int, name string, value float64) error {
	if _, err := s.GainRange(dir, channel, name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.stateFor(dir)
	switch {
	case name == "AMP":
		if err := s.setAmpLocked(value > 0); err != nil {
			return err
		}
		st.ampGain = value
	case dir == sdrplug.DirectionRx && name == "LNA":
		if err := rvToErr(C.hackrf_set_lna_gain(s.dev, C.uint32_t(value))); err != nil {
			return err
		}
		st.lnaGain = value
	case dir == sdrplug.DirectionRx && name == "VGA":
		if err := rvToErr(C.hackrf_set_vga_gain(s.dev, C.uint32_t(value))); err != nil {
			return err
		}
		st.vgaGain = value
	case dir == sdrplug.DirectionTx && name == "VGA":
		if err := rvToErr(C.hackrf_set_txvga_gain(s.dev, C.uint32_t(value))); err != nil {
			return err
		}
		st.vgaGain = value
	}
	return nil
}

// GetGainElement implements the sdrplug.Device interface.
func (s *Sdr) GetGainElement(dir sdrplug.Direction, channel int, name string) (float64, error) {
	if _, err := s.GainRange(dir, channel, name); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.stateFor(dir)
	switch name {
	case "AMP":
		return st.ampGain, nil
	case "LNA":
		return st.lnaGain, nil
	case "VGA":
		return st.vgaGain, nil
	}
	return 0, sdrplug.ErrNotSupported
}

// setAmpLocked flips the 14 dB front end amp. The enable is nonzero
// exactly when the cached amp gain is above zero; the caller holds the
// device mutex.
func (s *Sdr) setAmpLocked(on bool) error {
	var enable C.uint8_t
	if on {
		enable = 1
	}
	return rvToErr(C.hackrf_set_amp_enable(s.dev, enable))
}

// vim: foldmethod=marker
