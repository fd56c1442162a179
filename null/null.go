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

// Package null is the built-in software device: no hardware, no samples
// worth hearing, but the full configuration and streaming surface. It
// exists so the factory always has something to hand out, and so the
// generic machinery can be exercised without a radio on the bench.
package null

import (
	"fmt"
	"sync"

	"hz.tools/rf"
	"hz.tools/sdrplug"
)

const driverName = "null"

func init() {
	sdrplug.MustRegister(sdrplug.Driver{
		Name: driverName,
		Find: find,
		Make: makeDevice,
	})
}

func find(args sdrplug.Kwargs) []sdrplug.Kwargs {
	// The null device only enumerates when asked for by name; it must
	// never shadow real hardware in a blind sweep.
	if args["driver"] != driverName && args["type"] != driverName {
		return nil
	}
	serial := args["serial"]
	if serial == "" {
		serial = "0"
	}
	return []sdrplug.Kwargs{{
		"type":   driverName,
		"serial": serial,
		"label":  "Null Device",
	}}
}

func makeDevice(args sdrplug.Kwargs) (sdrplug.Device, error) {
	s := &Sdr{
		serial: args["serial"],
	}
	for _, dir := range []sdrplug.Direction{sdrplug.DirectionRx, sdrplug.DirectionTx} {
		st := s.stateFor(dir)
		st.components = map[string]rf.Hz{"RF": 0, "CORR": 0}
		st.gains = map[string]float64{}
	}
	return s, nil
}

// dirState is one direction's configuration and streaming state.
type dirState struct {
	opened  bool
	ring    *sdrplug.Ring
	running bool
	stop    chan struct{}

	components map[string]rf.Hz
	gains      map[string]float64
	sampleRate float64
	bandwidth  rf.Hz
	antenna    string
}

// Sdr is the null device. It implements the sdrplug.Device interface.
type Sdr struct {
	sdrplug.UnimplementedDevice

	mu sync.Mutex

	serial string
	closed bool

	rx dirState
	tx dirState

	settings sync.Map
}

func (s *Sdr) stateFor(dir sdrplug.Direction) *dirState {
	if dir == sdrplug.DirectionRx {
		return &s.rx
	}
	return &s.tx
}

// Driver implements the sdrplug.Device interface.
func (s *Sdr) Driver() string {
	return driverName
}

// Hardware implements the sdrplug.Device interface.
func (s *Sdr) Hardware() string {
	return "Null Device"
}

// HardwareInfo implements the sdrplug.Device interface.
func (s *Sdr) HardwareInfo() sdrplug.Kwargs {
	return sdrplug.Kwargs{
		"serial": s.serial,
		"origin": "hz.tools/sdrplug",
	}
}

// Close implements the sdrplug.Device interface.
func (s *Sdr) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("null: device is already closed")
	}
	for _, st := range []*dirState{&s.rx, &s.tx} {
		if st.running {
			close(st.stop)
			st.running = false
		}
	}
	s.closed = true
	return nil
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
	return []string{"RF", "CORR"}
}

// SetComponentFrequency implements the sdrplug.Device interface.
func (s *Sdr) SetComponentFrequency(dir sdrplug.Direction, channel int, name string, freq rf.Hz) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.stateFor(dir)
	if _, ok := st.components[name]; !ok {
		return sdrplug.ErrNotSupported
	}
	st.components[name] = freq
	return nil
}

// GetComponentFrequency implements the sdrplug.Device interface.
func (s *Sdr) GetComponentFrequency(dir sdrplug.Direction, channel int, name string) (rf.Hz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.stateFor(dir)
	freq, ok := st.components[name]
	if !ok {
		return 0, sdrplug.ErrNotSupported
	}
	return freq, nil
}

// SetFrequencyCorrection implements the sdrplug.Device interface.
func (s *Sdr) SetFrequencyCorrection(dir sdrplug.Direction, channel int, ppm float64) error {
	return sdrplug.SetCorrectionByComponent(s, dir, channel, ppm)
}

// SetSampleRate implements the sdrplug.Device interface.
func (s *Sdr) SetSampleRate(dir sdrplug.Direction, channel int, rate float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stateFor(dir).sampleRate = rate
	return nil
}

// GetSampleRate implements the sdrplug.Device interface.
func (s *Sdr) GetSampleRate(dir sdrplug.Direction, channel int) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateFor(dir).sampleRate, nil
}

// SetBandwidth implements the sdrplug.Device interface.
func (s *Sdr) SetBandwidth(dir sdrplug.Direction, channel int, bw rf.Hz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stateFor(dir).bandwidth = bw
	return nil
}

// GetBandwidth implements the sdrplug.Device interface.
func (s *Sdr) GetBandwidth(dir sdrplug.Direction, channel int) (rf.Hz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateFor(dir).bandwidth, nil
}

// ListGains implements the sdrplug.Device interface. The element names
// and spans mirror a common half-duplex front end, so the stock gain
// distribution can be exercised end to end against this device.
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
	s.stateFor(dir).gains[name] = value
	return nil
}

// GetGainElement implements the sdrplug.Device interface.
func (s *Sdr) GetGainElement(dir sdrplug.Direction, channel int, name string) (float64, error) {
	if _, err := s.GainRange(dir, channel, name); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateFor(dir).gains[name], nil
}

// ListAntennas implements the sdrplug.Device interface.
func (s *Sdr) ListAntennas(dir sdrplug.Direction, channel int) []string {
	return []string{"NULL"}
}

// SetAntenna implements the sdrplug.Device interface.
func (s *Sdr) SetAntenna(dir sdrplug.Direction, channel int, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stateFor(dir).antenna = name
	return nil
}

// GetAntenna implements the sdrplug.Device interface.
func (s *Sdr) GetAntenna(dir sdrplug.Direction, channel int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateFor(dir).antenna, nil
}

// WriteSetting implements the sdrplug.Device interface. The null device
// accepts any key and stores it.
func (s *Sdr) WriteSetting(key, value string) error {
	s.settings.Store(key, value)
	return nil
}

// ReadSetting implements the sdrplug.Device interface.
func (s *Sdr) ReadSetting(key string) (string, error) {
	value, ok := s.settings.Load(key)
	if !ok {
		return "", sdrplug.ErrNotSupported
	}
	return value.(string), nil
}

// vim: foldmethod=marker
