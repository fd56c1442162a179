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
	"fmt"
	"strconv"

	"hz.tools/rf"
)

// Range describes the span of a tunable element: gain in dB, rate in
// samples per second, bandwidth or frequency in Hz. A Step of zero means
// the element is continuous over the span.
type Range struct {
	Min  float64
	Max  float64
	Step float64
}

// Device is the uniform surface every driver exposes. It covers a lot of
// ground, and most hardware supports only a slice of it; unimplemented
// calls return ErrNotSupported. Drivers embed UnimplementedDevice so that
// only the capabilities they actually have need writing.
//
// Channel indexes are per direction and run from zero; every current
// driver exposes exactly one channel per direction.
type Device interface {
	// Driver returns the registry name of the driver that made this
	// device, e.g. "hackrf".
	Driver() string

	// Hardware returns a short name for the hardware family, e.g.
	// "HackRF One".
	Hardware() string

	// HardwareInfo returns free-form identifying information: serial,
	// firmware version, board revision, whatever the hardware can say
	// about itself.
	HardwareInfo() Kwargs

	// Close releases the native handle. The factory calls this when the
	// last reference is unmade; it must be safe to call exactly once.
	Close() error

	// NumChannels returns how many channels the direction has.
	NumChannels(dir Direction) int

	// StreamFormats returns the client formats the device will convert
	// to and from, in wire markup form ("CS8", "CF32", ...).
	StreamFormats(dir Direction, channel int) []string

	// NativeStreamFormat returns the layout the hardware actually
	// speaks, and the full scale value of one component.
	NativeStreamFormat(dir Direction, channel int) (string, float64)

	// SetupStream opens one direction for streaming. Exactly one channel
	// -- channel zero -- is supported; the args may size the ring with
	// the "buffers" and "bufflen" keys.
	SetupStream(dir Direction, format string, channels []int, args Kwargs) (*Stream, error)

	// SetFrequency tunes the overall RF chain, distributing the target
	// across the tuner components as described by SetCompositeFrequency.
	SetFrequency(dir Direction, channel int, freq rf.Hz, args Kwargs) error

	// GetFrequency returns the overall tuned frequency: the sum of the
	// tuner components.
	GetFrequency(dir Direction, channel int) (rf.Hz, error)

	// ListFrequencies names the tunable components of the frequency
	// chain, ordered from the antenna inward (e.g. "RF", "CORR").
	ListFrequencies(dir Direction, channel int) []string

	// SetComponentFrequency tunes one named component. The CORR
	// component is dimensioned in parts per million, not Hz.
	SetComponentFrequency(dir Direction, channel int, name string, freq rf.Hz) error

	// GetComponentFrequency returns one named component's value.
	GetComponentFrequency(dir Direction, channel int, name string) (rf.Hz, error)

	// SetFrequencyCorrection adjusts for reference clock skew, in parts
	// per million.
	SetFrequencyCorrection(dir Direction, channel int, ppm float64) error

	// SetSampleRate sets the hardware sample rate in samples per second.
	SetSampleRate(dir Direction, channel int, rate float64) error

	// GetSampleRate returns the configured hardware sample rate.
	GetSampleRate(dir Direction, channel int) (float64, error)

	// SetBandwidth sets the baseband filter bandwidth.
	SetBandwidth(dir Direction, channel int, bw rf.Hz) error

	// GetBandwidth returns the configured baseband filter bandwidth.
	GetBandwidth(dir Direction, channel int) (rf.Hz, error)

	// ListGains names the gain elements of the direction, in the order
	// DistributeGain walks them on receive (transmit walks it reversed).
	ListGains(dir Direction, channel int) []string

	// GainRange returns the span of one named gain element.
	GainRange(dir Direction, channel int, name string) (Range, error)

	// SetGain distributes a single overall gain across the elements, as
	// described by DistributeGain.
	SetGain(dir Direction, channel int, value float64) error

	// GetGain returns the overall gain: the sum of the elements.
	GetGain(dir Direction, channel int) (float64, error)

	// SetGainElement sets one named gain element.
	SetGainElement(dir Direction, channel int, name string, value float64) error

	// GetGainElement returns one named gain element.
	GetGainElement(dir Direction, channel int, name string) (float64, error)

	// ListAntennas names the antenna ports of the direction.
	ListAntennas(dir Direction, channel int) []string

	// SetAntenna selects an antenna port by name.
	SetAntenna(dir Direction, channel int, name string) error

	// GetAntenna returns the selected antenna port.
	GetAntenna(dir Direction, channel int) (string, error)

	// WriteSetting writes one driver specific key, e.g. "biastee".
	WriteSetting(key, value string) error

	// ReadSetting reads one driver specific key.
	ReadSetting(key string) (string, error)
}

// UnimplementedDevice returns ErrNotSupported (or a zero value) for the
// whole Device surface. Drivers embed it by value and override what their
// hardware can do.
type UnimplementedDevice struct{}

// Driver implements the Device interface.
func (UnimplementedDevice) Driver() string { return "" }

// Hardware implements the Device interface.
func (UnimplementedDevice) Hardware() string { return "" }

// HardwareInfo implements the Device interface.
func (UnimplementedDevice) HardwareInfo() Kwargs { return Kwargs{} }

// Close implements the Device interface.
func (UnimplementedDevice) Close() error { return nil }

// NumChannels implements the Device interface.
func (UnimplementedDevice) NumChannels(Direction) int { return 0 }

// StreamFormats implements the Device interface.
func (UnimplementedDevice) StreamFormats(Direction, int) []string { return nil }

// NativeStreamFormat implements the Device interface.
func (UnimplementedDevice) NativeStreamFormat(Direction, int) (string, float64) {
	return "", 0
}

// SetupStream implements the Device interface.
func (UnimplementedDevice) SetupStream(Direction, string, []int, Kwargs) (*Stream, error) {
	return nil, ErrNotSupported
}

// SetFrequency implements the Device interface.
func (UnimplementedDevice) SetFrequency(Direction, int, rf.Hz, Kwargs) error {
	return ErrNotSupported
}

// GetFrequency implements the Device interface.
func (UnimplementedDevice) GetFrequency(Direction, int) (rf.Hz, error) {
	return 0, ErrNotSupported
}

// ListFrequencies implements the Device interface.
func (UnimplementedDevice) ListFrequencies(Direction, int) []string { return nil }

// SetComponentFrequency implements the Device interface.
func (UnimplementedDevice) SetComponentFrequency(Direction, int, string, rf.Hz) error {
	return ErrNotSupported
}

// GetComponentFrequency implements the Device interface.
func (UnimplementedDevice) GetComponentFrequency(Direction, int, string) (rf.Hz, error) {
	return 0, ErrNotSupported
}

// SetFrequencyCorrection implements the Device interface.
func (UnimplementedDevice) SetFrequencyCorrection(Direction, int, float64) error {
	return ErrNotSupported
}

// SetSampleRate implements the Device interface.
func (UnimplementedDevice) SetSampleRate(Direction, int, float64) error {
	return ErrNotSupported
}

// GetSampleRate implements the Device interface.
func (UnimplementedDevice) GetSampleRate(Direction, int) (float64, error) {
	return 0, ErrNotSupported
}

// SetBandwidth implements the Device interface.
func (UnimplementedDevice) SetBandwidth(Direction, int, rf.Hz) error {
	return ErrNotSupported
}

// GetBandwidth implements the Device interface.
func (UnimplementedDevice) GetBandwidth(Direction, int) (rf.Hz, error) {
	return 0, ErrNotSupported
}

// ListGains implements the Device interface.
func (UnimplementedDevice) ListGains(Direction, int) []string { return nil }

// GainRange implements the Device interface.
func (UnimplementedDevice) GainRange(Direction, int, string) (Range, error) {
	return Range{}, ErrNotSupported
}

// SetGain implements the Device interface.
func (UnimplementedDevice) SetGain(Direction, int, float64) error {
	return ErrNotSupported
}

// GetGain implements the Device interface.
func (UnimplementedDevice) GetGain(Direction, int) (float64, error) {
	return 0, ErrNotSupported
}

// SetGainElement implements the Device interface.
func (UnimplementedDevice) SetGainElement(Direction, int, string, float64) error {
	return ErrNotSupported
}

// GetGainElement implements the Device interface.
func (UnimplementedDevice) GetGainElement(Direction, int, string) (float64, error) {
	return 0, ErrNotSupported
}

// ListAntennas implements the Device interface.
func (UnimplementedDevice) ListAntennas(Direction, int) []string { return nil }

// SetAntenna implements the Device interface.
func (UnimplementedDevice) SetAntenna(Direction, int, string) error {
	return ErrNotSupported
}

// GetAntenna implements the Device interface.
func (UnimplementedDevice) GetAntenna(Direction, int) (string, error) {
	return "", ErrNotSupported
}

// WriteSetting implements the Device interface.
func (UnimplementedDevice) WriteSetting(string, string) error {
	return ErrNotSupported
}

// ReadSetting implements the Device interface.
func (UnimplementedDevice) ReadSetting(string) (string, error) {
	return "", ErrNotSupported
}

// SetCompositeFrequency is the stock tuning walk for devices whose
// frequency chain has more than one component. The overall target is
// spread across the components in their advertised order:
//
//   - a component named in args with the value "IGNORE" is skipped;
//   - a component named in args with a numeric value is pinned to it;
//   - any other component is tuned to the remaining residual.
//
// After each component, its achieved value is subtracted from the
// residual. An "OFFSET" arg shifts the first component only: the offset is
// added before tuning and removed from the residual afterward, so the
// downstream components make up the difference.
func SetCompositeFrequency(dev Device, dir Direction, channel int, freq rf.Hz, args Kwargs) error {
	var (
		offset   = args.Float("OFFSET", 0)
		residual = float64(freq)
	)

	for i, name := range dev.ListFrequencies(dir, channel) {
		value, named := args[name]
		if named && value == "IGNORE" {
			continue
		}

		target := residual
		if named {
			if pinned, err := strconv.ParseFloat(value, 64); err == nil {
				target = pinned
			}
		}
		if i == 0 {
			target += offset
		}

		if err := dev.SetComponentFrequency(dir, channel, name, rf.Hz(target)); err != nil {
			return err
		}
		achieved, err := dev.GetComponentFrequency(dir, channel, name)
		if err != nil {
			return err
		}
		residual -= float64(achieved)
		if i == 0 {
			residual += offset
		}
	}
	return nil
}

// GetCompositeFrequency sums the components of the frequency chain.
func GetCompositeFrequency(dev Device, dir Direction, channel int) (rf.Hz, error) {
	var sum rf.Hz
	for _, name := range dev.ListFrequencies(dir, channel) {
		freq, err := dev.GetComponentFrequency(dir, channel, name)
		if err != nil {
			return 0, err
		}
		sum += freq
	}
	return sum, nil
}

// DistributeGain is the stock overall-gain algorithm: a single scalar is
// spread across the gain elements, filling each to its span before moving
// to the next. Receive chains fill in advertised order; transmit chains
// fill in reverse, so the power stage is the last to come up.
func DistributeGain(dev Device, dir Direction, channel int, value float64) error {
	names := dev.ListGains(dir, channel)
	if dir == DirectionTx {
		reversed := make([]string, len(names))
		for i, name := range names {
			reversed[len(names)-1-i] = name
		}
		names = reversed
	}

	remaining := value
	for _, name := range names {
		r, err := dev.GainRange(dir, channel, name)
		if err != nil {
			return err
		}
		span := r.Max - r.Min
		take := remaining
		if take > span {
			take = span
		}
		if err := dev.SetGainElement(dir, channel, name, take+r.Min); err != nil {
			return err
		}
		remaining -= take
	}
	return nil
}

// SumGain sums the gain elements into the overall gain.
func SumGain(dev Device, dir Direction, channel int) (float64, error) {
	var sum float64
	for _, name := range dev.ListGains(dir, channel) {
		g, err := dev.GetGainElement(dir, channel, name)
		if err != nil {
			return 0, err
		}
		sum += g
	}
	return sum, nil
}

// CorrectionComponent is the frequency component name carrying reference
// clock correction, dimensioned in parts per million.
const CorrectionComponent = "CORR"

// SetCorrectionByComponent implements SetFrequencyCorrection for devices
// whose frequency chain advertises a CORR component.
func SetCorrectionByComponent(dev Device, dir Direction, channel int, ppm float64) error {
	for _, name := range dev.ListFrequencies(dir, channel) {
		if name == CorrectionComponent {
			return dev.SetComponentFrequency(dir, channel, name, rf.Hz(ppm))
		}
	}
	return ErrNotSupported
}

// ValidateStreamSetup is the shared argument check for SetupStream: one
// channel, index zero, and a format the device advertises. Drivers call
// this before allocating anything.
func ValidateStreamSetup(dev Device, dir Direction, format string, channels []int) error {
	if len(channels) > 1 {
		return fmt.Errorf("sdrplug: only one channel per stream is supported")
	}
	if len(channels) == 1 && channels[0] != 0 {
		return fmt.Errorf("sdrplug: channel %d is out of range", channels[0])
	}
	for _, have := range dev.StreamFormats(dir, 0) {
		if have == format {
			return nil
		}
	}
	return fmt.Errorf("sdrplug: %q: %w", format, ErrSampleFormatUnknown)
}

// vim: foldmethod=marker
