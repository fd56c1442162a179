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

// Package airspy binds the Airspy HF+ family into the sdrplug device
// model through libairspyhf. The hardware is receive only and speaks
// complex float32 natively.
package airspy

// #cgo pkg-config: libairspyhf
//
// #include <airspyhf.h>
import "C"

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-pointer"

	"hz.tools/rf"
	"hz.tools/sdrplug"
)

var logger = log.WithPrefix("airspy")

const (
	defaultBufNum = 15
	defaultBufLen = 65536
)

func rvToErr(rv C.int) error {
	if rv != 0 {
		return fmt.Errorf("airspy: library returned %d", int32(rv))
	}
	return nil
}

// LibraryVersion represents the version of the airspy library that's been
// linked against.
type LibraryVersion struct {
	MajorVersion uint32
	MinorVersion uint32
	Revision     uint32
}

// String will return the LibraryVersion as a semver style dotted version number.
func (lv LibraryVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", lv.MajorVersion, lv.MinorVersion, lv.Revision)
}

// GetLibraryVersion will return the version of the libairspyhf library as
// reported by the C library / airspy bindings.
func GetLibraryVersion() LibraryVersion {
	v := LibraryVersion{}
	C.airspyhf_lib_version((*C.airspyhf_lib_version_t)(unsafe.Pointer(&v)))
	return v
}

// ListSerials enumerates the Airspy SDRs attached to the local box.
func ListSerials() []uint64 {
	ndev := int(C.airspyhf_list_devices(nil, 0))
	if ndev <= 0 {
		return nil
	}
	serials := make([]uint64, ndev)
	ndev = int(C.airspyhf_list_devices(
		(*C.uint64_t)(unsafe.Pointer(&serials[0])),
		C.int(ndev),
	))
	if ndev < 0 {
		return nil
	}
	return serials[:ndev]
}

// Sdr is one opened Airspy HF+. It implements the sdrplug.Device
// interface.
type Sdr struct {
	sdrplug.UnimplementedDevice

	mu sync.Mutex

	dev    *C.airspyhf_device_t
	serial uint64

	token unsafe.Pointer

	rxOpened bool
	rxRing   *sdrplug.Ring
	running  bool

	frequency  uint64
	sampleRate uint32

	agc bool
	att uint8
	lna bool
}

func openBySerial(serial uint64) (*Sdr, error) {
	s := &Sdr{serial: serial}
	var err error
	if serial == 0 {
		err = rvToErr(C.airspyhf_open(&s.dev))
	} else {
		err = rvToErr(C.airspyhf_open_sn(&s.dev, C.uint64_t(serial)))
	}
	if err != nil {
		return nil, err
	}
	s.token = pointer.Save(s)
	return s, nil
}

// Driver implements the sdrplug.Device interface.
func (s *Sdr) Driver() string {
	return driverName
}

// Hardware implements the sdrplug.Device interface.
func (s *Sdr) Hardware() string {
	return "Airspy HF+"
}

// HardwareInfo implements the sdrplug.Device interface.
func (s *Sdr) HardwareInfo() sdrplug.Kwargs {
	return sdrplug.Kwargs{
		"serial":      fmt.Sprintf("%016x", s.serial),
		"lib_version": GetLibraryVersion().String(),
	}
}

// Close implements the sdrplug.Device interface.
func (s *Sdr) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dev == nil {
		return fmt.Errorf("airspy: device is already closed")
	}
	if s.running {
		C.airspyhf_stop(s.dev)
	}
	err := rvToErr(C.airspyhf_close(s.dev))
	s.dev = nil
	pointer.Unref(s.token)
	s.token = nil
	return err
}

// NumChannels implements the sdrplug.Device interface.
func (s *Sdr) NumChannels(dir sdrplug.Direction) int {
	if dir == sdrplug.DirectionRx {
		return 1
	}
	return 0
}

// StreamFormats implements the sdrplug.Device interface.
func (s *Sdr) StreamFormats(dir sdrplug.Direction, channel int) []string {
	if dir != sdrplug.DirectionRx {
		return nil
	}
	return []string{
		sdrplug.FormatCF32,
		sdrplug.FormatCF64,
		sdrplug.FormatCS16,
		sdrplug.FormatCS8,
	}
}

// NativeStreamFormat implements the sdrplug.Device interface.
func (s *Sdr) NativeStreamFormat(dir sdrplug.Direction, channel int) (string, float64) {
	return sdrplug.FormatCF32, 1
}

// SetupStream implements the sdrplug.Device interface.
func (s *Sdr) SetupStream(dir sdrplug.Direction, format string, channels []int, args sdrplug.Kwargs) (*sdrplug.Stream, error) {
	if dir != sdrplug.DirectionRx {
		return nil, sdrplug.ErrNotSupported
	}
	if err := sdrplug.ValidateStreamSetup(s, dir, format, channels); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rxOpened {
		return nil, fmt.Errorf("airspy: rx stream is already open")
	}

	bufNum := int(args.Uint("buffers", defaultBufNum))
	bufLen := int(args.Uint("bufflen", defaultBufLen))
	if bufNum <= 0 || bufLen <= 0 || bufLen%sdrplug.SampleFormatC64.Size() != 0 {
		return nil, fmt.Errorf("airspy: bad ring geometry %dx%d", bufNum, bufLen)
	}

	s.rxRing = sdrplug.NewRing(bufNum, bufLen, sdrplug.SampleFormatC64.Size())
	s.rxOpened = true

	sf, err := sdrplug.ParseSampleFormat(format)
	if err != nil {
		return nil, err
	}
	return sdrplug.NewStream(rxOps{s}, c64Converter{}, s.rxRing, dir, sf), nil
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

	if err := rvToErr(C.airspyhf_set_freq(s.dev, C.uint32_t(freq))); err != nil {
		return err
	}
	s.frequency = uint64(freq)
	return nil
}

// GetComponentFrequency implements the sdrplug.Device interface.
func (s *Sdr) GetComponentFrequency(dir sdrplug.Direction, channel int, name string) (rf.Hz, error) {
	if name != "RF" {
		return 0, sdrplug.ErrNotSupported
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return rf.Hz(s.frequency), nil
}

// SetSampleRate implements the sdrplug.Device interface.
func (s *Sdr) SetSampleRate(dir sdrplug.Direction, channel int, rate float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := rvToErr(C.airspyhf_set_samplerate(s.dev, C.uint32_t(rate))); err != nil {
		return err
	}
	s.sampleRate = uint32(rate)
	return nil
}

// GetSampleRate implements the sdrplug.Device interface.
func (s *Sdr) GetSampleRate(dir sdrplug.Direction, channel int) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return float64(s.sampleRate), nil
}

// ListGains implements the sdrplug.Device interface.
func (s *Sdr) ListGains(dir sdrplug.Direction, channel int) []string {
	if dir != sdrplug.DirectionRx {
		return nil
	}
	return []string{"LNA"}
}

// GainRange implements the sdrplug.Device interface.
func (s *Sdr) GainRange(dir sdrplug.Direction, channel int, name string) (sdrplug.Range, error) {
	if dir != sdrplug.DirectionRx || name != "LNA" {
		return sdrplug.Range{}, sdrplug.ErrNotSupported
	}
	return sdrplug.Range{Min: 0, Max: 6, Step: 6}, nil
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
	if dir != sdrplug.DirectionRx || name != "LNA" {
		return sdrplug.ErrNotSupported
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var flag C.uint8_t
	if value > 0 {
		flag = 1
	}
	if err := rvToErr(C.airspyhf_set_hf_lna(s.dev, flag)); err != nil {
		return err
	}
	s.lna = flag == 1
	return nil
}

// GetGainElement implements the sdrplug.Device interface.
func (s *Sdr) GetGainElement(dir sdrplug.Direction, channel int, name string) (float64, error) {
	if dir != sdrplug.DirectionRx || name != "LNA" {
		return 0, sdrplug.ErrNotSupported
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lna {
		return 6, nil
	}
	return 0, nil
}

// ListAntennas implements the sdrplug.Device interface.
func (s *Sdr) ListAntennas(dir sdrplug.Direction, channel int) []string {
	return []string{"RX"}
}

// SetAntenna implements the sdrplug.Device interface.
func (s *Sdr) SetAntenna(dir sdrplug.Direction, channel int, name string) error {
	if name != "RX" {
		return sdrplug.ErrNotSupported
	}
	return nil
}

// GetAntenna implements the sdrplug.Device interface.
func (s *Sdr) GetAntenna(dir sdrplug.Direction, channel int) (string, error) {
	return "RX", nil
}

// WriteSetting implements the sdrplug.Device interface. Recognized keys:
// "hf_agc" and "hf_att" (attenuation, in 6 dB steps from 0 to 8).
func (s *Sdr) WriteSetting(key, value string) error {
	kw := sdrplug.Kwargs{key: value}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch key {
	case "hf_agc":
		on := kw.Bool(key, false)
		var flag C.uint8_t
		if on {
			flag = 1
		}
		if err := rvToErr(C.airspyhf_set_hf_agc(s.dev, flag)); err != nil {
			return err
		}
		s.agc = on
	case "hf_att":
		att := uint8(kw.Uint(key, 0))
		if att > 8 {
			return fmt.Errorf("airspy: hf_att must be 0 through 8")
		}
		if err := rvToErr(C.airspyhf_set_hf_att(s.dev, C.uint8_t(att))); err != nil {
			return err
		}
		s.att = att
	default:
		return sdrplug.ErrNotSupported
	}
	return nil
}

// ReadSetting implements the sdrplug.Device interface.
func (s *Sdr) ReadSetting(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch key {
	case "hf_agc":
		return fmt.Sprintf("%t", s.agc), nil
	case "hf_att":
		return fmt.Sprintf("%d", s.att), nil
	default:
		return "", sdrplug.ErrNotSupported
	}
}

// vim: foldmethod=marker
