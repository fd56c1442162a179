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

// Package rtl binds RTL2832U dongles into the sdrplug device model
// through librtlsdr.
package rtl

// #cgo pkg-config: librtlsdr
//
// #include <stdint.h>
// #include <stdlib.h>
//
// #include <rtl-sdr.h>
import "C"

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-pointer"

	"hz.tools/rf"
	"hz.tools/sdrplug"
)

var logger = log.WithPrefix("rtlsdr")

const (
	defaultBufNum = 15
	defaultBufLen = 16 * 32 * 512
)

func rvToErr(rv C.int) error {
	if rv != 0 {
		return fmt.Errorf("rtlsdr: library returned %d", int32(rv))
	}
	return nil
}

// DeviceCount will return the number of rtlsdr devices present on the
// system.
func DeviceCount() uint {
	return uint(C.rtlsdr_get_device_count())
}

// usbStrings returns the manufacturer, product and serial of the device at
// the provided index, without opening it.
func usbStrings(index uint) (string, string, string, error) {
	var cMfgr *C.char = (*C.char)(C.malloc(256))
	defer C.free(unsafe.Pointer(cMfgr))

	var cProd *C.char = (*C.char)(C.malloc(256))
	defer C.free(unsafe.Pointer(cProd))

	var cSerial *C.char = (*C.char)(C.malloc(256))
	defer C.free(unsafe.Pointer(cSerial))

	if err := rvToErr(C.rtlsdr_get_device_usb_strings(C.uint32_t(index), cMfgr, cProd, cSerial)); err != nil {
		return "", "", "", err
	}
	return C.GoString(cMfgr), C.GoString(cProd), C.GoString(cSerial), nil
}

// Tuner is the tuner chip soldered next to the RTL2832U.
type Tuner uint32

// Tuner chip ids, numerically aligned with librtlsdr's tuner enum.
const (
	TunerUnknown Tuner = 0
	TunerE4000   Tuner = 1
	TunerFC0012  Tuner = 2
	TunerFC0013  Tuner = 3
	TunerFC2580  Tuner = 4
	TunerR820T   Tuner = 5
	TunerR828D   Tuner = 6
)

// String will return the full marketing name of the tuner chip.
func (t Tuner) String() string {
	switch t {
	case TunerE4000:
		return "Elonics E4000"
	case TunerFC0012:
		return "Fitipower FC0012"
	case TunerFC0013:
		return "Fitipower FC0013"
	case TunerFC2580:
		return "Fci FC2580"
	case TunerR820T:
		return "Rafael Micro R820T"
	case TunerR828D:
		return "Rafael Micro R828D"
	default:
		return "Unknown"
	}
}

// Sdr is one opened RTL2832U dongle. It implements the sdrplug.Device
// interface; the hardware is receive only.
type Sdr struct {
	sdrplug.UnimplementedDevice

	mu sync.Mutex

	handle *C.rtlsdr_dev_t
	index  uint
	serial string
	tuner  Tuner

	token unsafe.Pointer

	rxOpened bool
	rxRing   *sdrplug.Ring
	running  bool
	done     chan struct{}

	bufNum uint32

	sampleRate uint32
	bandwidth  uint32

	iqSwap     atomic.Bool
	directSamp int
	offsetTune bool
	digitalAGC bool
	testMode   bool
	biasTee    bool

	conv *u8Converter
}

// openIndex opens the dongle at the provided device index.
func openIndex(index uint) (*Sdr, error) {
	s := &Sdr{index: index}
	if err := rvToErr(C.rtlsdr_open(&s.handle, C.uint32_t(index))); err != nil {
		return nil, err
	}
	_, _, serial, err := usbStrings(index)
	if err != nil {
		C.rtlsdr_close(s.handle)
		return nil, err
	}
	s.serial = serial
	s.tuner = Tuner(C.rtlsdr_get_tuner_type(s.handle))
	s.token = pointer.Save(s)
	s.conv = newU8Converter(s)
	return s, nil
}

// Driver implements the sdrplug.Device interface.
func (s *Sdr) Driver() string {
	return driverName
}

// Hardware implements the sdrplug.Device interface.
func (s *Sdr) Hardware() string {
	return "RTL2832U"
}

// HardwareInfo implements the sdrplug.Device interface.
func (s *Sdr) HardwareInfo() sdrplug.Kwargs {
	return sdrplug.Kwargs{
		"serial": s.serial,
		"tuner":  s.tuner.String(),
	}
}

// Close implements the sdrplug.Device interface.
func (s *Sdr) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle == nil {
		return fmt.Errorf("rtlsdr: device is already closed")
	}
	if s.running {
		C.rtlsdr_cancel_async(s.handle)
	}
	err := rvToErr(C.rtlsdr_close(s.handle))
	s.handle = nil
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
		sdrplug.FormatCU8,
		sdrplug.FormatCS8,
		sdrplug.FormatCS16,
		sdrplug.FormatCF32,
	}
}

// NativeStreamFormat implements the sdrplug.Device interface.
func (s *Sdr) NativeStreamFormat(dir sdrplug.Direction, channel int) (string, float64) {
	return sdrplug.FormatCU8, 128
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
		return nil, fmt.Errorf("rtlsdr: rx stream is already open")
	}

	bufNum := int(args.Uint("buffers", defaultBufNum))
	bufLen := int(args.Uint("bufflen", defaultBufLen))
	if bufNum <= 0 || bufLen <= 0 || bufLen%sdrplug.SampleFormatU8.Size() != 0 {
		return nil, fmt.Errorf("rtlsdr: bad ring geometry %dx%d", bufNum, bufLen)
	}
	s.bufNum = uint32(args.Uint("asyncBuffs", 0))

	s.rxRing = sdrplug.NewRing(bufNum, bufLen, sdrplug.SampleFormatU8.Size())
	s.rxOpened = true

	sf, err := sdrplug.ParseSampleFormat(format)
	if err != nil {
		return nil, err
	}
	return sdrplug.NewStream(rxOps{s}, s.conv, s.rxRing, dir, sf), nil
}

// SetFrequency implements the sdrplug.Device interface.
func (s *Sdr) SetFrequency(dir sdrplug.Direction, channel int, freq rf.Hz, args sdrplug.Kwargs) error {
	return sdrplug.SetCompositeFrequency(s, dir, channel, freq, args)
}

// GetFrequency implements the sdrplug.Device interface.
func (s *Sdr) GetFrequency(dir sdrplug.Direction, channel int) (rf.Hz, error) {
	return sdrplug.GetCompositeFrequency(s, dir, channel)
}

// ListFrequencies implements the sdrplug.Device interface. The CORR
// component carries the frequency correction, in parts per million.
func (s *Sdr) ListFrequencies(dir sdrplug.Direction, channel int) []string {
	return []string{"RF", "CORR"}
}

// SetComponentFrequency implements the sdrplug.Device interface.
func (s *Sdr) SetComponentFrequency(dir sdrplug.Direction, channel int, name string, freq rf.Hz) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch name {
	case "RF":
		return rvToErr(C.rtlsdr_set_center_freq(s.handle, C.uint32_t(freq)))
	case "CORR":
		rv := C.rtlsdr_set_freq_correction(s.handle, C.int(freq))
		// librtlsdr answers -2 when the correction is already set.
		if rv == -2 {
			return nil
		}
		return rvToErr(rv)
	default:
		return sdrplug.ErrNotSupported
	}
}

// GetComponentFrequency implements the sdrplug.Device interface.
func (s *Sdr) GetComponentFrequency(dir sdrplug.Direction, channel int, name string) (rf.Hz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch name {
	case "RF":
		return rf.Hz(C.rtlsdr_get_center_freq(s.handle)), nil
	case "CORR":
		return rf.Hz(C.rtlsdr_get_freq_correction(s.handle)), nil
	default:
		return 0, sdrplug.ErrNotSupported
	}
}

// SetFrequencyCorrection implements the sdrplug.Device interface.
func (s *Sdr) SetFrequencyCorrection(dir sdrplug.Direction, channel int, ppm float64) error {
	return sdrplug.SetCorrectionByComponent(s, dir, channel, ppm)
}

// SetSampleRate implements the sdrplug.Device interface.
func (s *Sdr) SetSampleRate(dir sdrplug.Direction, channel int, rate float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := rvToErr(C.rtlsdr_set_sample_rate(s.handle, C.uint32_t(rate))); err != nil {
		return err
	}
	s.sampleRate = uint32(rate)
	return nil
}

// GetSampleRate implements the sdrplug.Device interface.
func (s *Sdr) GetSampleRate(dir sdrplug.Direction, channel int) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return float64(C.rtlsdr_get_sample_rate(s.handle)), nil
}

// SetBandwidth implements the sdrplug.Device interface.
func (s *Sdr) SetBandwidth(dir sdrplug.Direction, channel int, bw rf.Hz) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := rvToErr(C.rtlsdr_set_tuner_bandwidth(s.handle, C.uint32_t(bw))); err != nil {
		return err
	}
	s.bandwidth = uint32(bw)
	return nil
}

// GetBandwidth implements the sdrplug.Device interface.
func (s *Sdr) GetBandwidth(dir sdrplug.Direction, channel int) (rf.Hz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return rf.Hz(s.bandwidth), nil
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

// vim: foldmethod=marker
